package templates

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/blueprint/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Registry resolves template types to block definitions.
// It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	templates   map[string]domain.Template
	defaultType string
}

// Option configures the Registry.
type Option func(*Registry)

// WithDefault sets the template used when a session names none.
func WithDefault(templateType string) Option {
	return func(r *Registry) {
		r.defaultType = templateType
	}
}

// WithoutBuiltin starts from an empty registry.
func WithoutBuiltin() Option {
	return func(r *Registry) {
		r.templates = make(map[string]domain.Template)
	}
}

// NewRegistry creates a registry preloaded with the built-in templates.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		templates:   make(map[string]domain.Template),
		defaultType: DefaultType,
	}
	for _, t := range Builtin() {
		r.templates[t.Type] = t
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Template returns the template for the given type.
// An empty type resolves to the registry default.
func (r *Registry) Template(templateType string) (domain.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if templateType == "" {
		templateType = r.defaultType
	}
	t, ok := r.templates[templateType]
	if !ok {
		return domain.Template{}, fmt.Errorf("%w: %q", domain.ErrTemplateNotFound, templateType)
	}
	return clone(t), nil
}

// Register adds or replaces a template after validating it.
func (r *Registry) Register(t domain.Template) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("template %q: %w", t.Type, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[t.Type] = clone(t)
	return nil
}

// Types lists the registered template types in lexical order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.templates))
	for k := range r.templates {
		types = append(types, k)
	}
	slices.Sort(types)
	return types
}

// File is the on-disk layout of a template file.
type File struct {
	Templates []domain.Template `yaml:"templates" json:"templates"`
}

// LoadFile reads templates from a YAML or JSON file and registers them.
// Nothing is registered if any template in the file is invalid.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read templates: %w", err)
	}

	var f File
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &f)
	} else {
		err = yaml.Unmarshal(data, &f)
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	for _, t := range f.Templates {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("template %q: %w", t.Type, err)
		}
	}
	for _, t := range f.Templates {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func clone(t domain.Template) domain.Template {
	blocks := make([]domain.BlockDefinition, len(t.Blocks))
	for i, b := range t.Blocks {
		b.FunctionTags = slices.Clone(b.FunctionTags)
		b.MovementPatternFilter = slices.Clone(b.MovementPatternFilter)
		blocks[i] = b
	}
	t.Blocks = blocks
	return t
}
