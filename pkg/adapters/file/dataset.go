// Package file loads rosters and catalogs from YAML or JSON files and
// persists rosters as JSON files in a directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/aretw0/blueprint/pkg/domain"
	"github.com/aretw0/blueprint/pkg/ports"
	"gopkg.in/yaml.v3"
)

// rawDataset mirrors the file layout before boundary decoding.
type rawDataset struct {
	Catalogs map[string][]map[string]any `yaml:"catalogs"`
	Sessions []rawSession                `yaml:"sessions"`
}

type rawSession struct {
	SessionID    string           `yaml:"session_id"`
	BusinessID   string           `yaml:"business_id"`
	TemplateType string           `yaml:"template_type"`
	Clients      []map[string]any `yaml:"clients"`
}

// Dataset is a decoded fixture file: catalogs per business and session rosters.
type Dataset struct {
	Catalogs map[string][]domain.Exercise
	Sessions []domain.GroupContext

	// Rejected lists catalog records that failed decoding or validation.
	Rejected []error
}

// LoadDataset reads a YAML (or JSON) dataset.
// Client records that cannot be decoded fail the load; catalog records are
// skipped and reported in Rejected.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return ParseDataset(data)
}

// ParseDataset decodes dataset bytes.
func ParseDataset(data []byte) (*Dataset, error) {
	var raw rawDataset
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	ds := &Dataset{Catalogs: make(map[string][]domain.Exercise, len(raw.Catalogs))}

	businesses := make([]string, 0, len(raw.Catalogs))
	for biz := range raw.Catalogs {
		businesses = append(businesses, biz)
	}
	sort.Strings(businesses)

	for _, biz := range businesses {
		for i, rec := range raw.Catalogs[biz] {
			ex, err := domain.DecodeExercise(rec)
			if err != nil {
				ds.Rejected = append(ds.Rejected, fmt.Errorf("catalog %s[%d]: %w", biz, i, err))
				continue
			}
			ds.Catalogs[biz] = append(ds.Catalogs[biz], ex)
		}
	}

	var errs []error
	for _, s := range raw.Sessions {
		group := domain.GroupContext{
			SessionID:    s.SessionID,
			BusinessID:   s.BusinessID,
			TemplateType: s.TemplateType,
		}
		for i, rec := range s.Clients {
			c, err := domain.DecodeClientContext(rec)
			if err != nil {
				errs = append(errs, fmt.Errorf("session %s client[%d]: %w", s.SessionID, i, err))
				continue
			}
			group.Clients = append(group.Clients, c)
		}
		ds.Sessions = append(ds.Sessions, group)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return ds, nil
}

// Session returns the roster with the given ID.
func (d *Dataset) Session(id string) (domain.GroupContext, bool) {
	for _, s := range d.Sessions {
		if s.SessionID == id {
			return s, true
		}
	}
	return domain.GroupContext{}, false
}

// CatalogStore accepts catalogs per business.
type CatalogStore interface {
	SaveCatalog(ctx context.Context, businessID string, catalog []domain.Exercise) error
}

// Seed writes every session to roster and every catalog to catalogs.
func (d *Dataset) Seed(ctx context.Context, roster ports.Roster, catalogs CatalogStore) error {
	for _, s := range d.Sessions {
		if err := roster.SaveGroup(ctx, s); err != nil {
			return fmt.Errorf("seed session %s: %w", s.SessionID, err)
		}
	}
	for biz, catalog := range d.Catalogs {
		if err := catalogs.SaveCatalog(ctx, biz, catalog); err != nil {
			return fmt.Errorf("seed catalog %s: %w", biz, err)
		}
	}
	return nil
}
