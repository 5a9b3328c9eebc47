package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/blueprint/pkg/domain"
)

// Roster implements ports.Roster and ports.CatalogSource on the local filesystem.
// Sessions live in <base>/sessions/<id>.json and catalogs in <base>/catalogs/<business>.json.
type Roster struct {
	BasePath string

	mu sync.Mutex // serializes read-modify-write within this process
}

// NewRoster creates a roster rooted at basePath.
// If basePath is empty, it defaults to ".blueprint".
func NewRoster(basePath string) *Roster {
	if basePath == "" {
		basePath = ".blueprint"
	}
	return &Roster{BasePath: basePath}
}

func (r *Roster) sessionPath(sessionID string) (string, error) {
	if sessionID == "" || strings.ContainsAny(sessionID, `/\`) || sessionID == "." || sessionID == ".." {
		return "", &domain.ValidationError{Key: "session_id", Reason: "not a valid file name", Value: sessionID}
	}
	return filepath.Join(r.BasePath, "sessions", sessionID+".json"), nil
}

func (r *Roster) catalogPath(businessID string) (string, error) {
	if businessID == "" || strings.ContainsAny(businessID, `/\`) || businessID == "." || businessID == ".." {
		return "", &domain.ValidationError{Key: "business_id", Reason: "not a valid file name", Value: businessID}
	}
	return filepath.Join(r.BasePath, "catalogs", businessID+".json"), nil
}

// SaveGroup persists the group to a JSON file.
func (r *Roster) SaveGroup(ctx context.Context, group domain.GroupContext) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(group)
}

func (r *Roster) save(group domain.GroupContext) error {
	path, err := r.sessionPath(group.SessionID)
	if err != nil {
		return err
	}
	return writeJSON(path, group)
}

// LoadGroup reads a group from its JSON file.
func (r *Roster) LoadGroup(ctx context.Context, sessionID string) (domain.GroupContext, error) {
	path, err := r.sessionPath(sessionID)
	if err != nil {
		return domain.GroupContext{}, err
	}

	var group domain.GroupContext
	if err := readJSON(path, &group); err != nil {
		if os.IsNotExist(err) {
			return domain.GroupContext{}, fmt.Errorf("session %q: %w", sessionID, domain.ErrSessionNotFound)
		}
		return domain.GroupContext{}, fmt.Errorf("failed to read session file: %w", err)
	}
	return group, nil
}

// UpdatePreferences merges prefs into the stored client.
func (r *Roster) UpdatePreferences(ctx context.Context, sessionID, clientID string, prefs domain.Preferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	group, err := r.LoadGroup(ctx, sessionID)
	if err != nil {
		return err
	}
	for i, c := range group.Clients {
		if c.ClientID == clientID {
			group.Clients[i] = c.Apply(prefs)
			return r.save(group)
		}
	}
	return fmt.Errorf("client %q in session %q: %w", clientID, sessionID, domain.ErrClientNotFound)
}

// ListSessions returns all stored session IDs.
func (r *Roster) ListSessions(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(r.BasePath, "sessions"))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var sessions []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			sessions = append(sessions, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	sort.Strings(sessions)
	return sessions, nil
}

// DeleteGroup removes the session file.
func (r *Roster) DeleteGroup(ctx context.Context, sessionID string) error {
	path, err := r.sessionPath(sessionID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// SaveCatalog writes a business catalog.
func (r *Roster) SaveCatalog(ctx context.Context, businessID string, catalog []domain.Exercise) error {
	path, err := r.catalogPath(businessID)
	if err != nil {
		return err
	}
	return writeJSON(path, catalog)
}

// LoadCatalog reads a business catalog; a missing file is an empty catalog.
func (r *Roster) LoadCatalog(ctx context.Context, businessID string) ([]domain.Exercise, error) {
	path, err := r.catalogPath(businessID)
	if err != nil {
		return nil, err
	}
	var catalog []domain.Exercise
	if err := readJSON(path, &catalog); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return catalog, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeJSON writes through a temporary file so readers never see a partial file.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to ensure directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
