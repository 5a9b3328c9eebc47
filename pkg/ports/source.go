package ports

import (
	"context"

	"github.com/aretw0/blueprint/pkg/domain"
)

// SessionSource loads the roster of a session.
type SessionSource interface {
	// LoadGroup returns the session's roster.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	LoadGroup(ctx context.Context, sessionID string) (domain.GroupContext, error)
}

// CatalogSource loads the exercises available to a business.
type CatalogSource interface {
	LoadCatalog(ctx context.Context, businessID string) ([]domain.Exercise, error)
}

// PreferenceStore persists a client's preference changes.
type PreferenceStore interface {
	// UpdatePreferences merges prefs into the client's stored context.
	// Returns domain.ErrSessionNotFound or domain.ErrClientNotFound.
	UpdatePreferences(ctx context.Context, sessionID, clientID string, prefs domain.Preferences) error
}

// Roster is the full read/write view of session rosters.
type Roster interface {
	SessionSource
	PreferenceStore

	// SaveGroup stores or replaces a session roster.
	SaveGroup(ctx context.Context, group domain.GroupContext) error

	// ListSessions returns the stored session IDs.
	ListSessions(ctx context.Context) ([]string, error)
}

// TemplateSource resolves template types. An empty type selects the default.
type TemplateSource interface {
	Template(templateType string) (domain.Template, error)
	Types() []string
}
