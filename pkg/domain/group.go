package domain

import "fmt"

// GroupContext is the roster of one session plus the template it should follow.
type GroupContext struct {
	SessionID    string          `json:"session_id" yaml:"session_id" mapstructure:"session_id"`
	BusinessID   string          `json:"business_id" yaml:"business_id" mapstructure:"business_id"`
	TemplateType string          `json:"template_type,omitempty" yaml:"template_type,omitempty" mapstructure:"template_type"`
	Clients      []ClientContext `json:"clients" yaml:"clients" mapstructure:"clients"`
}

// Validate checks the structural rules that make a run impossible.
// Profile-level problems are left to ClientContext.CheckProfile.
func (g GroupContext) Validate() error {
	if g.SessionID == "" {
		return &ValidationError{Key: "session_id", Reason: "required"}
	}
	var errs []error
	seen := make(map[string]struct{}, len(g.Clients))
	for i, c := range g.Clients {
		if c.ClientID == "" {
			errs = append(errs, &ValidationError{Key: fmt.Sprintf("clients[%d].client_id", i), Reason: "required"})
			continue
		}
		if _, dup := seen[c.ClientID]; dup {
			errs = append(errs, &ValidationError{Key: fmt.Sprintf("clients[%d].client_id", i), Reason: "duplicate client id", Value: c.ClientID})
		}
		seen[c.ClientID] = struct{}{}
	}
	if err := aggregate(errs); err != nil {
		return err
	}
	if len(g.Clients) < MinClients {
		return &InsufficientDataError{SessionID: g.SessionID, Clients: len(g.Clients)}
	}
	return nil
}

// Client returns the client with the given ID.
func (g GroupContext) Client(id string) (ClientContext, bool) {
	for _, c := range g.Clients {
		if c.ClientID == id {
			return c, true
		}
	}
	return ClientContext{}, false
}

// ClientIDs returns the roster order.
func (g GroupContext) ClientIDs() []string {
	ids := make([]string, len(g.Clients))
	for i, c := range g.Clients {
		ids[i] = c.ClientID
	}
	return ids
}

// Clone returns a deep copy.
func (g GroupContext) Clone() GroupContext {
	clients := make([]ClientContext, len(g.Clients))
	for i, c := range g.Clients {
		clients[i] = c.Clone()
	}
	g.Clients = clients
	return g
}
