package sqlite

import "github.com/aretw0/introspection"

// StoreState exposes internal state for observability.
type StoreState struct {
	Path            string `json:"path"`
	ReadOnly        bool   `json:"read_only"`
	OpenConnections int    `json:"open_connections"`
	Queries         int64  `json:"queries"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	return StoreState{
		Path:            s.config.Path,
		ReadOnly:        s.config.ReadOnly,
		OpenConnections: s.db.Stats().OpenConnections,
		Queries:         s.queries.Load(),
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "sqlite"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
