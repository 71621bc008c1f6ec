package model

import "fmt"

// ScopeKind identifies the level of the administrative unit that owns a
// planning document.
type ScopeKind string

const (
	ScopeBarangay     ScopeKind = "barangay"
	ScopeCity         ScopeKind = "city"
	ScopeMunicipality ScopeKind = "municipality"
)

// ScopeRef points at exactly one administrative unit. The zero value means
// "no scope" (e.g. a citizen actor).
type ScopeRef struct {
	Kind ScopeKind `json:"kind"`
	ID   string    `json:"id"`
}

// IsZero reports whether the reference carries no scope at all.
func (s ScopeRef) IsZero() bool {
	return s.Kind == "" && s.ID == ""
}

// Validate ensures the reference names a known scope kind with a non-empty id.
func (s ScopeRef) Validate() error {
	switch s.Kind {
	case ScopeBarangay, ScopeCity, ScopeMunicipality:
	default:
		return fmt.Errorf("unknown scope kind: %q", s.Kind)
	}
	if s.ID == "" {
		return fmt.Errorf("scope id is required")
	}
	return nil
}
