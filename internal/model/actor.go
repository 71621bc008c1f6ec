package model

// Role is the caller-supplied actor role. Authentication/session mechanics
// live outside the core; the request layer resolves the role and passes it in.
type Role string

const (
	RoleCitizen           Role = "citizen"
	RoleBarangayOfficial  Role = "barangay_official"
	RoleCityOfficial      Role = "city_official"
	RoleMunicipalOfficial Role = "municipal_official"
	RoleAdmin             Role = "admin"
)

// Actor describes the caller of an engine operation.
type Actor struct {
	UserID string   `json:"user_id"`
	Role   Role     `json:"role"`
	Scope  ScopeRef `json:"scope"`
}

// IsElevated reports whether the actor holds the admin capability
// (ownership takeover, moderation).
func (a Actor) IsElevated() bool {
	return a.Role == RoleAdmin
}

// IsOfficial reports whether the actor is a local-government official of any level.
func (a Actor) IsOfficial() bool {
	switch a.Role {
	case RoleBarangayOfficial, RoleCityOfficial, RoleMunicipalOfficial:
		return true
	}
	return false
}

// IsReviewer reports whether the actor may act as a submission reviewer.
// Barangay submissions are reviewed one level up, so barangay officials
// never review.
func (a Actor) IsReviewer() bool {
	if a.Role == RoleAdmin {
		return true
	}
	return (a.Role == RoleCityOfficial || a.Role == RoleMunicipalOfficial) && !a.Scope.IsZero()
}
