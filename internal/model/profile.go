package model

// Profile is the role directory record for a user. The threading engine reads
// it to resolve the authorship role of a thread root; the workflow engine
// reads it to label reviewer remarks.
type Profile struct {
	ID       string   `json:"id"`
	FullName string   `json:"full_name"`
	Role     Role     `json:"role"`
	Scope    ScopeRef `json:"scope"`
}
