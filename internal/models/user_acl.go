package models

// UserACL is the per-user access policy. It is provisioned by an external
// administrative process; this service only reads it.
//
// AllowedEntities may contain duplicates in storage; consumers treat it as
// a set. An empty list is a valid policy that grants access to nothing,
// which is distinct from the policy being absent entirely.
type UserACL struct {
	ID              int64    `json:"id"`
	UserID          string   `json:"userId"`
	IsAdmin         bool     `json:"isAdmin"`
	AllowedEntities []string `json:"allowedEntities"`
}
