package acl

// SetOverridesRequest is the override upsert body. Both fields are optional;
// an absent field means an empty set. The write is a full-document replace.
type SetOverridesRequest struct {
	Add    []string `json:"add" validate:"omitempty,dive,min=1,max=100"`
	Remove []string `json:"remove" validate:"omitempty,dive,min=1,max=100"`
}

// SetOverridesResponse returns the freshly recomputed effective set.
type SetOverridesResponse struct {
	OK          bool     `json:"ok"`
	Permissions []string `json:"permissions"`
}

// PermissionsResponse carries an effective permission set.
type PermissionsResponse struct {
	Permissions []string `json:"permissions"`
}

// CatalogResponse enumerates the permission universe and role defaults.
type CatalogResponse struct {
	Permissions []string            `json:"permissions"`
	Roles       map[string][]string `json:"roles"`
}
