package models

// Identity is the authenticated caller as resolved by the access gate:
// subject, app role, and tenant membership. CompanyID is empty when the
// caller has no tenant yet.
type Identity struct {
	UserID    string   `json:"user_id"`
	Role      UserRole `json:"role"`
	CompanyID string   `json:"company_id,omitempty"`
}
