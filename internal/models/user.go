package models

import "time"

type UserRole string

const (
	RoleCompanyAdmin UserRole = "company_admin"
	RoleApplicant    UserRole = "applicant"
)

type User struct {
	ID           string   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email        string   `gorm:"column:email;type:text;uniqueIndex" json:"email"`
	PasswordHash string   `gorm:"column:password_hash;type:text" json:"-"`
	Role         UserRole `gorm:"column:role;type:text" json:"role"`

	// Tenant membership. Set at registration for applicants, backfilled
	// after company creation for admins.
	CompanyID *string `gorm:"column:company_id;type:uuid;index" json:"company_id,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (User) TableName() string { return "users" }
