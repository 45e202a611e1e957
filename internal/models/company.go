package models

import "time"

// Company is the tenant boundary: a CV is visible to the company it was
// submitted to and to its uploader, nobody else.
type Company struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string `gorm:"column:name;type:text" json:"name"`
	Industry    string `gorm:"column:industry;type:text" json:"industry"`
	OwnerUserID string `gorm:"column:owner_user_id;type:uuid;uniqueIndex" json:"owner_user_id"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Company) TableName() string { return "companies" }
