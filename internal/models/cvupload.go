package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// CVUpload tracks one submitted document. ExtractedResult is null while the
// analysis is pending and is overwritten (last write wins) on every run.
type CVUpload struct {
	ID        string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    string `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	CompanyID string `gorm:"column:company_id;type:uuid;index" json:"company_id"`

	FileName string `gorm:"column:file_name;type:text" json:"file_name"`
	FilePath string `gorm:"column:file_path;type:text;index" json:"file_path"` // object key
	FileURL  string `gorm:"column:file_url;type:text" json:"file_url"`
	FileSize int64  `gorm:"column:file_size;type:bigint" json:"file_size"`
	MimeType string `gorm:"column:mime_type;type:text" json:"mime_type"`

	// Denormalized from the structured result so the dashboard can filter
	// without unpacking JSONB.
	Skills pq.StringArray `gorm:"column:skills;type:text[]" json:"skills,omitempty"`

	ExtractedResult datatypes.JSON `gorm:"column:extracted_result;type:jsonb" json:"extracted_result,omitempty"`
	AnalyzedAt      *time.Time     `gorm:"column:analyzed_at;type:timestamptz" json:"analyzed_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (CVUpload) TableName() string { return "cv_uploads" }

// Pending reports whether the upload has no analysis outcome yet. This is the
// caller-visible state: any stored result, including the raw-text fallback,
// counts as analyzed.
func (u *CVUpload) Pending() bool { return len(u.ExtractedResult) == 0 }
