package models

import "time"

// AnalysisAttempt is an audit record of one inference call, kept in mongo
// with a TTL so raw model output does not accumulate forever.
type AnalysisAttempt struct {
	CVUploadID  string    `bson:"cv_upload_id" json:"cv_upload_id"`
	RequestedBy string    `bson:"requested_by" json:"requested_by"`
	Model       string    `bson:"model" json:"model"`
	Status      string    `bson:"status" json:"status"` // ok|failed
	Structured  bool      `bson:"structured" json:"structured"`
	ResponseRaw string    `bson:"response_raw,omitempty" json:"response_raw,omitempty"`
	Error       string    `bson:"error,omitempty" json:"error,omitempty"`
	DurationMS  int64     `bson:"duration_ms" json:"duration_ms"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt   time.Time `bson:"expires_at" json:"expires_at"`
}
