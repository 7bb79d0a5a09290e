// Package models - ImportJob thuộc domain imports (crm_import_jobs).
// Lưu lịch sử các lần commit import: số lượng theo từng bucket và thời gian chạy.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái của một import job.
const (
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// ImportJob lưu kết quả một lần commit import (crm_import_jobs).
type ImportJob struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	// JobID là UUID cấp cho client để tra cứu lại job.
	JobID  string `json:"jobId" bson:"jobId" index:"unique"`
	Status string `json:"status" bson:"status"` // completed | failed

	// Số liệu của plan đã áp dụng
	TotalRows    int `json:"totalRows" bson:"totalRows"`
	CreatedCount int `json:"createdCount" bson:"createdCount"`
	MergedCount  int `json:"mergedCount" bson:"mergedCount"`
	SkippedCount int `json:"skippedCount" bson:"skippedCount"`
	ErrorCount   int `json:"errorCount" bson:"errorCount"`

	// Lỗi per-row của Step B, giữ lại để xem lại sau khi commit
	RowErrors []string `json:"rowErrors,omitempty" bson:"rowErrors,omitempty"`

	// FailReason ghi lý do khi Status = failed
	FailReason string `json:"failReason,omitempty" bson:"failReason,omitempty"`

	DurationMs int64 `json:"durationMs" bson:"durationMs"`

	// CreatedBy là user thực hiện import
	CreatedBy primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt" index:"single:-1"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
