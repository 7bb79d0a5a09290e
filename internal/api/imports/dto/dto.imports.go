// Package dto - DTO cho domain imports: detect/validate mapping, preview và commit plan.
package dto

import (
	contactmodels "contact_importer/internal/api/contacts/models"
	"contact_importer/internal/fieldmapping"
)

// ConfirmedFieldMapping là một mapping đã được người dùng xác nhận sau bước detect.
type ConfirmedFieldMapping struct {
	SourceHeader  string `json:"sourceHeader" validate:"required"`
	TargetFieldID string `json:"targetFieldId" validate:"required,field_id"`
}

// DetectMappingsInput dữ liệu cho POST /imports/detect-mappings.
type DetectMappingsInput struct {
	Headers    []string   `json:"headers" validate:"required,min=1"`
	SampleRows [][]string `json:"sampleRows"`
}

// DetectMappingsResponse trả về gợi ý mapping cho từng header.
type DetectMappingsResponse struct {
	Mappings []fieldmapping.DetectedFieldMapping `json:"mappings"`
}

// ValidateMappingsInput dữ liệu cho POST /imports/validate-mappings.
type ValidateMappingsInput struct {
	Mappings []ConfirmedFieldMapping `json:"mappings" validate:"required,min=1,dive"`
}

// ValidateMappingsResponse trả về kết quả kiểm tra mapping.
// Valid = false kèm danh sách lỗi cấu hình (ví dụ trùng targetFieldId).
type ValidateMappingsResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// PreviewInput dữ liệu cho POST /imports/preview và /imports/commit.
type PreviewInput struct {
	Headers  []string                `json:"headers" validate:"required,min=1"`
	Rows     [][]string              `json:"rows" validate:"required"`
	Mappings []ConfirmedFieldMapping `json:"mappings" validate:"required,min=1,dive"`
}

// NormalizedCandidate là một contact ứng viên sau Step A: fieldId -> giá trị đã chuẩn hóa.
// Trường rỗng không bao giờ xuất hiện trong map.
type NormalizedCandidate map[string]string

// RowError là lỗi per-row của Step B, non-fatal với cả batch.
type RowError struct {
	RowIndex int    `json:"rowIndex"`
	Message  string `json:"message"`
}

// PlanCreate là một candidate sẽ được tạo mới.
type PlanCreate struct {
	RowIndex  int                 `json:"rowIndex"`
	Candidate NormalizedCandidate `json:"candidate"`
}

// PlanMerge là một candidate sẽ được merge vào contact đã có.
type PlanMerge struct {
	RowIndex  int                     `json:"rowIndex"`
	Candidate NormalizedCandidate     `json:"candidate"`
	Existing  *contactmodels.Contact  `json:"existing"`
	// ChangedFields là các fieldId sẽ bị ghi đè khi áp dụng Step D
	ChangedFields []string `json:"changedFields"`
}

// PlanSkip là một candidate bị bỏ qua kèm lý do.
type PlanSkip struct {
	RowIndex  int                 `json:"rowIndex"`
	Candidate NormalizedCandidate `json:"candidate"`
	Reason    string              `json:"reason"` // "empty row" | "identical to existing"
}

// ImportPlan là kết quả phân loại toàn bộ batch — hợp đồng bàn giao cho bước commit.
// Mỗi row hợp lệ nằm trong đúng một bucket; row lỗi nằm trong Errors.
type ImportPlan struct {
	WillCreate []PlanCreate `json:"willCreate"`
	WillMerge  []PlanMerge  `json:"willMerge"`
	WillSkip   []PlanSkip   `json:"willSkip"`
	Errors     []RowError   `json:"errors"`
}

// CommitResponse trả về kết quả commit: jobId để tra cứu và số liệu đã áp dụng.
type CommitResponse struct {
	JobID        string     `json:"jobId"`
	Status       string     `json:"status"`
	TotalRows    int        `json:"totalRows"`
	CreatedCount int        `json:"createdCount"`
	MergedCount  int        `json:"mergedCount"`
	SkippedCount int        `json:"skippedCount"`
	ErrorCount   int        `json:"errorCount"`
	Errors       []RowError `json:"errors,omitempty"`
	DurationMs   int64      `json:"durationMs"`
}
