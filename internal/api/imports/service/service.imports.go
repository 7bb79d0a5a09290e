// Package importsvc - ImportService: wiring giữa reconciler thuần và các service
// catalog/contact/directory, cộng apply plan khi commit.
package importsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	authsvc "contact_importer/internal/api/auth/service"
	basesvc "contact_importer/internal/api/base/service"
	contactmodels "contact_importer/internal/api/contacts/models"
	contactsvc "contact_importer/internal/api/contacts/service"
	importdto "contact_importer/internal/api/imports/dto"
	importmodels "contact_importer/internal/api/imports/models"
	"contact_importer/internal/common"
	"contact_importer/internal/fieldmapping"
	"contact_importer/internal/global"
	"contact_importer/internal/logger"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImportService điều phối toàn bộ luồng import: detect, validate, preview, commit.
type ImportService struct {
	fieldService   *contactsvc.ContactFieldService
	contactService *contactsvc.ContactService
	userService    *authsvc.UserService
	jobService     *ImportJobService
}

// NewImportService tạo ImportService mới.
func NewImportService() (*ImportService, error) {
	fieldSvc, err := contactsvc.NewContactFieldService()
	if err != nil {
		return nil, fmt.Errorf("tạo ContactFieldService: %w", err)
	}
	contactSvc, err := contactsvc.NewContactService()
	if err != nil {
		return nil, fmt.Errorf("tạo ContactService: %w", err)
	}
	userSvc, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("tạo UserService: %w", err)
	}
	jobSvc, err := NewImportJobService()
	if err != nil {
		return nil, fmt.Errorf("tạo ImportJobService: %w", err)
	}
	return &ImportService{
		fieldService:   fieldSvc,
		contactService: contactSvc,
		userService:    userSvc,
		jobService:     jobSvc,
	}, nil
}

// catalog đọc catalog trường dữ liệu; catalog rỗng là lỗi hệ thống (fatal),
// phân biệt hẳn với lỗi per-row.
func (s *ImportService) catalog(ctx context.Context) ([]fieldmapping.CatalogField, error) {
	catalog, err := s.fieldService.Catalog(ctx)
	if err != nil {
		return nil, common.NewError(common.ErrCodeImportCatalog,
			"Không đọc được catalog trường dữ liệu", common.StatusInternalServerError, err)
	}
	if len(catalog) == 0 {
		return nil, common.ErrImportCatalogEmpty
	}
	return catalog, nil
}

// fieldTypes dựng map fieldId -> dataType từ catalog.
func fieldTypes(catalog []fieldmapping.CatalogField) map[string]string {
	types := make(map[string]string, len(catalog))
	for _, f := range catalog {
		types[f.FieldID] = f.DataType
	}
	return types
}

// maxImportRows đọc giới hạn số dòng từ config, fallback khi chạy ngoài server (unit test).
func maxImportRows() int {
	if global.MongoDB_ServerConfig != nil && global.MongoDB_ServerConfig.Import_MaxRows > 0 {
		return global.MongoDB_ServerConfig.Import_MaxRows
	}
	return 10000
}

// sampleRowCap đọc số dòng mẫu tối đa cho detect từ config.
func sampleRowCap() int {
	if global.MongoDB_ServerConfig != nil && global.MongoDB_ServerConfig.Import_SampleRows > 0 {
		return global.MongoDB_ServerConfig.Import_SampleRows
	}
	return 5
}

// DetectMappings chạy matcher trên headers + sample rows với catalog hiện tại.
func (s *ImportService) DetectMappings(ctx context.Context, input *importdto.DetectMappingsInput) ([]fieldmapping.DetectedFieldMapping, error) {
	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	sampleRows := input.SampleRows
	if limit := sampleRowCap(); len(sampleRows) > limit {
		sampleRows = sampleRows[:limit]
	}
	mappings := fieldmapping.NewMatcher(catalog).DetectMappings(input.Headers, sampleRows)

	// Cắt bớt sample values trả về theo config
	if global.MongoDB_ServerConfig != nil {
		if limit := global.MongoDB_ServerConfig.Import_SampleValues; limit > 0 {
			for i := range mappings {
				if len(mappings[i].SampleValues) > limit {
					mappings[i].SampleValues = mappings[i].SampleValues[:limit]
				}
			}
		}
	}
	return mappings, nil
}

// ValidateMappings kiểm tra cấu hình mapping. Trả về danh sách lỗi cấu hình
// (rỗng = hợp lệ); lỗi hệ thống (catalog) trả qua error.
func (s *ImportService) ValidateMappings(ctx context.Context, mappings []importdto.ConfirmedFieldMapping) ([]string, error) {
	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return MappingConfigErrors(mappings, fieldTypes(catalog)), nil
}

// Preview dựng ImportPlan cho batch mà không ghi gì vào database.
func (s *ImportService) Preview(ctx context.Context, input *importdto.PreviewInput) (*importdto.ImportPlan, error) {
	if max := maxImportRows(); len(input.Rows) > max {
		return nil, common.NewError(common.ErrCodeValidationInput,
			fmt.Sprintf("Batch vượt quá giới hạn %d dòng", max), common.StatusBadRequest, nil)
	}

	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	types := fieldTypes(catalog)

	// Cấu hình mapping sai là blocking — không reconcile với cấu hình mơ hồ
	if configErrs := MappingConfigErrors(input.Mappings, types); len(configErrs) > 0 {
		return nil, common.NewError(common.ErrCodeImportMapping,
			"Cấu hình mapping không hợp lệ", common.StatusBadRequest, configErrs)
	}

	reconciler := s.newReconciler(ctx, types)
	return reconciler.BuildPlan(input.Headers, input.Rows, input.Mappings)
}

// newReconciler wire reconciler thuần với directory và contact collection thật.
// ErrNotFound là miss bình thường; mọi lỗi khác (Mongo down, timeout) là lỗi hệ thống
// IMP_004 — reconcile với lookup hỏng sẽ ghi đè agent đã gán và nhân bản contact.
func (s *ImportService) newReconciler(ctx context.Context, types map[string]string) *Reconciler {
	return &Reconciler{
		FieldTypes: types,
		ResolveAgent: func(email string) (string, bool, error) {
			user, err := s.userService.FindActiveByEmail(ctx, email)
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return "", false, nil
				}
				logger.GetAppLogger().WithError(err).WithField("email", email).
					Error("Tra cứu agent trong directory thất bại, dừng reconcile")
				return "", false, common.NewError(common.ErrCodeImportDirectory,
					common.MsgImportDirectoryUnavailable, common.StatusServiceUnavailable, err)
			}
			return user.ID.Hex(), true, nil
		},
		FindMatch: func(email, phone string) (*contactmodels.Contact, error) {
			contact, err := s.contactService.FindMatch(ctx, email, phone)
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return nil, nil
				}
				logger.GetAppLogger().WithError(err).Error("Tìm contact trùng thất bại, dừng reconcile")
				return nil, common.NewError(common.ErrCodeImportDirectory,
					common.MsgImportDirectoryUnavailable, common.StatusServiceUnavailable, err)
			}
			return contact, nil
		},
	}
}

// Commit dựng lại plan trên trạng thái hiện tại của collection rồi áp dụng:
// insert bucket willCreate, $set các trường changed của bucket willMerge,
// cuối cùng ghi một ImportJob để tra cứu lại.
func (s *ImportService) Commit(ctx context.Context, input *importdto.PreviewInput, createdBy primitive.ObjectID) (*importdto.CommitResponse, error) {
	start := time.Now()

	plan, err := s.Preview(ctx, input)
	if err != nil {
		return nil, err
	}

	rowErrors := append([]importdto.RowError{}, plan.Errors...)
	createdCount := 0
	for _, item := range plan.WillCreate {
		contact := CandidateToContact(item.Candidate)
		if _, err := s.contactService.CreateContact(ctx, contact); err != nil {
			// Per-row, non-fatal: ví dụ 2 row trong cùng batch tạo ra cùng match key
			rowErrors = append(rowErrors, importdto.RowError{
				RowIndex: item.RowIndex,
				Message:  fmt.Sprintf("tạo contact thất bại: %v", err),
			})
			continue
		}
		createdCount++
	}

	mergedCount := 0
	for _, item := range plan.WillMerge {
		updateData := mergeUpdateData(&item)
		if _, err := s.contactService.UpdateById(ctx, item.Existing.ID, updateData); err != nil {
			rowErrors = append(rowErrors, importdto.RowError{
				RowIndex: item.RowIndex,
				Message:  fmt.Sprintf("merge contact thất bại: %v", err),
			})
			continue
		}
		mergedCount++
	}

	job := importmodels.ImportJob{
		JobID:        uuid.NewString(),
		Status:       importmodels.JobStatusCompleted,
		TotalRows:    len(input.Rows),
		CreatedCount: createdCount,
		MergedCount:  mergedCount,
		SkippedCount: len(plan.WillSkip),
		ErrorCount:   len(rowErrors),
		RowErrors:    rowErrorMessages(rowErrors),
		DurationMs:   time.Since(start).Milliseconds(),
		CreatedBy:    createdBy,
	}
	if _, err := s.jobService.InsertOne(ctx, job); err != nil {
		// Plan đã được áp dụng; job record hỏng chỉ mất lịch sử, không rollback
		logger.GetAppLogger().WithError(err).WithField("jobId", job.JobID).
			Error("Ghi import job thất bại sau khi đã áp dụng plan")
	}

	return &importdto.CommitResponse{
		JobID:        job.JobID,
		Status:       job.Status,
		TotalRows:    job.TotalRows,
		CreatedCount: createdCount,
		MergedCount:  mergedCount,
		SkippedCount: job.SkippedCount,
		ErrorCount:   job.ErrorCount,
		Errors:       rowErrors,
		DurationMs:   job.DurationMs,
	}, nil
}

// mergeUpdateData dựng $set cho một merge: các trường changed cộng match key đi kèm.
func mergeUpdateData(item *importdto.PlanMerge) *basesvc.UpdateData {
	set := make(map[string]interface{}, len(item.ChangedFields)+2)
	for _, fieldID := range item.ChangedFields {
		value := strings.TrimSpace(item.Candidate[fieldID])
		switch fieldID {
		case fieldmapping.FieldIDEmail:
			set["email"] = value
			set["emailKey"] = contactmodels.EmailMatchKey(value)
		case fieldmapping.FieldIDPhone:
			set["phone"] = value
			set["phoneKey"] = contactmodels.PhoneMatchKey(value)
		case fieldmapping.FieldIDCreatedAt:
			set["sourceCreatedAt"] = value
		case fieldmapping.FieldIDFirstName, fieldmapping.FieldIDLastName, fieldmapping.FieldIDAgentUID:
			set[fieldID] = value
		default:
			set["fields."+fieldID] = value
		}
	}
	return &basesvc.UpdateData{Set: set}
}

// rowErrorMessages format lỗi per-row thành chuỗi để lưu trong job record.
func rowErrorMessages(rowErrors []importdto.RowError) []string {
	if len(rowErrors) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(rowErrors))
	for _, e := range rowErrors {
		msgs = append(msgs, fmt.Sprintf("row %d: %s", e.RowIndex, e.Message))
	}
	return msgs
}
