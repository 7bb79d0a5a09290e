// Package importhdl - Handler luồng import: detect/validate mapping, preview, commit, lịch sử job.
package importhdl

import (
	"errors"
	"fmt"
	"strconv"

	basehdl "contact_importer/internal/api/base/handler"
	importdto "contact_importer/internal/api/imports/dto"
	importsvc "contact_importer/internal/api/imports/service"
	"contact_importer/internal/common"
	"contact_importer/internal/global"
	"contact_importer/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ImportHandler xử lý các endpoint import.
type ImportHandler struct {
	ImportService *importsvc.ImportService
	JobService    *importsvc.ImportJobService
}

// NewImportHandler tạo ImportHandler mới.
func NewImportHandler() (*ImportHandler, error) {
	svc, err := importsvc.NewImportService()
	if err != nil {
		return nil, fmt.Errorf("tạo ImportService: %w", err)
	}
	jobSvc, err := importsvc.NewImportJobService()
	if err != nil {
		return nil, fmt.Errorf("tạo ImportJobService: %w", err)
	}
	return &ImportHandler{ImportService: svc, JobService: jobSvc}, nil
}

// HandleDetectMappings xử lý POST /imports/detect-mappings.
// Nhận headers + sample rows, trả về gợi ý mapping với confidence cho từng header.
func (h *ImportHandler) HandleDetectMappings(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input importdto.DetectMappingsInput
		if !parseAndValidate(c, &input) {
			return nil
		}
		mappings, err := h.ImportService.DetectMappings(c.Context(), &input)
		if err != nil {
			respondError(c, err)
			return nil
		}
		respondSuccess(c, "Thành công", importdto.DetectMappingsResponse{Mappings: mappings})
		return nil
	})
}

// HandleValidateMappings xử lý POST /imports/validate-mappings.
// Cấu hình sai (trùng targetFieldId, field không có trong catalog) trả về danh sách lỗi.
func (h *ImportHandler) HandleValidateMappings(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input importdto.ValidateMappingsInput
		if !parseAndValidate(c, &input) {
			return nil
		}
		configErrs, err := h.ImportService.ValidateMappings(c.Context(), input.Mappings)
		if err != nil {
			respondError(c, err)
			return nil
		}
		respondSuccess(c, "Thành công", importdto.ValidateMappingsResponse{
			Valid:  len(configErrs) == 0,
			Errors: configErrs,
		})
		return nil
	})
}

// HandlePreview xử lý POST /imports/preview — dựng ImportPlan, không ghi database.
func (h *ImportHandler) HandlePreview(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input importdto.PreviewInput
		if !parseAndValidate(c, &input) {
			return nil
		}
		plan, err := h.ImportService.Preview(c.Context(), &input)
		if err != nil {
			respondError(c, err)
			return nil
		}
		respondSuccess(c, "Thành công", plan)
		return nil
	})
}

// HandleCommit xử lý POST /imports/commit — reconcile lại trên trạng thái hiện tại rồi áp dụng plan.
func (h *ImportHandler) HandleCommit(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input importdto.PreviewInput
		if !parseAndValidate(c, &input) {
			return nil
		}
		createdBy := userIDFromContext(c)
		result, err := h.ImportService.Commit(c.Context(), &input, createdBy)
		if err != nil {
			respondError(c, err)
			return nil
		}
		logger.LogImport(result.JobID, c, map[string]interface{}{
			"totalRows": result.TotalRows,
			"created":   result.CreatedCount,
			"merged":    result.MergedCount,
			"skipped":   result.SkippedCount,
			"errors":    result.ErrorCount,
		})
		respondSuccess(c, "Import hoàn tất", result)
		return nil
	})
}

// HandleListJobs xử lý GET /imports/jobs — lịch sử import mới nhất trước.
func (h *ImportHandler) HandleListJobs(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		page, limit := parsePagination(c)
		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		result, err := h.JobService.FindWithPagination(c.Context(), bson.M{}, page, limit, opts)
		if err != nil {
			respondError(c, err)
			return nil
		}
		respondSuccess(c, "Thành công", result)
		return nil
	})
}

// HandleGetJob xử lý GET /imports/jobs/:jobId.
func (h *ImportHandler) HandleGetJob(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		jobID := c.Params("jobId")
		if jobID == "" {
			respondError(c, common.NewError(
				common.ErrCodeValidationInput, "Thiếu jobId", common.StatusBadRequest, nil,
			))
			return nil
		}
		job, err := h.JobService.FindByJobID(c.Context(), jobID)
		if err != nil {
			respondError(c, err)
			return nil
		}
		respondSuccess(c, "Thành công", job)
		return nil
	})
}

// parseAndValidate bind body + validate struct tag. Trả về false nếu đã trả lỗi cho client.
func parseAndValidate(c fiber.Ctx, input interface{}) bool {
	if err := c.Bind().Body(input); err != nil {
		respondError(c, common.NewError(
			common.ErrCodeValidationFormat,
			"Dữ liệu gửi lên không đúng định dạng JSON",
			common.StatusBadRequest,
			err,
		))
		return false
	}
	if err := global.Validate.Struct(input); err != nil {
		respondError(c, common.NewError(
			common.ErrCodeValidationInput,
			fmt.Sprintf("Dữ liệu không hợp lệ: %v", err),
			common.StatusBadRequest,
			err,
		))
		return false
	}
	return true
}

func parsePagination(c fiber.Ctx) (int64, int64) {
	page := int64(1)
	limit := int64(20)
	if s := c.Query("page"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil && v > 0 {
			page = v
		}
	}
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	return page, limit
}

// userIDFromContext lấy id user đã đăng nhập từ auth middleware, zero nếu không có.
func userIDFromContext(c fiber.Ctx) primitive.ObjectID {
	userIDStr, ok := c.Locals("user_id").(string)
	if !ok || userIDStr == "" {
		return primitive.NilObjectID
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		return primitive.NilObjectID
	}
	return userID
}

func respondSuccess(c fiber.Ctx, message string, data interface{}) {
	basehdl.JSONResponse(c, common.StatusOK, fiber.Map{
		"code": common.StatusOK, "message": message, "data": data, "status": "success",
	})
}

// respondError viết error envelope cho các handler không đi qua BaseHandler.
func respondError(c fiber.Ctx, err error) {
	var customErr *common.Error
	if errors.As(err, &customErr) {
		basehdl.JSONResponse(c, customErr.StatusCode, fiber.Map{
			"code":    customErr.Code.Code,
			"message": customErr.Message,
			"details": customErr.Details,
			"status":  "error",
		})
		return
	}
	basehdl.JSONResponse(c, common.StatusInternalServerError, fiber.Map{
		"code":    common.ErrCodeInternalServer.Code,
		"message": err.Error(),
		"status":  "error",
	})
}
