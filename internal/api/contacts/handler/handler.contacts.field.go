// Package contacthdl - Handler catalog trường dữ liệu contact (crm_contact_fields).
package contacthdl

import (
	"errors"
	"fmt"

	basehdl "contact_importer/internal/api/base/handler"
	contactdto "contact_importer/internal/api/contacts/dto"
	contactmodels "contact_importer/internal/api/contacts/models"
	contactsvc "contact_importer/internal/api/contacts/service"
	"contact_importer/internal/common"
	"contact_importer/internal/global"
	"contact_importer/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// ContactFieldHandler xử lý catalog trường dữ liệu: list, tạo custom, xóa custom.
type ContactFieldHandler struct {
	FieldService *contactsvc.ContactFieldService
}

// NewContactFieldHandler tạo ContactFieldHandler mới.
func NewContactFieldHandler() (*ContactFieldHandler, error) {
	svc, err := contactsvc.NewContactFieldService()
	if err != nil {
		return nil, fmt.Errorf("tạo ContactFieldService: %w", err)
	}
	return &ContactFieldHandler{FieldService: svc}, nil
}

// HandleListFields xử lý GET /contacts/fields — trả về toàn bộ catalog theo thứ tự ổn định.
func (h *ContactFieldHandler) HandleListFields(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		fields, err := h.FieldService.ListFields(c.Context())
		if err != nil {
			respondError(c, err)
			return nil
		}
		data := make([]contactdto.ContactFieldResponse, 0, len(fields))
		for _, f := range fields {
			data = append(data, toFieldResponse(&f))
		}
		basehdl.JSONResponse(c, common.StatusOK, fiber.Map{
			"code": common.StatusOK, "message": "Thành công", "data": data, "status": "success",
		})
		return nil
	})
}

// HandleCreateField xử lý POST /contacts/fields — tạo trường custom mới.
func (h *ContactFieldHandler) HandleCreateField(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input contactdto.ContactFieldCreateInput
		if err := c.Bind().Body(&input); err != nil {
			respondError(c, common.NewError(
				common.ErrCodeValidationFormat,
				"Dữ liệu gửi lên không đúng định dạng JSON",
				common.StatusBadRequest,
				err,
			))
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			respondError(c, common.NewError(
				common.ErrCodeValidationInput,
				fmt.Sprintf("Dữ liệu không hợp lệ: %v", err),
				common.StatusBadRequest,
				err,
			))
			return nil
		}

		field, err := h.FieldService.CreateCustomField(c.Context(), input.Label, input.DataType)
		if err != nil {
			respondError(c, err)
			return nil
		}
		logger.LogCRUD("create", "contact_field", field.FieldID, c, map[string]interface{}{"label": field.Label})
		basehdl.JSONResponse(c, common.StatusOK, fiber.Map{
			"code": common.StatusOK, "message": "Tạo trường thành công", "data": toFieldResponse(field), "status": "success",
		})
		return nil
	})
}

// HandleDeleteField xử lý DELETE /contacts/fields/:fieldId.
// Trường core bị chặn ở base service (IsCore protection).
func (h *ContactFieldHandler) HandleDeleteField(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		fieldID := c.Params("fieldId")
		if fieldID == "" {
			respondError(c, common.NewError(
				common.ErrCodeValidationInput, "Thiếu fieldId", common.StatusBadRequest, nil,
			))
			return nil
		}
		if err := h.FieldService.DeleteCustomField(c.Context(), fieldID); err != nil {
			respondError(c, err)
			return nil
		}
		logger.LogCRUD("delete", "contact_field", fieldID, c, nil)
		basehdl.JSONResponse(c, common.StatusOK, fiber.Map{
			"code": common.StatusOK, "message": "Xóa trường thành công", "data": fiber.Map{"fieldId": fieldID}, "status": "success",
		})
		return nil
	})
}

func toFieldResponse(f *contactmodels.ContactField) contactdto.ContactFieldResponse {
	return contactdto.ContactFieldResponse{
		ID:        f.ID,
		FieldID:   f.FieldID,
		Label:     f.Label,
		DataType:  f.DataType,
		IsCore:    f.IsCore,
		SortOrder: f.SortOrder,
		CreatedAt: f.CreatedAt,
	}
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
