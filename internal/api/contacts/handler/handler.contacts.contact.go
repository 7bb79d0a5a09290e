// Package contacthdl - Handler contact (crm_contacts).
package contacthdl

import (
	"fmt"
	"reflect"

	basehdl "contact_importer/internal/api/base/handler"
	basesvc "contact_importer/internal/api/base/service"
	contactdto "contact_importer/internal/api/contacts/dto"
	contactmodels "contact_importer/internal/api/contacts/models"
	contactsvc "contact_importer/internal/api/contacts/service"
	"contact_importer/internal/common"
	"contact_importer/internal/utility"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContactHandler xử lý CRUD contact. Ghi đè InsertOne/UpdateById của base
// để giữ match key (emailKey/phoneKey) đồng bộ với email/phone.
type ContactHandler struct {
	*basehdl.BaseHandler[contactmodels.Contact, contactdto.ContactCreateInput, contactdto.ContactUpdateInput]
	ContactService *contactsvc.ContactService
}

// NewContactHandler tạo ContactHandler mới.
func NewContactHandler() (*ContactHandler, error) {
	svc, err := contactsvc.NewContactService()
	if err != nil {
		return nil, fmt.Errorf("tạo ContactService: %w", err)
	}
	h := &ContactHandler{ContactService: svc}
	h.BaseHandler = basehdl.NewBaseHandler[contactmodels.Contact, contactdto.ContactCreateInput, contactdto.ContactUpdateInput](svc.BaseServiceMongoImpl)
	return h, nil
}

// InsertOne thêm contact mới, tính match key trước khi insert.
func (h *ContactHandler) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input contactdto.ContactCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON hoặc không khớp với cấu trúc yêu cầu. Chi tiết: %v", err),
				common.StatusBadRequest,
				err,
			))
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		model, err := h.TransformCreateInputToModel(&input)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Lỗi transform dữ liệu: %v", err),
				common.StatusBadRequest,
				err,
			))
			return nil
		}

		data, err := h.ContactService.CreateContact(c.Context(), model)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// UpdateById cập nhật contact theo id, tính lại match key khi email/phone thay đổi.
func (h *ContactHandler) UpdateById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id := c.Params("id")
		if id == "" || !primitive.IsValidObjectID(id) {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("ID '%s' không đúng định dạng MongoDB ObjectID (phải là chuỗi hex 24 ký tự)", id),
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		var input contactdto.ContactUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Dữ liệu cập nhật không đúng định dạng JSON hoặc không khớp với cấu trúc yêu cầu. Chi tiết: %v", err),
				common.StatusBadRequest,
				nil,
			))
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		model, err := h.TransformUpdateInputToModel(&input)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Lỗi transform dữ liệu: %v", err),
				common.StatusBadRequest,
				err,
			))
			return nil
		}
		// Match key đi cùng email/phone trong cùng một $set
		model.RefreshMatchKeys()

		updateData := &basesvc.UpdateData{Set: make(map[string]interface{})}
		modelMap, err := utility.ToMap(model)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeInternalServer,
				fmt.Sprintf("Lỗi convert model sang map: %v", err),
				common.StatusInternalServerError,
				err,
			))
			return nil
		}
		for k, v := range modelMap {
			if rv := reflect.ValueOf(v); rv.IsValid() && !rv.IsZero() {
				updateData.Set[k] = v
			}
		}

		data, err := h.BaseService.UpdateById(c.Context(), utility.String2ObjectID(id), updateData)
		h.HandleResponse(c, data, err)
		return nil
	})
}
