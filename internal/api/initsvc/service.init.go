// Package initsvc chứa InitService dùng để khởi tạo dữ liệu ban đầu (catalog trường dữ liệu core).
// Tách ra package riêng để cmd/server gọi khi boot mà không đụng trực tiếp vào từng service con.
package initsvc

import (
	"context"
	"fmt"

	contactsvc "contact_importer/internal/api/contacts/service"
	"contact_importer/internal/logger"
)

// InitService là cấu trúc chứa các phương thức khởi tạo dữ liệu ban đầu cho hệ thống.
type InitService struct {
	fieldService *contactsvc.ContactFieldService // Service xử lý catalog trường dữ liệu
}

// NewInitService tạo mới một đối tượng InitService.
func NewInitService() (*InitService, error) {
	fieldService, err := contactsvc.NewContactFieldService()
	if err != nil {
		return nil, fmt.Errorf("failed to create contact field service: %v", err)
	}
	return &InitService{fieldService: fieldService}, nil
}

// InitCoreFields seed 6 trường core vào catalog (idempotent, upsert theo fieldId).
// Catalog rỗng làm mọi luồng import fail với lỗi hệ thống, nên bước này phải chạy trước khi listen.
func (h *InitService) InitCoreFields(ctx context.Context) error {
	log := logger.GetAppLogger()
	if err := h.fieldService.SeedCoreFields(ctx); err != nil {
		return fmt.Errorf("failed to seed core contact fields: %v", err)
	}
	log.Info("Core contact fields seeded")
	return nil
}
