// Package router đăng ký các route thuộc domain contacts: contact CRUD và catalog trường dữ liệu.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	contacthdl "contact_importer/internal/api/contacts/handler"
	"contact_importer/internal/api/middleware"
	apirouter "contact_importer/internal/api/router"
)

// Register đăng ký tất cả route contacts lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	contactHandler, err := contacthdl.NewContactHandler()
	if err != nil {
		return fmt.Errorf("tạo ContactHandler: %w", err)
	}
	fieldHandler, err := contacthdl.NewContactFieldHandler()
	if err != nil {
		return fmt.Errorf("tạo ContactFieldHandler: %w", err)
	}

	middlewares := []fiber.Handler{middleware.AuthMiddleware()}

	// Catalog trường dữ liệu
	// GET /contacts/fields
	apirouter.RegisterRouteWithMiddleware(v1, "/contacts", "GET", "/fields", middlewares, fieldHandler.HandleListFields)
	// POST /contacts/fields
	apirouter.RegisterRouteWithMiddleware(v1, "/contacts", "POST", "/fields", middlewares, fieldHandler.HandleCreateField)
	// DELETE /contacts/fields/:fieldId — trường core không xóa được
	apirouter.RegisterRouteWithMiddleware(v1, "/contacts", "DELETE", "/fields/:fieldId", middlewares, fieldHandler.HandleDeleteField)

	// CRUD contact chuẩn (insert-one, find, update-by-id/:id, delete-by-id/:id, ...)
	r.RegisterCRUDRoutes(v1, "/contacts", contactHandler, apirouter.ReadWriteConfig)

	return nil
}
