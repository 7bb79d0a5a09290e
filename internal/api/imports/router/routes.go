// Package router đăng ký các route thuộc domain imports.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	importhdl "contact_importer/internal/api/imports/handler"
	"contact_importer/internal/api/middleware"
	apirouter "contact_importer/internal/api/router"
)

// Register đăng ký tất cả route imports lên v1.
func Register(v1 fiber.Router, _ *apirouter.Router) error {
	importHandler, err := importhdl.NewImportHandler()
	if err != nil {
		return fmt.Errorf("tạo ImportHandler: %w", err)
	}

	middlewares := []fiber.Handler{middleware.AuthMiddleware()}

	// POST /imports/detect-mappings — gợi ý mapping từ headers + sample rows
	apirouter.RegisterRouteWithMiddleware(v1, "/imports", "POST", "/detect-mappings", middlewares, importHandler.HandleDetectMappings)
	// POST /imports/validate-mappings — kiểm tra cấu hình mapping trước khi import
	apirouter.RegisterRouteWithMiddleware(v1, "/imports", "POST", "/validate-mappings", middlewares, importHandler.HandleValidateMappings)
	// POST /imports/preview — dựng plan create/merge/skip/errors, không ghi database
	apirouter.RegisterRouteWithMiddleware(v1, "/imports", "POST", "/preview", middlewares, importHandler.HandlePreview)
	// POST /imports/commit — reconcile lại rồi áp dụng plan, trả về jobId
	apirouter.RegisterRouteWithMiddleware(v1, "/imports", "POST", "/commit", middlewares, importHandler.HandleCommit)

	// GET /imports/jobs — lịch sử import, phân trang
	apirouter.RegisterRouteWithMiddleware(v1, "/imports", "GET", "/jobs", middlewares, importHandler.HandleListJobs)
	// GET /imports/jobs/:jobId
	apirouter.RegisterRouteWithMiddleware(v1, "/imports", "GET", "/jobs/:jobId", middlewares, importHandler.HandleGetJob)

	return nil
}
