// Package router đăng ký các route thuộc domain auth: System, Auth, User.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authhdl "contact_importer/internal/api/auth/handler"
	basehdl "contact_importer/internal/api/base/handler"
	"contact_importer/internal/api/middleware"
	apirouter "contact_importer/internal/api/router"
)

// Register đăng ký tất cả route auth (system, auth, user) lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	if err := registerSystemRoutes(v1); err != nil {
		return err
	}
	if err := registerAuthRoutes(v1, r); err != nil {
		return err
	}
	return nil
}

func registerSystemRoutes(router fiber.Router) error {
	systemHandler, err := basehdl.NewSystemHandler()
	if err != nil {
		return fmt.Errorf("failed to create system handler: %w", err)
	}
	router.Get("/system/health", systemHandler.HandleHealth)
	return nil
}

func registerAuthRoutes(router fiber.Router, r *apirouter.Router) error {
	userHandler, err := authhdl.NewUserHandler()
	if err != nil {
		return fmt.Errorf("failed to create user handler: %w", err)
	}

	// Route public: đăng ký và đăng nhập
	router.Post("/auth/register", userHandler.HandleRegister)
	router.Post("/auth/login", userHandler.HandleLogin)

	// Route yêu cầu xác thực
	authOnlyMiddleware := middleware.AuthMiddleware()
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "POST", "/logout", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleLogout)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "GET", "/profile", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleGetProfile)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "PUT", "/profile", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleUpdateProfile)

	// Quản lý user: block/unblock + CRUD chỉ đọc (directory tra cứu agent)
	apirouter.RegisterRouteWithMiddleware(router, "/user", "POST", "/block", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleBlockUser)
	apirouter.RegisterRouteWithMiddleware(router, "/user", "POST", "/unblock", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleUnBlockUser)
	r.RegisterCRUDRoutes(router, "/user", userHandler, apirouter.ReadOnlyConfig)
	return nil
}
