package middleware

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	models "contact_importer/internal/api/auth/models"
	authsvc "contact_importer/internal/api/auth/service"
	"contact_importer/internal/common"
	"contact_importer/internal/global"
	"contact_importer/internal/logger"
	"contact_importer/internal/utility"
)

// AuthManager quản lý xác thực người dùng
type AuthManager struct {
	UserCRUD  *authsvc.UserService
	TokenCRUD *authsvc.AccessTokenService
	Cache     *utility.Cache
}

var (
	authManagerInstance *AuthManager
	authManagerOnce     sync.Once
)

// GetAuthManager trả về instance duy nhất của AuthManager (singleton pattern)
func GetAuthManager() *AuthManager {
	authManagerOnce.Do(func() {
		var err error
		authManagerInstance, err = newAuthManager()
		if err != nil {
			panic(err)
		}
	})
	return authManagerInstance
}

// newAuthManager khởi tạo một instance mới của AuthManager (private constructor)
func newAuthManager() (*AuthManager, error) {
	newManager := new(AuthManager)

	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}
	newManager.UserCRUD = userService

	tokenService, err := authsvc.NewAccessTokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to create access token service: %v", err)
	}
	newManager.TokenCRUD = tokenService

	// Khởi tạo cache với thời gian sống 5 phút và thời gian dọn dẹp 10 phút
	newManager.Cache = utility.NewCache(5*time.Minute, 10*time.Minute)

	return newManager, nil
}

// resolveUserByToken xác thực chữ ký JWT, tra token đã phát hành và load user tương ứng.
// Kết quả được cache theo token để giảm truy vấn database.
func (am *AuthManager) resolveUserByToken(ctx context.Context, token string) (*models.User, error) {
	cacheKey := "auth_token:" + token
	if cached, found := am.Cache.Get(cacheKey); found {
		user := cached.(models.User)
		return &user, nil
	}

	// Xác thực chữ ký JWT trước khi chạm vào database
	if _, err := utility.ParseToken(global.MongoDB_ServerConfig.JwtSecret, token); err != nil {
		return nil, common.ErrTokenInvalid
	}

	// Token phải còn trong danh sách đã phát hành (chưa bị logout/thu hồi)
	accessToken, err := am.TokenCRUD.FindByJwt(ctx, token)
	if err != nil {
		return nil, common.ErrTokenInvalid
	}

	user, err := am.UserCRUD.FindOneById(ctx, accessToken.UserID)
	if err != nil {
		return nil, common.ErrTokenInvalid
	}

	am.Cache.Set(cacheKey, user)
	return &user, nil
}

// AuthMiddleware middleware xác thực cho Fiber
func AuthMiddleware() fiber.Handler {
	// Sử dụng singleton instance của AuthManager
	authManager := GetAuthManager()

	return func(c fiber.Ctx) error {
		// Lấy token từ header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			// Chỉ log khi thiếu token (lỗi quan trọng)
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Missing Authorization header")
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		// Kiểm tra định dạng token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		token := parts[1]

		user, err := authManager.resolveUserByToken(context.Background(), token)
		if err != nil {
			// Chỉ log khi không tìm thấy token (lỗi quan trọng)
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] Token not found or invalid")
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// Kiểm tra user có bị block không
		if user.IsBlock {
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuthCredentials,
				"Tài khoản đã bị khóa: "+user.BlockNote,
				common.StatusForbidden,
				nil,
			))
			return nil
		}

		// Lưu thông tin user vào context
		c.Locals("user_id", user.ID.Hex())
		c.Locals("user", *user)

		return c.Next()
	}
}
