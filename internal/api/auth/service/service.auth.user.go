// Package authsvc - service người dùng (User).
package authsvc

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	authdto "contact_importer/internal/api/auth/dto"
	models "contact_importer/internal/api/auth/models"
	basesvc "contact_importer/internal/api/base/service"
	"contact_importer/internal/common"
	"contact_importer/internal/global"
	"contact_importer/internal/utility"

	"github.com/sirupsen/logrus"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService là cấu trúc chứa các phương thức liên quan đến người dùng
type UserService struct {
	*basesvc.BaseServiceMongoImpl[models.User]
	tokenService *basesvc.BaseServiceMongoImpl[models.AccessToken]
}

// NewUserService tạo mới UserService
func NewUserService() (*UserService, error) {
	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %v", common.ErrNotFound)
	}
	tokenCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.AccessTokens)
	if !exist {
		return nil, fmt.Errorf("failed to get access_tokens collection: %v", common.ErrNotFound)
	}

	return &UserService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.User](userCollection),
		tokenService:         basesvc.NewBaseServiceMongo[models.AccessToken](tokenCollection),
	}, nil
}

// NormalizeEmailKey chuẩn hóa email thành khóa tra cứu không phân biệt hoa thường.
func NormalizeEmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register đăng ký người dùng mới với mật khẩu đã băm bcrypt.
func (s *UserService) Register(ctx context.Context, input *authdto.UserRegisterInput) (*models.User, error) {
	if err := utility.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := utility.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := utility.HashPassword(input.Password)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "Không thể băm mật khẩu", common.StatusInternalServerError, err)
	}

	user := models.User{
		Name:     input.Name,
		Email:    strings.TrimSpace(input.Email),
		EmailKey: NormalizeEmailKey(input.Email),
		Password: hash,
	}

	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrMongoDuplicate) {
			return nil, common.NewError(common.ErrCodeAuthCredentials, "Email đã được đăng ký", common.StatusConflict, nil)
		}
		return nil, err
	}

	created.Password = ""
	logrus.WithFields(logrus.Fields{"user_id": created.ID.Hex(), "email": created.Email}).Info("Register: Đăng ký người dùng thành công")
	return &created, nil
}

// Login xác thực email/mật khẩu và phát hành JWT token theo thiết bị (hwid).
// Đăng nhập lại trên cùng thiết bị sẽ thay token cũ của thiết bị đó.
func (s *UserService) Login(ctx context.Context, input *authdto.UserLoginInput) (*models.User, error) {
	user, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"emailKey": NormalizeEmailKey(input.Email)}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utility.ComparePassword(user.Password, input.Password) {
		logrus.WithFields(logrus.Fields{"email": input.Email}).Warn("Login: Sai mật khẩu")
		return nil, common.ErrInvalidCredentials
	}

	if user.IsBlock {
		return nil, common.NewError(common.ErrCodeAuthCredentials, "Tài khoản đã bị khóa: "+user.BlockNote, common.StatusForbidden, nil)
	}

	rdNumber := rand.Intn(100)
	currentTime := time.Now().Unix()
	tokenMap, err := utility.CreateToken(global.MongoDB_ServerConfig.JwtSecret, user.ID.Hex(), strconv.FormatInt(currentTime, 16), strconv.Itoa(rdNumber))
	if err != nil {
		return nil, err
	}

	// Một thiết bị (hwid) chỉ giữ một token, đăng nhập lại sẽ thay token cũ
	tokenUpdate := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"userId":   user.ID,
			"hwid":     input.Hwid,
			"jwtToken": tokenMap["token"],
		},
	}
	_, err = s.tokenService.Upsert(ctx, bson.M{"userId": user.ID, "hwid": input.Hwid}, tokenUpdate)
	if err != nil {
		logrus.WithFields(logrus.Fields{"user_id": user.ID.Hex(), "error": err.Error()}).Error("Login: Lỗi khi lưu access token")
		return nil, err
	}

	user.Password = ""
	user.Token = tokenMap["token"]
	logrus.WithFields(logrus.Fields{"user_id": user.ID.Hex(), "email": user.Email}).Info("Login: Đăng nhập thành công")
	return &user, nil
}

// Logout đăng xuất người dùng (xóa token theo hwid)
func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID, input *authdto.UserLogoutInput) error {
	err := s.tokenService.DeleteOne(ctx, bson.M{"userId": userID, "hwid": input.Hwid})
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	return nil
}

// FindActiveByEmail tra cứu người dùng đang hoạt động theo email (không phân biệt hoa thường).
// Dùng làm directory tra cứu agent khi import contact. Trả về ErrNotFound nếu không có
// hoặc tài khoản bị khóa.
func (s *UserService) FindActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	key := NormalizeEmailKey(email)
	if key == "" {
		return nil, common.ErrNotFound
	}
	user, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"emailKey": key}, nil)
	if err != nil {
		return nil, err
	}
	if user.IsBlock {
		return nil, common.ErrNotFound
	}
	return &user, nil
}

// BlockUser khóa người dùng theo email và thu hồi toàn bộ token đã phát hành.
func (s *UserService) BlockUser(ctx context.Context, input *authdto.BlockUserInput) (*models.User, error) {
	user, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"emailKey": NormalizeEmailKey(input.Email)}, nil)
	if err != nil {
		return nil, common.ErrUserNotFound
	}

	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"isBlock":   true,
			"blockNote": input.Note,
		},
	}
	updated, err := s.BaseServiceMongoImpl.UpdateById(ctx, user.ID, update)
	if err != nil {
		return nil, err
	}

	// Thu hồi toàn bộ token của user
	if _, err := s.tokenService.DeleteMany(ctx, bson.M{"userId": user.ID}); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": user.ID.Hex(), "error": err.Error()}).Warn("BlockUser: Lỗi khi thu hồi token")
	}

	updated.Password = ""
	return &updated, nil
}

// UnBlockUser mở khóa người dùng theo email.
func (s *UserService) UnBlockUser(ctx context.Context, input *authdto.UnBlockUserInput) (*models.User, error) {
	user, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"emailKey": NormalizeEmailKey(input.Email)}, nil)
	if err != nil {
		return nil, common.ErrUserNotFound
	}

	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"isBlock":   false,
			"blockNote": "",
		},
	}
	updated, err := s.BaseServiceMongoImpl.UpdateById(ctx, user.ID, update)
	if err != nil {
		return nil, err
	}
	updated.Password = ""
	return &updated, nil
}
