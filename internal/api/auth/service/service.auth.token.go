// Package authsvc - service access token.
package authsvc

import (
	"context"
	"fmt"

	models "contact_importer/internal/api/auth/models"
	basesvc "contact_importer/internal/api/base/service"
	"contact_importer/internal/common"
	"contact_importer/internal/global"

	"go.mongodb.org/mongo-driver/bson"
)

// AccessTokenService là cấu trúc chứa các phương thức liên quan đến access token
type AccessTokenService struct {
	*basesvc.BaseServiceMongoImpl[models.AccessToken]
}

// NewAccessTokenService tạo mới AccessTokenService
func NewAccessTokenService() (*AccessTokenService, error) {
	tokenCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.AccessTokens)
	if !exist {
		return nil, fmt.Errorf("failed to get access_tokens collection: %v", common.ErrNotFound)
	}
	return &AccessTokenService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.AccessToken](tokenCollection),
	}, nil
}

// FindByJwt tìm access token theo chuỗi JWT đã phát hành.
func (s *AccessTokenService) FindByJwt(ctx context.Context, jwtToken string) (*models.AccessToken, error) {
	token, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"jwtToken": jwtToken}, nil)
	if err != nil {
		return nil, err
	}
	return &token, nil
}
