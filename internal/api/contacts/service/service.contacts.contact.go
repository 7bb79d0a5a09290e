// Package contactsvc - Service contact (crm_contacts).
// Tạo/cập nhật contact với match key, tìm contact trùng theo email/phone.
package contactsvc

import (
	"context"
	"errors"
	"fmt"

	basesvc "contact_importer/internal/api/base/service"
	contactmodels "contact_importer/internal/api/contacts/models"
	"contact_importer/internal/common"
	"contact_importer/internal/global"

	"go.mongodb.org/mongo-driver/bson"
)

// ContactService xử lý logic contact.
type ContactService struct {
	*basesvc.BaseServiceMongoImpl[contactmodels.Contact]
}

// NewContactService tạo ContactService mới.
func NewContactService() (*ContactService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Contacts)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Contacts, common.ErrNotFound)
	}
	return &ContactService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[contactmodels.Contact](coll),
	}, nil
}

// CreateContact tính match key rồi insert contact.
func (s *ContactService) CreateContact(ctx context.Context, contact *contactmodels.Contact) (*contactmodels.Contact, error) {
	contact.RefreshMatchKeys()
	created, err := s.InsertOne(ctx, *contact)
	if err != nil {
		if errors.Is(err, common.ErrMongoDuplicate) {
			return nil, common.NewError(common.ErrCodeDatabaseQuery, "Contact với email hoặc phone này đã tồn tại", common.StatusConflict, err)
		}
		return nil, err
	}
	return &created, nil
}

// FindByEmail tìm contact theo email (so khớp case-insensitive qua emailKey).
func (s *ContactService) FindByEmail(ctx context.Context, email string) (*contactmodels.Contact, error) {
	key := contactmodels.EmailMatchKey(email)
	if key == "" {
		return nil, common.ErrNotFound
	}
	contact, err := s.FindOne(ctx, bson.M{"emailKey": key}, nil)
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// FindByPhone tìm contact theo phone (so khớp theo chuỗi chữ số qua phoneKey).
func (s *ContactService) FindByPhone(ctx context.Context, phone string) (*contactmodels.Contact, error) {
	key := contactmodels.PhoneMatchKey(phone)
	if key == "" {
		return nil, common.ErrNotFound
	}
	contact, err := s.FindOne(ctx, bson.M{"phoneKey": key}, nil)
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// FindMatch tìm contact trùng theo email trước, không có thì theo phone.
// Email thắng phone khi cả hai cùng có.
func (s *ContactService) FindMatch(ctx context.Context, email, phone string) (*contactmodels.Contact, error) {
	if email != "" {
		contact, err := s.FindByEmail(ctx, email)
		if err == nil {
			return contact, nil
		}
		if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
	}
	if phone != "" {
		contact, err := s.FindByPhone(ctx, phone)
		if err == nil {
			return contact, nil
		}
		if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
	}
	return nil, common.ErrNotFound
}
