// Package contactsvc - Service catalog trường dữ liệu contact (crm_contact_fields).
// Seed 6 trường core, tạo trường custom với fieldId sinh từ label.
package contactsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	basesvc "contact_importer/internal/api/base/service"
	contactmodels "contact_importer/internal/api/contacts/models"
	"contact_importer/internal/common"
	"contact_importer/internal/fieldmapping"
	"contact_importer/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// coreFieldSeeds là 6 trường core của catalog, theo thứ tự cố định.
var coreFieldSeeds = []contactmodels.ContactField{
	{FieldID: fieldmapping.FieldIDFirstName, Label: "First Name", DataType: fieldmapping.DataTypeText, IsCore: true, SortOrder: 0},
	{FieldID: fieldmapping.FieldIDLastName, Label: "Last Name", DataType: fieldmapping.DataTypeText, IsCore: true, SortOrder: 1},
	{FieldID: fieldmapping.FieldIDEmail, Label: "Email", DataType: fieldmapping.DataTypeEmail, IsCore: true, SortOrder: 2},
	{FieldID: fieldmapping.FieldIDPhone, Label: "Phone", DataType: fieldmapping.DataTypePhone, IsCore: true, SortOrder: 3},
	{FieldID: fieldmapping.FieldIDAgentUID, Label: "Agent", DataType: fieldmapping.DataTypeText, IsCore: true, SortOrder: 4},
	{FieldID: fieldmapping.FieldIDCreatedAt, Label: "Created At", DataType: fieldmapping.DataTypeDatetime, IsCore: true, SortOrder: 5},
}

// customSortOrderBase là SortOrder bắt đầu của trường custom, chừa chỗ cho core.
const customSortOrderBase = 100

// ContactFieldService xử lý logic catalog trường dữ liệu.
type ContactFieldService struct {
	*basesvc.BaseServiceMongoImpl[contactmodels.ContactField]
}

// NewContactFieldService tạo ContactFieldService mới.
func NewContactFieldService() (*ContactFieldService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ContactFields)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.ContactFields, common.ErrNotFound)
	}
	return &ContactFieldService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[contactmodels.ContactField](coll),
	}, nil
}

// SeedCoreFields đảm bảo 6 trường core có trong catalog. Idempotent — chạy lại không tạo trùng.
func (s *ContactFieldService) SeedCoreFields(ctx context.Context) error {
	ctx = basesvc.WithCoreDataInsertAllowed(ctx)
	for _, seed := range coreFieldSeeds {
		if _, err := s.Upsert(ctx, bson.M{"fieldId": seed.FieldID}, seed); err != nil {
			return fmt.Errorf("seed trường core %s: %w", seed.FieldID, err)
		}
	}
	return nil
}

// CustomFieldIDFromLabel sinh fieldId từ label: lowercase, khoảng trắng thành underscore.
func CustomFieldIDFromLabel(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(label))), "_")
}

// CreateCustomField tạo trường custom mới. FieldId sinh từ label; trùng với
// trường đã có (core hoặc custom) thì trả lỗi duplicate.
func (s *ContactFieldService) CreateCustomField(ctx context.Context, label, dataType string) (*contactmodels.ContactField, error) {
	fieldID := CustomFieldIDFromLabel(label)
	if fieldID == "" {
		return nil, common.NewError(common.ErrCodeValidationInput, "Label không được để trống", common.StatusBadRequest, nil)
	}

	count, err := s.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	field := contactmodels.ContactField{
		FieldID:   fieldID,
		Label:     strings.TrimSpace(label),
		DataType:  dataType,
		IsCore:    false,
		SortOrder: customSortOrderBase + int(count),
	}
	created, err := s.InsertOne(ctx, field)
	if err != nil {
		// Index unique trên fieldId bắt trường hợp trùng (kể cả race giữa 2 request)
		if errors.Is(err, common.ErrMongoDuplicate) {
			return nil, common.NewError(common.ErrCodeDatabaseQuery,
				fmt.Sprintf("Trường với fieldId %q đã tồn tại", fieldID), common.StatusConflict, err)
		}
		return nil, err
	}
	return &created, nil
}

// DeleteCustomField xóa trường custom theo fieldId. Trường core bị chặn ở base service.
func (s *ContactFieldService) DeleteCustomField(ctx context.Context, fieldID string) error {
	return s.DeleteOne(ctx, bson.M{"fieldId": fieldID})
}

// ListFields trả về toàn bộ catalog theo thứ tự ổn định: core trước, rồi theo thứ tự tạo.
func (s *ContactFieldService) ListFields(ctx context.Context) ([]contactmodels.ContactField, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}})
	return s.Find(ctx, bson.M{}, opts)
}

// Catalog trả về catalog dưới dạng input thuần của matcher, giữ nguyên thứ tự ListFields.
func (s *ContactFieldService) Catalog(ctx context.Context) ([]fieldmapping.CatalogField, error) {
	fields, err := s.ListFields(ctx)
	if err != nil {
		return nil, err
	}
	catalog := make([]fieldmapping.CatalogField, 0, len(fields))
	for i := range fields {
		catalog = append(catalog, fields[i].ToCatalogField())
	}
	return catalog, nil
}
