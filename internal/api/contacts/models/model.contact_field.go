// Package models - ContactField thuộc domain contacts (crm_contact_fields).
// Catalog các trường dữ liệu contact: 6 trường core do hệ thống seed + trường custom do người dùng tạo.
package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"contact_importer/internal/fieldmapping"
)

// ContactField là một trường trong catalog (crm_contact_fields).
// Trường core (IsCore = true) không sửa, không xóa được — base service chặn ở tầng dưới.
type ContactField struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	FieldID  string `json:"fieldId" bson:"fieldId" index:"unique"`
	Label    string `json:"label" bson:"label"`
	DataType string `json:"dataType" bson:"dataType"` // text | email | phone | number | datetime | checkbox
	IsCore   bool   `json:"isCore" bson:"isCore"`

	// SortOrder giữ thứ tự catalog ổn định: core theo thứ tự seed, custom theo thứ tự tạo.
	SortOrder int `json:"sortOrder" bson:"sortOrder" index:"single:1"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// ToCatalogField chuyển sang input thuần của matcher.
func (f *ContactField) ToCatalogField() fieldmapping.CatalogField {
	return fieldmapping.CatalogField{
		FieldID:  f.FieldID,
		Label:    f.Label,
		DataType: f.DataType,
		IsCore:   f.IsCore,
	}
}

// EmailMatchKey chuẩn hóa email thành match key: trim + lowercase. Rỗng nếu email rỗng.
func EmailMatchKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PhoneMatchKey chuẩn hóa phone thành match key: chỉ giữ chữ số. Rỗng nếu không còn chữ số.
func PhoneMatchKey(phone string) string {
	return fieldmapping.DigitsOnly(phone)
}
