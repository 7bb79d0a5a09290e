// Package models - Contact thuộc domain contacts (crm_contacts).
// Lưu contact đã chuẩn hóa từ import hoặc nhập tay, là nguồn dữ liệu chính của hệ thống.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"contact_importer/internal/fieldmapping"
)

// Contact lưu một contact (crm_contacts).
// Giá trị các trường đều là chuỗi đã chuẩn hóa (email lowercase, phone đã lọc ký tự,
// datetime theo RFC3339). Trường custom nằm trong map Fields, key là fieldId của catalog.
type Contact struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	// Các trường core
	FirstName string `json:"firstName,omitempty" bson:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty" bson:"lastName,omitempty"`
	Email     string `json:"email,omitempty" bson:"email,omitempty"`
	Phone     string `json:"phone,omitempty" bson:"phone,omitempty"`
	AgentUID  string `json:"agentUid,omitempty" bson:"agentUid,omitempty" index:"single:1"`

	// SourceCreatedAt là giá trị của trường catalog createdAt — thời điểm contact
	// được tạo ở hệ thống nguồn. Không trùng với CreatedAt metadata của document.
	SourceCreatedAt string `json:"sourceCreatedAt,omitempty" bson:"sourceCreatedAt,omitempty"`

	// Match keys — dùng để tìm contact trùng khi import.
	// emailKey = email lowercase; phoneKey = phone chỉ giữ chữ số.
	EmailKey string `json:"-" bson:"emailKey,omitempty" index:"unique,sparse"`
	PhoneKey string `json:"-" bson:"phoneKey,omitempty" index:"unique,sparse"`

	// Trường custom: fieldId -> giá trị đã chuẩn hóa
	Fields map[string]string `json:"fields,omitempty" bson:"fields,omitempty"`

	// Metadata
	CreatedAt int64 `json:"createdAt" bson:"createdAt" index:"single:1"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt" index:"single:1"`
}

// FieldValue trả về giá trị của một trường theo fieldId trong catalog.
// Trường core đọc từ struct field, trường custom đọc từ map Fields.
func (c *Contact) FieldValue(fieldID string) string {
	switch fieldID {
	case fieldmapping.FieldIDFirstName:
		return c.FirstName
	case fieldmapping.FieldIDLastName:
		return c.LastName
	case fieldmapping.FieldIDEmail:
		return c.Email
	case fieldmapping.FieldIDPhone:
		return c.Phone
	case fieldmapping.FieldIDAgentUID:
		return c.AgentUID
	case fieldmapping.FieldIDCreatedAt:
		return c.SourceCreatedAt
	default:
		return c.Fields[fieldID]
	}
}

// SetFieldValue gán giá trị cho một trường theo fieldId và cập nhật match key tương ứng.
func (c *Contact) SetFieldValue(fieldID, value string) {
	switch fieldID {
	case fieldmapping.FieldIDFirstName:
		c.FirstName = value
	case fieldmapping.FieldIDLastName:
		c.LastName = value
	case fieldmapping.FieldIDEmail:
		c.Email = value
		c.EmailKey = EmailMatchKey(value)
	case fieldmapping.FieldIDPhone:
		c.Phone = value
		c.PhoneKey = PhoneMatchKey(value)
	case fieldmapping.FieldIDAgentUID:
		c.AgentUID = value
	case fieldmapping.FieldIDCreatedAt:
		c.SourceCreatedAt = value
	default:
		if c.Fields == nil {
			c.Fields = make(map[string]string)
		}
		c.Fields[fieldID] = value
	}
}

// RefreshMatchKeys tính lại emailKey/phoneKey từ email và phone hiện tại.
// Gọi sau khi gán trực tiếp Email/Phone không qua SetFieldValue.
func (c *Contact) RefreshMatchKeys() {
	c.EmailKey = EmailMatchKey(c.Email)
	c.PhoneKey = PhoneMatchKey(c.Phone)
}
