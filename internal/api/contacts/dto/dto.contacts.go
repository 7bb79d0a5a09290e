// Package dto - DTO cho domain contacts (contact + catalog trường dữ liệu).
package dto

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContactCreateInput dữ liệu tạo contact mới (nhập tay, không qua import).
type ContactCreateInput struct {
	FirstName       string            `json:"firstName,omitempty"`
	LastName        string            `json:"lastName,omitempty"`
	Email           string            `json:"email,omitempty" validate:"omitempty,email"`
	Phone           string            `json:"phone,omitempty"`
	AgentUID        string            `json:"agentUid,omitempty"`
	SourceCreatedAt string            `json:"sourceCreatedAt,omitempty"`
	Fields          map[string]string `json:"fields,omitempty"`
}

// ContactUpdateInput dữ liệu cập nhật contact. Trường rỗng nghĩa là không đổi.
type ContactUpdateInput struct {
	FirstName       string            `json:"firstName,omitempty"`
	LastName        string            `json:"lastName,omitempty"`
	Email           string            `json:"email,omitempty" validate:"omitempty,email"`
	Phone           string            `json:"phone,omitempty"`
	AgentUID        string            `json:"agentUid,omitempty"`
	SourceCreatedAt string            `json:"sourceCreatedAt,omitempty"`
	Fields          map[string]string `json:"fields,omitempty"`
}

// ContactFieldCreateInput dữ liệu tạo trường custom mới trong catalog.
// FieldId được sinh từ label, không nhận từ client.
type ContactFieldCreateInput struct {
	Label    string `json:"label" validate:"required,no_xss"`
	DataType string `json:"dataType" validate:"required,data_type"`
}

// ContactFieldResponse trả về một trường trong catalog.
type ContactFieldResponse struct {
	ID        primitive.ObjectID `json:"id"`
	FieldID   string             `json:"fieldId"`
	Label     string             `json:"label"`
	DataType  string             `json:"dataType"`
	IsCore    bool               `json:"isCore"`
	SortOrder int                `json:"sortOrder"`
	CreatedAt int64              `json:"createdAt"`
}
