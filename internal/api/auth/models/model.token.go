// Package models - AccessToken thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccessToken là token xác thực đã phát hành, mỗi thiết bị (hwid) một token.
// Đăng nhập lại trên cùng thiết bị sẽ thay token cũ.
type AccessToken struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId" index:"compound:user_hwid_unique"`
	Hwid      string             `json:"hwid" bson:"hwid" index:"compound:user_hwid_unique"`
	JwtToken  string             `json:"-" bson:"jwtToken" index:"unique"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
