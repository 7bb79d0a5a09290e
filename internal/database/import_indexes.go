// Package database - Index bổ sung cho module import (match key, lịch sử job) không thể định nghĩa qua model tags.
package database

import (
	"context"
	"strings"
	"time"

	"contact_importer/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateImportAdditionalIndexes tạo các index bổ sung cho reconciliation.
// Gọi sau CreateIndexes cho từng collection.
func CreateImportAdditionalIndexes(ctx context.Context, db *mongo.Database) error {
	// crm_contacts: emailKey sparse — match contact theo email (đã lowercase)
	crmContacts := db.Collection(global.MongoDB_ColNames.Contacts)
	if _, err := crmContacts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "emailKey", Value: 1},
		},
		Options: options.Index().SetName("crm_contact_email_key").SetSparse(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// crm_contacts: phoneKey sparse — match contact theo phone (chỉ giữ digits)
	if _, err := crmContacts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "phoneKey", Value: 1},
		},
		Options: options.Index().SetName("crm_contact_phone_key").SetSparse(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// crm_import_jobs: (status, createdAt desc) — liệt kê job theo trạng thái, mới nhất trước
	crmImportJobs := db.Collection(global.MongoDB_ColNames.ImportJobs)
	if _, err := crmImportJobs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("crm_import_job_status_created"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// auth_users: email lowercase lookup — directory tra cứu agentUid không phân biệt hoa thường
	authUsers := db.Collection(global.MongoDB_ColNames.Users)
	if _, err := authUsers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "emailKey", Value: 1},
		},
		Options: options.Index().SetName("auth_user_email_key").SetSparse(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	return nil
}

// PruneExpiredImportJobs xóa các import job cũ hơn retentionDays.
// createdAt lưu dạng UnixMilli nên không dùng được TTL index, prune khi boot.
func PruneExpiredImportJobs(ctx context.Context, db *mongo.Database, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays).UnixMilli()
	result, err := db.Collection(global.MongoDB_ColNames.ImportJobs).DeleteMany(ctx, bson.M{
		"createdAt": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "already exists") || strings.Contains(s, "duplicate")
}
