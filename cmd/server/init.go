package main

import (
	"context"

	"contact_importer/config"
	authmodels "contact_importer/internal/api/auth/models"
	contactmodels "contact_importer/internal/api/contacts/models"
	importmodels "contact_importer/internal/api/imports/models"
	"contact_importer/internal/database"
	"contact_importer/internal/global"

	"github.com/sirupsen/logrus"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	global.MongoDB_ColNames.Users = "auth_users"
	global.MongoDB_ColNames.AccessTokens = "access_tokens"

	// Module contacts + import (tiền tố crm_)
	global.MongoDB_ColNames.Contacts = "crm_contacts"
	global.MongoDB_ColNames.ContactFields = "crm_contact_fields"
	global.MongoDB_ColNames.ImportJobs = "crm_import_jobs"

	logrus.Info("Initialized collection names") // Ghi log thông báo đã khởi tạo tên các collection
}

// Hàm khởi tạo validator (dùng global.InitValidator để đăng ký custom validators: no_xss, field_id, data_type)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator") // Ghi log thông báo đã khởi tạo validator
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil") // Ghi log lỗi nếu khởi tạo cấu hình thất bại
	}
	logrus.Info("Initialized server config") // Ghi log thông báo đã khởi tạo cấu hình server
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err) // Ghi log lỗi nếu kết nối database thất bại
	}
	logrus.Info("Connected to MongoDB") // Ghi log thông báo đã kết nối database thành công

	// Khởi tạo các db và collections nếu chưa có
	database.EnsureDatabaseAndCollections(global.MongoDB_Session)
	logrus.Info("Ensured database and collections") // Ghi log thông báo đã đảm bảo database và các collection

	// Khơi tạo các index cho các collection theo struct tag `index`
	dbName := global.MongoDB_ServerConfig.MongoDB_DBName
	db := global.MongoDB_Session.Database(dbName)
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Users), authmodels.User{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.AccessTokens), authmodels.AccessToken{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Contacts), contactmodels.Contact{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.ContactFields), contactmodels.ContactField{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.ImportJobs), importmodels.ImportJob{})

	// Index bổ sung cho luồng import (không biểu diễn được bằng struct tag)
	if err := database.CreateImportAdditionalIndexes(context.TODO(), db); err != nil {
		logrus.Warnf("Failed to create additional import indexes: %v", err)
	}

	// Dọn các import job quá hạn retention
	deleted, err := database.PruneExpiredImportJobs(context.TODO(), db, global.MongoDB_ServerConfig.Import_JobRetention)
	if err != nil {
		logrus.Warnf("Failed to prune expired import jobs: %v", err)
	} else if deleted > 0 {
		logrus.Infof("Pruned %d expired import jobs", deleted)
	}
}
