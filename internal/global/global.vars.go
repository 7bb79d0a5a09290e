// Package global chứa các biến toàn cục của ứng dụng: cấu hình server, phiên MongoDB,
// tên collection và validator.
package global

import (
	"contact_importer/config"
	"contact_importer/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionName chứa tên các collection trong MongoDB
type CollectionName struct {
	Users        string // Tên collection cho người dùng (directory tra cứu agent)
	AccessTokens string // Tên collection cho token

	// Module contacts (tiền tố crm_)
	Contacts      string // Tên collection cho contact
	ContactFields string // Tên collection cho catalog trường dữ liệu contact
	ImportJobs    string // Tên collection cho lịch sử các lần import
}

// Các biến toàn cục
var Validate *validator.Validate                  // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client                 // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration    // Cấu hình của server
var MongoDB_ColNames CollectionName = *new(CollectionName) // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases
