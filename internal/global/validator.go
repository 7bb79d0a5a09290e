package global

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// fieldIdPattern: chữ thường, số và gạch dưới, bắt đầu bằng chữ.
// Khớp với quy tắc sinh id từ label (lowercase, khoảng trắng -> "_").
var fieldIdPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// camelPattern cho các core field đặt tên camelCase (firstName, agentUid, ...).
var camelPattern = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)

// dataTypes là các kiểu dữ liệu hợp lệ của một trường contact.
var dataTypes = map[string]bool{
	"text":     true,
	"email":    true,
	"phone":    true,
	"number":   true,
	"datetime": true,
	"checkbox": true,
}

// InitValidator khởi tạo và đăng ký các custom validator
func InitValidator() {
	Validate = validator.New()

	_ = Validate.RegisterValidation("no_xss", validateNoXSS)
	_ = Validate.RegisterValidation("field_id", validateFieldId)
	_ = Validate.RegisterValidation("data_type", validateDataType)
}

// validateNoXSS kiểm tra XSS
func validateNoXSS(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	dangerousPatterns := []string{
		"<script",
		"javascript:",
		"onerror=",
		"onload=",
		"onclick=",
		"eval(",
		"document.cookie",
		"document.write",
		"innerHTML",
		"<iframe",
		"<object",
		"<embed",
	}

	value = strings.ToLower(value)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return false
		}
	}
	return true
}

// validateFieldId kiểm tra định dạng fieldId của catalog.
// camelCase (các core field như firstName) hoặc snake_case (custom field sinh từ label) đều hợp lệ.
func validateFieldId(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return false
	}
	if fieldIdPattern.MatchString(value) {
		return true
	}
	// Cho phép camelCase cho core fields
	return camelPattern.MatchString(value)
}

// validateDataType kiểm tra dataType thuộc tập hợp lệ
func validateDataType(fl validator.FieldLevel) bool {
	return dataTypes[fl.Field().String()]
}
