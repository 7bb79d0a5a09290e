package fieldmapping

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// datetimeLayouts là các định dạng ngày giờ được chấp nhận, thử theo thứ tự.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"02-01-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// truthyTokens và falsyTokens là tập token boolean được chấp nhận cho kiểu checkbox.
var (
	truthyTokens = map[string]bool{"true": true, "1": true, "yes": true, "y": true, "on": true}
	falsyTokens  = map[string]bool{"false": true, "0": true, "no": true, "n": true, "off": true}
)

// IsValidEmail kiểm tra chuỗi có đúng định dạng email không.
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(strings.TrimSpace(s))
}

// DigitsOnly giữ lại chỉ các chữ số trong chuỗi (dùng làm match key cho phone).
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseDateTime thử parse chuỗi theo các định dạng ngày giờ được chấp nhận.
func ParseDateTime(s string) (time.Time, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseCheckbox chuẩn hóa token boolean thành "true"/"false".
// Trả về false ở giá trị thứ hai nếu token không được nhận dạng.
func ParseCheckbox(s string) (string, bool) {
	token := strings.ToLower(strings.TrimSpace(s))
	if truthyTokens[token] {
		return "true", true
	}
	if falsyTokens[token] {
		return "false", true
	}
	return "", false
}

// patternScore chấm điểm 0–40 theo tỉ lệ sample khớp kiểu dữ liệu khai báo.
// Sample khớp một phần (chứa @ nhưng không phải email hợp lệ, phone 5–6 chữ số)
// được tính 0.5.
func patternScore(dataType string, samples []string) int {
	var total, credit float64
	for _, s := range samples {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			continue
		}
		total++
		credit += sampleCredit(dataType, trimmed)
	}
	if total == 0 {
		return 0
	}
	return int(float64(maxPatternScore)*credit/total + 0.5)
}

// sampleCredit trả về 1 nếu sample khớp hẳn kiểu dữ liệu, 0.5 nếu khớp một phần, 0 nếu không.
func sampleCredit(dataType, trimmed string) float64 {
	switch dataType {
	case DataTypeEmail:
		if emailRegex.MatchString(trimmed) {
			return 1
		}
		if strings.Contains(trimmed, "@") {
			return 0.5
		}
		return 0
	case DataTypePhone:
		digits := len(DigitsOnly(trimmed))
		if digits >= 7 && digits <= 15 {
			return 1
		}
		if digits >= 5 && digits <= 6 {
			return 0.5
		}
		return 0
	case DataTypeNumber:
		if _, err := strconv.ParseFloat(strings.TrimSpace(trimmed), 64); err == nil {
			return 1
		}
		return 0
	case DataTypeDatetime:
		if _, ok := ParseDateTime(trimmed); ok {
			return 1
		}
		return 0
	case DataTypeCheckbox:
		if _, ok := ParseCheckbox(trimmed); ok {
			return 1
		}
		return 0
	default:
		// text: mọi giá trị không rỗng đều khớp
		return 1
	}
}
