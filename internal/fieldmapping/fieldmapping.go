// Package fieldmapping chứa thuật toán gợi ý mapping giữa header của file spreadsheet
// và trường dữ liệu contact trong catalog. Thuật toán thuần (không I/O), deterministic:
// điểm số là tổng của fuzzy text similarity, độ khớp kiểu dữ liệu của sample,
// keyword bonus và word overlap, kẹp trong [0, 100].
package fieldmapping

// Các kiểu dữ liệu của trường contact.
const (
	DataTypeText     = "text"
	DataTypeEmail    = "email"
	DataTypePhone    = "phone"
	DataTypeNumber   = "number"
	DataTypeDatetime = "datetime"
	DataTypeCheckbox = "checkbox"
)

// Phân loại trường: core (hệ thống) hoặc custom (người dùng tạo).
const (
	ClassificationCore   = "core"
	ClassificationCustom = "custom"
)

// FieldID của các trường core. AgentFieldID là trường tham chiếu agent,
// được resolver xử lý đặc biệt khi import.
const (
	FieldIDFirstName = "firstName"
	FieldIDLastName  = "lastName"
	FieldIDEmail     = "email"
	FieldIDPhone     = "phone"
	FieldIDAgentUID  = "agentUid"
	FieldIDCreatedAt = "createdAt"
)

// CatalogField là một trường trong catalog, input thuần của matcher
// (layer gọi chuyển đổi từ model trong database sang struct này).
type CatalogField struct {
	FieldID  string
	Label    string
	DataType string
	IsCore   bool
}

// DetectedFieldMapping là gợi ý mapping cho một header.
// TargetFieldID rỗng + Confidence 0 nghĩa là không tìm được trường phù hợp.
type DetectedFieldMapping struct {
	SourceHeader   string   `json:"sourceHeader"`
	TargetFieldID  string   `json:"targetFieldId"`
	Confidence     int      `json:"confidence"`
	Classification string   `json:"classification"`
	SampleValues   []string `json:"sampleValues"`
}

// Giới hạn của thuật toán chấm điểm.
const (
	maxFuzzyScore     = 60 // Điểm tối đa của fuzzy text similarity
	maxPatternScore   = 40 // Điểm tối đa của data-pattern
	keywordBonusEach  = 15 // Điểm cộng cho mỗi keyword khớp
	maxKeywordBonus   = 30 // Trần của keyword bonus
	overlapLabelBonus = 10 // Điểm cộng mỗi token trùng với token của label
	overlapIDBonus    = 8  // Điểm cộng mỗi token trùng với field id
	maxOverlapBonus   = 20 // Trần của word overlap (không tính exact match)
	exactMatchBonus   = 25 // Điểm cộng khi header chuẩn hóa trùng hẳn label/id
	acceptThreshold   = 30 // Ngưỡng chấp nhận: chỉ gợi ý khi tổng điểm > 30
	maxFuzzyCandidate = 3  // Chỉ chấm chi tiết tối đa 3 trường đứng đầu fuzzy lookup
	sampleRowLimit    = 5  // Chỉ lấy sample từ 5 dòng đầu
	sampleValueLimit  = 3  // Tối đa 3 sample value trong kết quả
)
