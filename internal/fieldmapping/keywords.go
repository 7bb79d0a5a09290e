package fieldmapping

// fieldKeywords là bảng từ khóa đồng nghĩa theo fieldId, nguồn tri thức domain
// chính của matcher. Cấu hình tĩnh, khởi tạo một lần, chỉ đọc — không được
// mutate lúc runtime.
var fieldKeywords = map[string][]string{
	FieldIDFirstName: {"first", "fname", "given", "forename", "christian"},
	FieldIDLastName:  {"last", "lname", "surname", "family"},
	FieldIDEmail:     {"email", "mail"},
	FieldIDPhone:     {"phone", "mobile", "cell", "telephone", "tel"},
	FieldIDAgentUID:  {"agent", "assigned", "owner", "rep", "representative", "sales", "manager"},
	FieldIDCreatedAt: {"created", "date", "added", "joined", "signup"},
}

// KeywordsForField trả về danh sách keyword của một fieldId (rỗng nếu không có).
func KeywordsForField(fieldID string) []string {
	return fieldKeywords[fieldID]
}
