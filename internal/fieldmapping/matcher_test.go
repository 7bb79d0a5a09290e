// Package fieldmapping - Test thuật toán gợi ý mapping header → trường catalog.
package fieldmapping

import (
	"reflect"
	"testing"
)

// testCatalog là catalog mặc định cho test: 6 trường core + 1 trường custom.
func testCatalog() []CatalogField {
	return []CatalogField{
		{FieldID: FieldIDFirstName, Label: "First Name", DataType: DataTypeText, IsCore: true},
		{FieldID: FieldIDLastName, Label: "Last Name", DataType: DataTypeText, IsCore: true},
		{FieldID: FieldIDEmail, Label: "Email", DataType: DataTypeEmail, IsCore: true},
		{FieldID: FieldIDPhone, Label: "Phone", DataType: DataTypePhone, IsCore: true},
		{FieldID: FieldIDAgentUID, Label: "Agent", DataType: DataTypeText, IsCore: true},
		{FieldID: FieldIDCreatedAt, Label: "Created At", DataType: DataTypeDatetime, IsCore: true},
		{FieldID: "company_name", Label: "Company Name", DataType: DataTypeText, IsCore: false},
	}
}

func detectSingle(t *testing.T, header string, samples []string) DetectedFieldMapping {
	t.Helper()
	rows := make([][]string, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, []string{s})
	}
	results := NewMatcher(testCatalog()).DetectMappings([]string{header}, rows)
	if len(results) != 1 {
		t.Fatalf("DetectMappings trả về %d kết quả, muốn 1", len(results))
	}
	return results[0]
}

func TestNormalizeHeader(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"E-mail Address", "e mail address"},
		{"  First__Name  ", "first name"},
		{"PHONE#1", "phone 1"},
		{"---", ""},
		{"Ngày tạo", "ngày tạo"},
	}
	for _, c := range cases {
		if got := NormalizeHeader(c.in); got != c.want {
			t.Errorf("NormalizeHeader(%q) = %q, muốn %q", c.in, got, c.want)
		}
	}
}

func TestDetectMappings_EmailHeaderVariant(t *testing.T) {
	got := detectSingle(t, "E-mail Address", []string{"an@example.com", "binh@example.com", "chi@example.com"})
	if got.TargetFieldID != FieldIDEmail {
		t.Fatalf("E-mail Address map sang %q, muốn %q", got.TargetFieldID, FieldIDEmail)
	}
	if got.Confidence < 90 {
		t.Errorf("confidence = %d, muốn >= 90", got.Confidence)
	}
	if got.Classification != ClassificationCore {
		t.Errorf("classification = %q, muốn core", got.Classification)
	}
}

func TestDetectMappings_ExactLabelMatch(t *testing.T) {
	got := detectSingle(t, "First Name", []string{"An", "Bình"})
	if got.TargetFieldID != FieldIDFirstName {
		t.Fatalf("First Name map sang %q, muốn firstName", got.TargetFieldID)
	}
	if got.Confidence != 100 {
		t.Errorf("confidence = %d, muốn 100 (exact match + sample text khớp hết)", got.Confidence)
	}
}

func TestDetectMappings_AgentSynonym(t *testing.T) {
	got := detectSingle(t, "Assigned Rep", []string{"an.nguyen@example.com"})
	if got.TargetFieldID != FieldIDAgentUID {
		t.Fatalf("Assigned Rep map sang %q, muốn agentUid", got.TargetFieldID)
	}
	if got.Confidence <= acceptThreshold {
		t.Errorf("confidence = %d, phải vượt ngưỡng %d", got.Confidence, acceptThreshold)
	}
}

func TestDetectMappings_UnmappedHeader(t *testing.T) {
	got := detectSingle(t, "zzqx", nil)
	if got.TargetFieldID != "" || got.Confidence != 0 || got.Classification != "" {
		t.Errorf("header rác phải unmapped, got %+v", got)
	}
	if got.SourceHeader != "zzqx" {
		t.Errorf("sourceHeader phải được giữ nguyên, got %q", got.SourceHeader)
	}
}

func TestDetectMappings_EmptyHeader(t *testing.T) {
	got := detectSingle(t, "   ", []string{"x"})
	if got.TargetFieldID != "" || got.Confidence != 0 {
		t.Errorf("header rỗng phải unmapped, got %+v", got)
	}
}

func TestDetectMappings_CustomFieldClassification(t *testing.T) {
	got := detectSingle(t, "Company Name", []string{"Acme", "Globex"})
	if got.TargetFieldID != "company_name" {
		t.Fatalf("Company Name map sang %q, muốn company_name", got.TargetFieldID)
	}
	if got.Classification != ClassificationCustom {
		t.Errorf("classification = %q, muốn custom", got.Classification)
	}
}

func TestDetectMappings_SampleValuesLimit(t *testing.T) {
	rows := [][]string{
		{"a@x.com"}, {""}, {"b@x.com"}, {"c@x.com"}, {"d@x.com"},
		{"e@x.com"}, // dòng thứ 6, ngoài giới hạn 5 dòng đầu
	}
	results := NewMatcher(testCatalog()).DetectMappings([]string{"Email"}, rows)
	want := []string{"a@x.com", "b@x.com", "c@x.com"}
	if !reflect.DeepEqual(results[0].SampleValues, want) {
		t.Errorf("sampleValues = %v, muốn %v (tối đa 3, bỏ ô rỗng, chỉ 5 dòng đầu)", results[0].SampleValues, want)
	}
}

func TestDetectMappings_PatternScoresAllSampleRows(t *testing.T) {
	// Pattern phải chấm trên toàn bộ 5 dòng đầu, không chỉ 3 giá trị hiển thị.
	// Header rác -> không có fuzzy candidate, điểm chỉ còn data-pattern.
	catalog := []CatalogField{
		{FieldID: FieldIDEmail, Label: "Email", DataType: DataTypeEmail, IsCore: true},
	}
	headers := []string{"zzqx"}

	// 5/5 dòng là email: pattern đầy đủ (40) vượt ngưỡng
	allGood := [][]string{{"a@x.com"}, {"b@x.com"}, {"c@x.com"}, {"d@x.com"}, {"e@x.com"}}
	got := NewMatcher(catalog).DetectMappings(headers, allGood)[0]
	if got.TargetFieldID != FieldIDEmail {
		t.Fatalf("5/5 sample là email phải map sang email, got %+v", got)
	}

	// Dòng 4-5 không phải email: pattern 3/5 (24) phải kéo xuống dưới ngưỡng,
	// dù 3 giá trị đầu (phần hiển thị) vẫn toàn email
	mixed := [][]string{{"a@x.com"}, {"b@x.com"}, {"c@x.com"}, {"ghi chú"}, {"n/a"}}
	got = NewMatcher(catalog).DetectMappings(headers, mixed)[0]
	if got.TargetFieldID != "" || got.Confidence != 0 {
		t.Errorf("dòng 4-5 lệch pattern phải làm header rác unmapped, got %+v", got)
	}
	if want := []string{"a@x.com", "b@x.com", "c@x.com"}; !reflect.DeepEqual(got.SampleValues, want) {
		t.Errorf("sampleValues hiển thị vẫn cắt còn 3 giá trị đầu: got %v, muốn %v", got.SampleValues, want)
	}
}

func TestDetectMappings_MissingColumnInRow(t *testing.T) {
	// Dòng sample ngắn hơn số header không được gây panic
	rows := [][]string{{"an@example.com"}, {}}
	results := NewMatcher(testCatalog()).DetectMappings([]string{"Email", "Phone"}, rows)
	if len(results) != 2 {
		t.Fatalf("muốn 2 kết quả, got %d", len(results))
	}
	if len(results[1].SampleValues) != 0 {
		t.Errorf("cột thiếu dữ liệu phải có sampleValues rỗng, got %v", results[1].SampleValues)
	}
}

func TestDetectMappings_Deterministic(t *testing.T) {
	headers := []string{"E-mail Address", "Phone Number", "Agent", "Notes"}
	rows := [][]string{
		{"a@x.com", "0901234567", "rep@x.com", "ghi chú"},
		{"b@x.com", "0907654321", "rep2@x.com", ""},
	}
	m := NewMatcher(testCatalog())
	first := m.DetectMappings(headers, rows)
	for i := 0; i < 10; i++ {
		again := m.DetectMappings(headers, rows)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("kết quả lần %d khác lần đầu:\n%+v\n%+v", i+2, again, first)
		}
	}
}

func TestPatternScore(t *testing.T) {
	cases := []struct {
		name     string
		dataType string
		samples  []string
		want     int
	}{
		{"email đủ", DataTypeEmail, []string{"a@x.com", "b@y.org"}, 40},
		{"email một phần", DataTypeEmail, []string{"a@x", "b@y.org"}, 30}, // (0.5+1)/2 * 40
		{"phone đủ số", DataTypePhone, []string{"0901234567", "+84 90 123 4567"}, 40},
		{"phone ngắn", DataTypePhone, []string{"12345"}, 20},
		{"number", DataTypeNumber, []string{"3.14", "abc"}, 20},
		{"datetime", DataTypeDatetime, []string{"2026-01-15", "not a date"}, 20},
		{"checkbox", DataTypeCheckbox, []string{"yes", "OFF", "maybe"}, 27},
		{"text luôn khớp", DataTypeText, []string{"bất kỳ"}, 40},
		{"không có sample", DataTypeEmail, nil, 0},
	}
	for _, c := range cases {
		if got := patternScore(c.dataType, c.samples); got != c.want {
			t.Errorf("%s: patternScore = %d, muốn %d", c.name, got, c.want)
		}
	}
}

func TestParseCheckbox(t *testing.T) {
	truthy := []string{"true", "1", "Yes", " y ", "ON"}
	for _, s := range truthy {
		if v, ok := ParseCheckbox(s); !ok || v != "true" {
			t.Errorf("ParseCheckbox(%q) = (%q, %v), muốn (true, true)", s, v, ok)
		}
	}
	falsy := []string{"false", "0", "No", "n", "off"}
	for _, s := range falsy {
		if v, ok := ParseCheckbox(s); !ok || v != "false" {
			t.Errorf("ParseCheckbox(%q) = (%q, %v), muốn (false, true)", s, v, ok)
		}
	}
	if _, ok := ParseCheckbox("maybe"); ok {
		t.Error("ParseCheckbox(\"maybe\") phải fail")
	}
}

func TestParseDateTime(t *testing.T) {
	valid := []string{"2026-01-15T10:00:00Z", "2026-01-15 10:00:00", "2026-01-15", "01/15/2026", "Jan 2, 2026"}
	for _, s := range valid {
		if _, ok := ParseDateTime(s); !ok {
			t.Errorf("ParseDateTime(%q) phải parse được", s)
		}
	}
	invalid := []string{"", "ngày mai", "15 tháng 1"}
	for _, s := range invalid {
		if _, ok := ParseDateTime(s); ok {
			t.Errorf("ParseDateTime(%q) phải fail", s)
		}
	}
}

func TestDigitsOnly(t *testing.T) {
	if got := DigitsOnly("+84 (90) 123-4567"); got != "84901234567" {
		t.Errorf("DigitsOnly = %q, muốn 84901234567", got)
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@example.com", "a.b+c@sub.example.org", " padded@example.com "}
	for _, s := range valid {
		if !IsValidEmail(s) {
			t.Errorf("IsValidEmail(%q) phải true", s)
		}
	}
	invalid := []string{"", "a@b", "no-at-sign", "a @example.com"}
	for _, s := range invalid {
		if IsValidEmail(s) {
			t.Errorf("IsValidEmail(%q) phải false", s)
		}
	}
}
