// Package importsvc - Test reconciler: chuẩn hóa row, validate, phân loại, merge.
package importsvc

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	contactmodels "contact_importer/internal/api/contacts/models"
	importdto "contact_importer/internal/api/imports/dto"
	"contact_importer/internal/common"
)

// testFieldTypes là catalog rút gọn cho test.
var testFieldTypes = map[string]string{
	"firstName":  "text",
	"lastName":   "text",
	"email":      "email",
	"phone":      "phone",
	"agentUid":   "text",
	"createdAt":  "datetime",
	"score":      "number",
	"subscribed": "checkbox",
}

// newTestReconciler tạo reconciler với directory và contact set cố định.
// existing được match theo emailKey trước, phoneKey sau (giống ContactService.FindMatch).
func newTestReconciler(directory map[string]string, existing []*contactmodels.Contact) *Reconciler {
	return &Reconciler{
		FieldTypes: testFieldTypes,
		ResolveAgent: func(email string) (string, bool, error) {
			id, ok := directory[strings.ToLower(strings.TrimSpace(email))]
			return id, ok, nil
		},
		FindMatch: func(email, phone string) (*contactmodels.Contact, error) {
			if key := contactmodels.EmailMatchKey(email); key != "" {
				for _, c := range existing {
					if c.EmailKey == key {
						return c, nil
					}
				}
			}
			if key := contactmodels.PhoneMatchKey(phone); key != "" {
				for _, c := range existing {
					if c.PhoneKey == key {
						return c, nil
					}
				}
			}
			return nil, nil
		},
	}
}

func existingContact(fields map[string]string) *contactmodels.Contact {
	c := &contactmodels.Contact{}
	for k, v := range fields {
		c.SetFieldValue(k, v)
	}
	return c
}

func TestCoerceValue(t *testing.T) {
	cases := []struct {
		dataType, raw, want string
		ok                  bool
	}{
		{"email", "  An.Nguyen@Example.COM ", "an.nguyen@example.com", true},
		{"email", "không phải email", "không phải email", true}, // Step A không reject format
		{"phone", "+84 (90) 123-4567 ext9", "+84 (90) 123-4567 9", true},
		{"number", "42", "42", true},
		{"number", "3.50", "3.5", true},
		{"number", "abc", "", false},
		{"checkbox", "YES", "true", true},
		{"checkbox", "off", "false", true},
		{"checkbox", "maybe", "", false},
		{"datetime", "2026-01-15", "2026-01-15T00:00:00Z", true},
		{"datetime", "hôm qua", "", false},
		{"text", "  ghi chú  ", "ghi chú", true},
		{"", "giá trị", "giá trị", true}, // field không có trong catalog -> text
	}
	for _, c := range cases {
		got, ok := CoerceValue(c.dataType, c.raw)
		if ok != c.ok || got != c.want {
			t.Errorf("CoerceValue(%q, %q) = (%q, %v), muốn (%q, %v)", c.dataType, c.raw, got, ok, c.want, c.ok)
		}
	}
}

func TestNormalizeRow(t *testing.T) {
	r := newTestReconciler(map[string]string{"rep1@co.com": "u1"}, nil)
	headers := []string{"Email", "First", "Score", "Agent", "Ghost"}
	mappings := []importdto.ConfirmedFieldMapping{
		{SourceHeader: "Email", TargetFieldID: "email"},
		{SourceHeader: "First", TargetFieldID: "firstName"},
		{SourceHeader: "Score", TargetFieldID: "score"},
		{SourceHeader: "Agent", TargetFieldID: "agentUid"},
		{SourceHeader: "Missing Header", TargetFieldID: "lastName"}, // không có trong headers -> bỏ
	}

	got, err := r.NormalizeRow(headers, []string{"A@B.com", "  An  ", "not-a-number", "Rep1@CO.com", "x"}, mappings)
	if err != nil {
		t.Fatalf("NormalizeRow err = %v, muốn nil", err)
	}
	want := importdto.NormalizedCandidate{
		"email":     "a@b.com",
		"firstName": "An",
		"agentUid":  "u1", // resolve case-insensitive
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeRow = %v, muốn %v (score unparsable và lastName thiếu cột phải bị bỏ)", got, want)
	}
}

func TestNormalizeRow_AgentMissBecomesUnassigned(t *testing.T) {
	r := newTestReconciler(map[string]string{}, nil)
	headers := []string{"Agent", "Email"}
	mappings := []importdto.ConfirmedFieldMapping{
		{SourceHeader: "Agent", TargetFieldID: "agentUid"},
		{SourceHeader: "Email", TargetFieldID: "email"},
	}
	got, err := r.NormalizeRow(headers, []string{"ghost@nowhere.com", "a@b.com"}, mappings)
	if err != nil {
		t.Fatalf("agent miss không phải lỗi, err = %v", err)
	}
	if got["agentUid"] != AgentUnassigned {
		t.Errorf("agent không có trong directory phải thành %q, got %q", AgentUnassigned, got["agentUid"])
	}
}

func TestValidate(t *testing.T) {
	r := newTestReconciler(nil, nil)

	if msg, ok := r.Validate(importdto.NormalizedCandidate{"score": "5"}); ok || msg != ErrMsgMissingRequired {
		t.Errorf("candidate không có định danh phải lỗi %q, got (%q, %v)", ErrMsgMissingRequired, msg, ok)
	}
	if msg, ok := r.Validate(importdto.NormalizedCandidate{"email": "not-an-email"}); ok || msg != ErrMsgInvalidEmail {
		t.Errorf("email sai định dạng phải lỗi %q, got (%q, %v)", ErrMsgInvalidEmail, msg, ok)
	}
	if _, ok := r.Validate(importdto.NormalizedCandidate{"phone": "0901234567"}); !ok {
		t.Error("chỉ cần một trong firstName/lastName/email/phone là hợp lệ")
	}
}

func TestBuildPlan_Classification(t *testing.T) {
	existing := []*contactmodels.Contact{
		existingContact(map[string]string{"email": "jon@y.com", "firstName": "Jon"}),
		existingContact(map[string]string{"phone": "+84 90 123 4567", "firstName": "Bình"}),
	}
	r := newTestReconciler(nil, existing)

	headers := []string{"Email", "Phone", "First"}
	mappings := []importdto.ConfirmedFieldMapping{
		{SourceHeader: "Email", TargetFieldID: "email"},
		{SourceHeader: "Phone", TargetFieldID: "phone"},
		{SourceHeader: "First", TargetFieldID: "firstName"},
	}
	rows := [][]string{
		{"moi@x.com", "", "Chi"},            // không match -> create
		{"JON@Y.COM", "", "Jonathan"},       // match email, firstName khác -> merge
		{"jon@y.com", "", "Jon"},            // match email, không đổi -> skip identical
		{"", "+84 90 123 4567", "Bình"},     // match theo digits phone, không đổi -> skip identical
		{"", "", ""},                        // zero field -> loại hẳn, không vào bucket nào
		{"", "", " "},                       // zero field (whitespace) -> loại hẳn
		{"sai-email", "", "Dung"},           // email invalid -> errors
	}

	plan, err := r.BuildPlan(headers, rows, mappings)
	if err != nil {
		t.Fatalf("BuildPlan err = %v, muốn nil", err)
	}

	if len(plan.WillCreate) != 1 || plan.WillCreate[0].RowIndex != 0 {
		t.Errorf("willCreate = %+v, muốn duy nhất row 0", plan.WillCreate)
	}
	if len(plan.WillMerge) != 1 || plan.WillMerge[0].RowIndex != 1 {
		t.Fatalf("willMerge = %+v, muốn duy nhất row 1", plan.WillMerge)
	}
	if got := plan.WillMerge[0].ChangedFields; !reflect.DeepEqual(got, []string{"firstName"}) {
		t.Errorf("changedFields = %v, muốn [firstName]", got)
	}
	if len(plan.WillSkip) != 2 {
		t.Fatalf("willSkip = %+v, muốn 2 row identical", plan.WillSkip)
	}
	for _, s := range plan.WillSkip {
		if s.Reason != SkipReasonIdentical {
			t.Errorf("row %d reason = %q, muốn %q", s.RowIndex, s.Reason, SkipReasonIdentical)
		}
	}
	if len(plan.Errors) != 1 || plan.Errors[0].RowIndex != 6 || plan.Errors[0].Message != ErrMsgInvalidEmail {
		t.Errorf("errors = %+v, muốn duy nhất row 6 với %q", plan.Errors, ErrMsgInvalidEmail)
	}

	// Partition: 7 row = 1 create + 1 merge + 2 skip + 1 error + 2 bị loại vì rỗng
	total := len(plan.WillCreate) + len(plan.WillMerge) + len(plan.WillSkip) + len(plan.Errors)
	if total != 5 {
		t.Errorf("tổng các bucket = %d, muốn 5 (2 row rỗng bị loại hẳn)", total)
	}
}

func TestBuildPlan_EmailBeatsPhone(t *testing.T) {
	byEmail := existingContact(map[string]string{"email": "a@x.com", "firstName": "A"})
	byPhone := existingContact(map[string]string{"phone": "0901234567", "firstName": "B"})
	r := newTestReconciler(nil, []*contactmodels.Contact{byPhone, byEmail})

	headers := []string{"Email", "Phone"}
	mappings := []importdto.ConfirmedFieldMapping{
		{SourceHeader: "Email", TargetFieldID: "email"},
		{SourceHeader: "Phone", TargetFieldID: "phone"},
	}
	// Row match cả hai contact khác nhau theo hai key — email phải thắng
	plan, err := r.BuildPlan(headers, [][]string{{"a@x.com", "090 123 4567"}}, mappings)
	if err != nil {
		t.Fatalf("BuildPlan err = %v, muốn nil", err)
	}
	if len(plan.WillMerge) != 1 {
		t.Fatalf("muốn 1 merge, got %+v", plan)
	}
	if plan.WillMerge[0].Existing != byEmail {
		t.Error("match phải ưu tiên theo email, không phải phone")
	}
}

func TestBuildPlan_DirectoryFailureAborts(t *testing.T) {
	// Directory hỏng (Mongo down, timeout) khác hẳn agent miss: miss ra "unassigned",
	// còn lỗi hệ thống phải dừng cả batch — nếu đi tiếp, agent đã gán sẽ bị ghi đè.
	r := newTestReconciler(nil, nil)
	r.ResolveAgent = func(email string) (string, bool, error) {
		return "", false, common.ErrImportDirectoryUnavailable
	}

	headers := []string{"Email", "Agent"}
	mappings := []importdto.ConfirmedFieldMapping{
		{SourceHeader: "Email", TargetFieldID: "email"},
		{SourceHeader: "Agent", TargetFieldID: "agentUid"},
	}
	plan, err := r.BuildPlan(headers, [][]string{{"a@b.com", "rep@co.com"}}, mappings)
	if err == nil {
		t.Fatal("directory hỏng phải abort plan, không được hạ cấp thành agent miss")
	}
	if !errors.Is(err, common.ErrImportDirectoryUnavailable) {
		t.Errorf("err = %v, muốn ErrImportDirectoryUnavailable", err)
	}
	if plan != nil {
		t.Errorf("plan phải nil khi abort, got %+v", plan)
	}
}

func TestBuildPlan_FindMatchFailureAborts(t *testing.T) {
	// Contact collection không truy vấn được: nếu coi là "không có match" thì mọi
	// merge biến thành create trùng lặp. Phải abort với lỗi hệ thống.
	r := newTestReconciler(nil, nil)
	r.FindMatch = func(email, phone string) (*contactmodels.Contact, error) {
		return nil, common.ErrImportDirectoryUnavailable
	}

	headers := []string{"Email", "First"}
	mappings := []importdto.ConfirmedFieldMapping{
		{SourceHeader: "Email", TargetFieldID: "email"},
		{SourceHeader: "First", TargetFieldID: "firstName"},
	}
	plan, err := r.BuildPlan(headers, [][]string{{"a@b.com", "An"}}, mappings)
	if !errors.Is(err, common.ErrImportDirectoryUnavailable) {
		t.Fatalf("err = %v, muốn ErrImportDirectoryUnavailable", err)
	}
	if plan != nil {
		t.Errorf("plan phải nil khi abort, got %+v", plan)
	}
}

func TestApplyMerge_NonDestructive(t *testing.T) {
	existing := existingContact(map[string]string{
		"email":     "x@y.com",
		"firstName": "Jon",
		"lastName":  "Snow",
		"nick_name": "JS",
	})
	candidate := importdto.NormalizedCandidate{
		"email":     "x@y.com",
		"firstName": "Jonathan",
	}

	changed := ChangedFields(candidate, existing)
	if !reflect.DeepEqual(changed, []string{"firstName"}) {
		t.Fatalf("changed = %v, muốn [firstName]", changed)
	}
	ApplyMerge(existing, candidate, changed)

	if existing.FirstName != "Jonathan" {
		t.Errorf("firstName = %q, muốn Jonathan", existing.FirstName)
	}
	if existing.LastName != "Snow" || existing.Fields["nick_name"] != "JS" {
		t.Error("các trường không có trong candidate phải được giữ nguyên")
	}
}

func TestBuildPlan_Idempotent(t *testing.T) {
	headers := []string{"Email", "First", "Last"}
	mappings := []importdto.ConfirmedFieldMapping{
		{SourceHeader: "Email", TargetFieldID: "email"},
		{SourceHeader: "First", TargetFieldID: "firstName"},
		{SourceHeader: "Last", TargetFieldID: "lastName"},
	}
	rows := [][]string{
		{"a@x.com", "An", "Nguyễn"},
		{"b@x.com", "Bình", "Trần"},
	}

	// Lần 1: database trống -> tất cả create
	first, err := newTestReconciler(nil, nil).BuildPlan(headers, rows, mappings)
	if err != nil {
		t.Fatalf("BuildPlan err = %v, muốn nil", err)
	}
	if len(first.WillCreate) != 2 {
		t.Fatalf("lần import đầu phải create cả 2 row, got %+v", first)
	}

	// "Áp dụng" plan rồi import lại đúng file đó -> tất cả skip identical
	var existing []*contactmodels.Contact
	for _, item := range first.WillCreate {
		existing = append(existing, CandidateToContact(item.Candidate))
	}
	second, err := newTestReconciler(nil, existing).BuildPlan(headers, rows, mappings)
	if err != nil {
		t.Fatalf("BuildPlan err = %v, muốn nil", err)
	}
	if len(second.WillCreate) != 0 || len(second.WillMerge) != 0 || len(second.Errors) != 0 {
		t.Fatalf("import lại phải không tạo/merge gì, got %+v", second)
	}
	if len(second.WillSkip) != 2 {
		t.Fatalf("import lại phải skip cả 2 row, got %+v", second.WillSkip)
	}
	for _, s := range second.WillSkip {
		if s.Reason != SkipReasonIdentical {
			t.Errorf("reason = %q, muốn %q", s.Reason, SkipReasonIdentical)
		}
	}
}

func TestMappingConfigErrors(t *testing.T) {
	ok := MappingConfigErrors([]importdto.ConfirmedFieldMapping{
		{SourceHeader: "Email", TargetFieldID: "email"},
		{SourceHeader: "First", TargetFieldID: "firstName"},
	}, testFieldTypes)
	if len(ok) != 0 {
		t.Errorf("cấu hình hợp lệ không được có lỗi, got %v", ok)
	}

	dup := MappingConfigErrors([]importdto.ConfirmedFieldMapping{
		{SourceHeader: "Email", TargetFieldID: "email"},
		{SourceHeader: "E-mail Address", TargetFieldID: "email"},
	}, testFieldTypes)
	if len(dup) != 1 {
		t.Errorf("trùng targetFieldId phải ra đúng 1 lỗi, got %v", dup)
	}

	unknown := MappingConfigErrors([]importdto.ConfirmedFieldMapping{
		{SourceHeader: "X", TargetFieldID: "khong_co_trong_catalog"},
	}, testFieldTypes)
	if len(unknown) != 1 {
		t.Errorf("field không có trong catalog phải ra lỗi, got %v", unknown)
	}
}
