// Package importsvc - Reconciler: biến mapping đã xác nhận + raw rows thành ImportPlan.
// Thuần logic, mọi phụ thuộc ngoài (catalog, directory, contact đã có) được inject
// dưới dạng function — service wiring nằm ở service.imports.go.
package importsvc

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	contactmodels "contact_importer/internal/api/contacts/models"
	importdto "contact_importer/internal/api/imports/dto"
	"contact_importer/internal/fieldmapping"
)

// AgentUnassigned là sentinel khi email agent trong file không có trong directory.
// Không bao giờ là lỗi — giá trị này đi tiếp xuống contact và hiển thị cho người dùng.
const AgentUnassigned = "unassigned"

// Lý do skip và thông điệp lỗi per-row.
const (
	SkipReasonEmptyRow  = "empty row"
	SkipReasonIdentical = "identical to existing"

	ErrMsgMissingRequired = "missing required data"
	ErrMsgInvalidEmail    = "invalid email format"
)

// Reconciler chạy Step A (chuẩn hóa row), B (validate), C (phân loại), D (merge).
type Reconciler struct {
	// FieldTypes: fieldId -> dataType của catalog. Mapping trỏ tới field không có
	// trong map được coerce như text.
	FieldTypes map[string]string

	// ResolveAgent tra email agent trong directory (case-insensitive).
	// Trả về (định danh, true) nếu tìm thấy; miss là (_, false, nil).
	// Error non-nil nghĩa là directory không khả dụng — lỗi hệ thống, không phải miss.
	ResolveAgent func(email string) (string, bool, error)

	// FindMatch tìm contact đã có theo email (case-insensitive) hoặc phone
	// (so chữ số). Email thắng phone. Không có match là (nil, nil);
	// error non-nil nghĩa là collection không truy vấn được.
	FindMatch func(email, phone string) (*contactmodels.Contact, error)
}

// BuildPlan chạy toàn bộ Step A–C trên batch và trả về plan phân loại.
// Mỗi row hợp lệ nằm trong đúng một bucket; row lỗi Step B nằm trong Errors;
// row không có trường nào populated bị loại hẳn (không tính là lỗi).
// Directory/contact lookup thất bại thì abort cả batch: plan dựng trên lookup
// hỏng sẽ biến agent đã gán thành unassigned và merge thành create.
func (r *Reconciler) BuildPlan(headers []string, rows [][]string, mappings []importdto.ConfirmedFieldMapping) (*importdto.ImportPlan, error) {
	plan := &importdto.ImportPlan{
		WillCreate: []importdto.PlanCreate{},
		WillMerge:  []importdto.PlanMerge{},
		WillSkip:   []importdto.PlanSkip{},
		Errors:     []importdto.RowError{},
	}

	for rowIndex, row := range rows {
		candidate, err := r.NormalizeRow(headers, row, mappings)
		if err != nil {
			return nil, err
		}
		if len(candidate) == 0 {
			continue
		}

		if msg, ok := r.Validate(candidate); !ok {
			plan.Errors = append(plan.Errors, importdto.RowError{RowIndex: rowIndex, Message: msg})
			continue
		}

		if candidateAllBlank(candidate) {
			plan.WillSkip = append(plan.WillSkip, importdto.PlanSkip{
				RowIndex: rowIndex, Candidate: candidate, Reason: SkipReasonEmptyRow,
			})
			continue
		}

		existing, err := r.FindMatch(candidate[fieldmapping.FieldIDEmail], candidate[fieldmapping.FieldIDPhone])
		if err != nil {
			return nil, err
		}
		if existing == nil {
			plan.WillCreate = append(plan.WillCreate, importdto.PlanCreate{
				RowIndex: rowIndex, Candidate: candidate,
			})
			continue
		}

		changed := ChangedFields(candidate, existing)
		if len(changed) == 0 {
			plan.WillSkip = append(plan.WillSkip, importdto.PlanSkip{
				RowIndex: rowIndex, Candidate: candidate, Reason: SkipReasonIdentical,
			})
			continue
		}

		plan.WillMerge = append(plan.WillMerge, importdto.PlanMerge{
			RowIndex: rowIndex, Candidate: candidate, Existing: existing, ChangedFields: changed,
		})
	}

	return plan, nil
}

// NormalizeRow là Step A: dựng candidate từ một raw row theo mapping đã xác nhận.
// Trường có ô rỗng hoặc coerce thất bại bị bỏ khỏi candidate, không bao giờ ghi chuỗi rỗng.
// Error chỉ đến từ directory không khả dụng khi resolve agent.
func (r *Reconciler) NormalizeRow(headers []string, row []string, mappings []importdto.ConfirmedFieldMapping) (importdto.NormalizedCandidate, error) {
	candidate := importdto.NormalizedCandidate{}
	for _, m := range mappings {
		col := columnIndex(headers, m.SourceHeader)
		if col < 0 || col >= len(row) {
			continue
		}
		raw := strings.TrimSpace(row[col])
		if raw == "" {
			continue
		}

		value, ok := CoerceValue(r.FieldTypes[m.TargetFieldID], raw)
		if !ok {
			continue
		}

		if m.TargetFieldID == fieldmapping.FieldIDAgentUID {
			resolved, found, err := r.ResolveAgent(value)
			if err != nil {
				return nil, err
			}
			if found {
				value = resolved
			} else {
				value = AgentUnassigned
			}
		}

		candidate[m.TargetFieldID] = value
	}
	return candidate, nil
}

// Validate là Step B. Trả về (message, false) khi candidate không hợp lệ.
func (r *Reconciler) Validate(candidate importdto.NormalizedCandidate) (string, bool) {
	hasIdentity := candidate[fieldmapping.FieldIDFirstName] != "" ||
		candidate[fieldmapping.FieldIDLastName] != "" ||
		candidate[fieldmapping.FieldIDEmail] != "" ||
		candidate[fieldmapping.FieldIDPhone] != ""
	if !hasIdentity {
		return ErrMsgMissingRequired, false
	}
	if email := candidate[fieldmapping.FieldIDEmail]; email != "" && !fieldmapping.IsValidEmail(email) {
		return ErrMsgInvalidEmail, false
	}
	return "", true
}

// ChangedFields trả về các fieldId mà Step D sẽ ghi đè: giá trị candidate
// non-empty sau trim và khác giá trị hiện có sau trim. Kết quả sort theo fieldId
// để plan deterministic.
func ChangedFields(candidate importdto.NormalizedCandidate, existing *contactmodels.Contact) []string {
	var changed []string
	for fieldID, value := range candidate {
		v := strings.TrimSpace(value)
		if v == "" {
			continue
		}
		if v != strings.TrimSpace(existing.FieldValue(fieldID)) {
			changed = append(changed, fieldID)
		}
	}
	sort.Strings(changed)
	return changed
}

// ApplyMerge là Step D: ghi các trường changed của candidate lên contact đã có.
// Không bao giờ destructive — chỉ các field trong changed (đã qua ChangedFields) bị ghi đè.
func ApplyMerge(existing *contactmodels.Contact, candidate importdto.NormalizedCandidate, changed []string) {
	for _, fieldID := range changed {
		existing.SetFieldValue(fieldID, strings.TrimSpace(candidate[fieldID]))
	}
}

// CandidateToContact dựng Contact mới từ candidate (bucket willCreate).
func CandidateToContact(candidate importdto.NormalizedCandidate) *contactmodels.Contact {
	contact := &contactmodels.Contact{}
	fieldIDs := make([]string, 0, len(candidate))
	for fieldID := range candidate {
		fieldIDs = append(fieldIDs, fieldID)
	}
	sort.Strings(fieldIDs)
	for _, fieldID := range fieldIDs {
		contact.SetFieldValue(fieldID, candidate[fieldID])
	}
	return contact
}

// CoerceValue chuẩn hóa một giá trị ô theo dataType. Trả về false khi giá trị
// không parse được theo kiểu khai báo (number/checkbox/datetime).
func CoerceValue(dataType, raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	switch dataType {
	case fieldmapping.DataTypeEmail:
		// Không reject format ở bước này — Step B mới kiểm tra
		return strings.ToLower(trimmed), true
	case fieldmapping.DataTypePhone:
		return normalizePhone(trimmed), true
	case fieldmapping.DataTypeNumber:
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return "", false
		}
		return strconv.FormatFloat(f, 'f', -1, 64), true
	case fieldmapping.DataTypeCheckbox:
		return fieldmapping.ParseCheckbox(trimmed)
	case fieldmapping.DataTypeDatetime:
		t, ok := fieldmapping.ParseDateTime(trimmed)
		if !ok {
			return "", false
		}
		return t.UTC().Format(time.RFC3339), true
	default:
		return trimmed, true
	}
}

// normalizePhone giữ lại chữ số và các ký tự định dạng phone thông dụng.
func normalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' || r == '-' || r == '(' || r == ')' || r == ' ' || r == '.':
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// columnIndex tìm vị trí của sourceHeader trong headers, -1 nếu không có.
func columnIndex(headers []string, sourceHeader string) int {
	for i, h := range headers {
		if h == sourceHeader {
			return i
		}
	}
	return -1
}

// candidateAllBlank kiểm tra mọi giá trị của candidate đều blank sau trim.
// Theo thiết kế NormalizeRow không tạo giá trị rỗng, nhánh này chỉ chặn dữ liệu bất thường.
func candidateAllBlank(candidate importdto.NormalizedCandidate) bool {
	for _, v := range candidate {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// MappingConfigErrors kiểm tra cấu hình mapping trước khi reconcile:
// trùng targetFieldId giữa các mapping hoặc trỏ tới field không có trong catalog.
// Trả về danh sách lỗi — rỗng nghĩa là cấu hình hợp lệ.
func MappingConfigErrors(mappings []importdto.ConfirmedFieldMapping, fieldTypes map[string]string) []string {
	var errs []string
	seen := make(map[string]string, len(mappings))
	for _, m := range mappings {
		if first, dup := seen[m.TargetFieldID]; dup {
			errs = append(errs, fmt.Sprintf("targetFieldId %q được map bởi cả %q và %q", m.TargetFieldID, first, m.SourceHeader))
			continue
		}
		seen[m.TargetFieldID] = m.SourceHeader
		if _, known := fieldTypes[m.TargetFieldID]; !known {
			errs = append(errs, fmt.Sprintf("targetFieldId %q không có trong catalog", m.TargetFieldID))
		}
	}
	return errs
}
