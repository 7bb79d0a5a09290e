// Package contactsvc - Test sinh fieldId từ label và seed catalog.
package contactsvc

import "testing"

func TestCustomFieldIDFromLabel(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Company Name", "company_name"},
		{"  Company   Name  ", "company_name"},
		{"Email", "email"}, // trùng core field — unique index sẽ chặn khi insert
		{"score", "score"},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := CustomFieldIDFromLabel(c.in); got != c.want {
			t.Errorf("CustomFieldIDFromLabel(%q) = %q, muốn %q", c.in, got, c.want)
		}
	}
}

func TestCoreFieldSeeds(t *testing.T) {
	if len(coreFieldSeeds) != 6 {
		t.Fatalf("phải có đúng 6 trường core, got %d", len(coreFieldSeeds))
	}
	wantOrder := []string{"firstName", "lastName", "email", "phone", "agentUid", "createdAt"}
	for i, seed := range coreFieldSeeds {
		if seed.FieldID != wantOrder[i] {
			t.Errorf("seed[%d].FieldID = %q, muốn %q", i, seed.FieldID, wantOrder[i])
		}
		if !seed.IsCore {
			t.Errorf("seed %q phải có IsCore = true", seed.FieldID)
		}
		if seed.SortOrder != i {
			t.Errorf("seed %q SortOrder = %d, muốn %d", seed.FieldID, seed.SortOrder, i)
		}
	}
}
