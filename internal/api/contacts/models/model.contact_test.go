// Package models - Test FieldValue/SetFieldValue và match key của Contact.
package models

import "testing"

func TestContactSetFieldValue_CoreAndCustom(t *testing.T) {
	c := &Contact{}
	c.SetFieldValue("firstName", "An")
	c.SetFieldValue("email", "An.Nguyen@Example.com")
	c.SetFieldValue("phone", "+84 (90) 123-4567")
	c.SetFieldValue("createdAt", "2026-01-15T00:00:00Z")
	c.SetFieldValue("company_name", "Acme")

	if c.FirstName != "An" {
		t.Errorf("firstName = %q", c.FirstName)
	}
	if c.EmailKey != "an.nguyen@example.com" {
		t.Errorf("emailKey = %q, muốn lowercase", c.EmailKey)
	}
	if c.PhoneKey != "84901234567" {
		t.Errorf("phoneKey = %q, muốn chỉ chữ số", c.PhoneKey)
	}
	if c.SourceCreatedAt != "2026-01-15T00:00:00Z" {
		t.Errorf("sourceCreatedAt = %q", c.SourceCreatedAt)
	}
	if c.Fields["company_name"] != "Acme" {
		t.Errorf("trường custom phải nằm trong map Fields, got %v", c.Fields)
	}
}

func TestContactFieldValue_RoundTrip(t *testing.T) {
	c := &Contact{}
	ids := []string{"firstName", "lastName", "email", "phone", "agentUid", "createdAt", "custom_x"}
	for i, id := range ids {
		c.SetFieldValue(id, "v"+string(rune('0'+i)))
	}
	for i, id := range ids {
		want := "v" + string(rune('0'+i))
		if got := c.FieldValue(id); got != want {
			t.Errorf("FieldValue(%q) = %q, muốn %q", id, got, want)
		}
	}
	if c.FieldValue("khong_ton_tai") != "" {
		t.Error("FieldValue của trường không tồn tại phải rỗng")
	}
}

func TestRefreshMatchKeys(t *testing.T) {
	c := &Contact{Email: "  A@B.Com ", Phone: "090-123-4567"}
	c.RefreshMatchKeys()
	if c.EmailKey != "a@b.com" {
		t.Errorf("emailKey = %q", c.EmailKey)
	}
	if c.PhoneKey != "0901234567" {
		t.Errorf("phoneKey = %q", c.PhoneKey)
	}

	// Email/phone rỗng thì key rỗng (sparse index bỏ qua)
	empty := &Contact{}
	empty.RefreshMatchKeys()
	if empty.EmailKey != "" || empty.PhoneKey != "" {
		t.Errorf("key của contact rỗng phải rỗng, got %q %q", empty.EmailKey, empty.PhoneKey)
	}
}
