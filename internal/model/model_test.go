package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestAdminJSONOmitsPasswordHash(t *testing.T) {
	a := Admin{
		ID:           "0191d2a4-7c1e-7b4e-9a53-3f2f5b7c9d10",
		Username:     "mkrentals",
		PasswordHash: "$2a$10$secretsecretsecret",
		Role:         RoleSuperAdmin,
		IsActive:     true,
	}

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), "$2a$") || strings.Contains(string(data), "password") {
		t.Errorf("admin JSON exposes the password hash: %s", data)
	}
	if strings.Contains(string(data), "last_login_at") {
		t.Errorf("nil last_login_at should be omitted: %s", data)
	}
}

func TestAdminSummary(t *testing.T) {
	login := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	a := &Admin{
		ID:           "id-1",
		Username:     "jane",
		PasswordHash: "hash",
		FullName:     "Jane Doe",
		Role:         RoleAdmin,
		IsActive:     true,
		LastLoginAt:  &login,
	}

	s := a.Summary()
	if s.ID != a.ID || s.Username != a.Username || s.FullName != a.FullName || s.Role != a.Role {
		t.Errorf("summary fields do not match admin: %+v", s)
	}
	if s.LastLoginAt == nil || !s.LastLoginAt.Equal(login) {
		t.Errorf("LastLoginAt = %v, want %v", s.LastLoginAt, login)
	}

	data, _ := json.Marshal(LoginResponse{Success: true, Admin: s})
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	admin := decoded["admin"].(map[string]any)
	if _, ok := admin["is_active"]; ok {
		t.Error("summary should not expose is_active")
	}
	if admin["full_name"] != "Jane Doe" {
		t.Errorf("full_name = %v", admin["full_name"])
	}
}

func TestSetupCheckResponseFieldName(t *testing.T) {
	data, _ := json.Marshal(SetupCheckResponse{NeedsSetup: true})
	if string(data) != `{"needsSetup":true}` {
		t.Errorf("got %s", data)
	}
}
