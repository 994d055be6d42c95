package admin

import (
	"testing"

	"github.com/lib/pq"
	"github.com/playmatatu/pongtoe/internal/config"
	"github.com/playmatatu/pongtoe/internal/models"
	"golang.org/x/crypto/bcrypt"
)

func TestVerifyAdminToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if !VerifyAdminToken(string(hash), "letmein") {
		t.Error("correct token rejected")
	}
	if VerifyAdminToken(string(hash), "wrong") {
		t.Error("wrong token accepted")
	}
}

func TestIPAllowed(t *testing.T) {
	open := &models.AdminAccount{}
	if !IPAllowed(open, "10.0.0.1") {
		t.Error("empty allow list rejected an IP")
	}
	locked := &models.AdminAccount{AllowedIPs: pq.StringArray{"127.0.0.1"}}
	if !IPAllowed(locked, "127.0.0.1") || IPAllowed(locked, "10.0.0.1") {
		t.Error("allow list not enforced")
	}
	if IPAllowed(nil, "127.0.0.1") {
		t.Error("nil account allowed")
	}
}

func TestHasRole(t *testing.T) {
	ops := &models.AdminAccount{Roles: pq.StringArray{"rooms"}}
	if !HasRole(ops, "rooms") || HasRole(ops, "config") {
		t.Error("role check wrong for ops account")
	}
	root := &models.AdminAccount{Roles: pq.StringArray{"admin"}}
	if !HasRole(root, "config") {
		t.Error("admin role does not cover config")
	}
}

func TestValidateRuntimeValue(t *testing.T) {
	cases := []struct {
		typ, value string
		ok         bool
	}{
		{"int", "4", true},
		{"int", "0", false},
		{"int", "four", false},
		{"float", "0.5", true},
		{"bool", "true", true},
		{"bool", "yes", false},
		{"string", "anything", true},
	}
	for _, tc := range cases {
		err := ValidateRuntimeValue(tc.typ, tc.value)
		if (err == nil) != tc.ok {
			t.Errorf("ValidateRuntimeValue(%s, %q) err = %v", tc.typ, tc.value, err)
		}
	}
}

func TestApplyRuntimeValues(t *testing.T) {
	cfg := &config.Config{MaxTokens: 4, SpawnIntervalMs: 2500, RoomIdleSeconds: 300}
	n := ApplyRuntimeValues(cfg, []models.RuntimeConfig{
		{Key: "max_tokens", Value: "6"},
		{Key: "spawn_interval_ms", Value: "bad"},
		{Key: "room_idle_seconds", Value: "120"},
		{Key: "unknown_key", Value: "1"},
		{Key: "commit_delay_ms", Value: "-5"},
	})

	if n != 2 {
		t.Errorf("applied = %d, want 2", n)
	}
	if cfg.MaxTokens != 6 || cfg.RoomIdleSeconds != 120 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.SpawnIntervalMs != 2500 || cfg.CommitDelayMs != 0 {
		t.Errorf("invalid values applied: %+v", cfg)
	}
}
