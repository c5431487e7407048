package utils_test

import (
	"strings"
	"testing"

	"bitbucket.org/balancepmi/balance_backend/utils"
)

func TestNewID(t *testing.T) {
	id := utils.NewID("mat")
	if !strings.HasPrefix(id, "mat_") {
		t.Errorf("id %q missing prefix", id)
	}
	if len(id) != len("mat_")+12 {
		t.Errorf("id %q has wrong length %d", id, len(id))
	}
	if id == utils.NewID("mat") {
		t.Error("two generated ids collided")
	}
}

func TestNewSessionToken(t *testing.T) {
	token := utils.NewSessionToken()
	if !strings.HasPrefix(token, "sess_") {
		t.Errorf("token %q missing prefix", token)
	}
	if len(token) != len("sess_")+32 {
		t.Errorf("token %q has wrong length %d", token, len(token))
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"mario@example.com", "a.b+c@sub.domain.it"}
	for _, e := range valid {
		if !utils.IsValidEmail(e) {
			t.Errorf("IsValidEmail(%q) = false, want true", e)
		}
	}
	invalid := []string{"", "mario", "mario@", "@example.com", "mario@example"}
	for _, e := range invalid {
		if utils.IsValidEmail(e) {
			t.Errorf("IsValidEmail(%q) = true, want false", e)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if !utils.IsValidDate("2025-03-10") {
		t.Error("IsValidDate rejected a valid date")
	}
	for _, s := range []string{"", "2025-3-10", "10-03-2025", "2025-13-01", "2025-02-30", "oggi"} {
		if utils.IsValidDate(s) {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidMonth(t *testing.T) {
	if !utils.IsValidMonth("2025-03") {
		t.Error("IsValidMonth rejected a valid month")
	}
	for _, s := range []string{"", "2025-3", "2025-13", "2025-03-10"} {
		if utils.IsValidMonth(s) {
			t.Errorf("IsValidMonth(%q) = true, want false", s)
		}
	}
}
