package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Signup policy: 12-128 chars with upper, lower, digit and special. The
// boundary lengths are exercised exactly since off-by-one here locks members
// out of account creation.
func TestValidatePassword(t *testing.T) {
	t.Parallel()

	t.Run("accepted", func(t *testing.T) {
		t.Parallel()
		for name, password := range map[string]string{
			"typical":         "Regrowth-2024!",
			"minimum length":  "Abcdefghij1!",
			"maximum length":  "A" + strings.Repeat("b", 125) + "1!",
			"unicode letters": "ÅngstromPass12!",
		} {
			assert.NoError(t, ValidatePassword(password), name)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name     string
			password string
			wantMsg  string
		}{
			{"too short", "Short1!", "at least 12 characters"},
			{"too long", "A" + strings.Repeat("b", 126) + "1!", "128 characters"},
			{"no uppercase", "minoxidil-2024!", "uppercase"},
			{"no lowercase", "MINOXIDIL-2024!", "lowercase"},
			{"no digit", "Minoxidil-Plan!", "digit"},
			{"no special", "Minoxidil2024x", "special"},
			{"digits and punctuation only", "1234567890!@", ""},
		}
		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				err := ValidatePassword(tt.password)
				assert.Error(t, err)
				if tt.wantMsg != "" {
					assert.ErrorContains(t, err, tt.wantMsg)
				}
			})
		}
	})
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid handle", "hairline_hero", false},
		{"digits allowed", "crown-watch-22", false},
		{"too short", "hh", true},
		{"too long", strings.Repeat("h", 31), true},
		{"illegal characters", "hair@hero", true},
		{"leading hyphen", "-hero", true},
		{"trailing underscore", "hero_", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	// 254 chars total: 64 local + @ + 185 domain label + ".com"
	emailAtLimit := strings.Repeat("a", 64) + "@" + strings.Repeat("b", 185) + ".com"
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "member@follicle.dev", false},
		{"at the length limit", emailAtLimit, false},
		{"not an address", "definitely-not-an-email", true},
		{"missing domain", "member@", true},
		{"double at", "member@@follicle.dev", true},
		{"space in local part", "mem ber@follicle.dev", true},
		{"trailing dot in domain", "member@follicle.dev.", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
