package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "test_user123", false},
		{"Minimum Length", "abc", false},
		{"Maximum Length", strings.Repeat("a", 30), false},
		{"Too Short", "tu", true},
		{"Too Long", strings.Repeat("a", 31), true},
		{"Illegal Chars", "user@123", true},
		{"Space", "user name", true},
		{"Starts Dash", "-user", true},
		{"Ends Underscore", "user_", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
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
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "test@example.com", false},
		{"Empty", "", true},
		{"Invalid Format", "not-an-email", true},
		{"Missing Domain", "user@", true},
		{"Multiple At Symbols", "user@@example.com", true},
		{"Too Long", strings.Repeat("a", 250) + "@b.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "password", false},
		{"Exactly Min Length", "abcdef", false},
		{"Too Short", "abcde", true},
		{"Exactly Max Bytes", strings.Repeat("p", 72), false},
		{"Too Many Bytes", strings.Repeat("p", 73), true},
		{"Multibyte Over Limit", strings.Repeat("é", 37), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateMessageText(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateMessageText("hello"))
	assert.NoError(t, ValidateMessageText(strings.Repeat("a", 140)))
	assert.NoError(t, ValidateMessageText(strings.Repeat("é", 140)), "limit counts characters")
	assert.Error(t, ValidateMessageText(""))
	assert.Error(t, ValidateMessageText(strings.Repeat("a", 141)))
}

func TestValidateImageURL(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateImageURL(""))
	assert.NoError(t, ValidateImageURL("/static/images/default-pic.svg"))
	assert.NoError(t, ValidateImageURL("https://example.com/me.png"))
	assert.Error(t, ValidateImageURL("javascript:alert(1)"))
	assert.Error(t, ValidateImageURL("//evil.example.com/x.png"))
	assert.Error(t, ValidateImageURL("not a url"))
}

type signupForm struct {
	Username string `validate:"required,username"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,maxbytes=72"`
	ImageURL string `validate:"omitempty,imageurl" label:"image URL"`
}

func TestStruct(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		form    signupForm
		wantErr string
	}{
		{"Valid", signupForm{"hector", "hector@example.com", "password", ""}, ""},
		{"Missing Username", signupForm{"", "hector@example.com", "password", ""}, "username is required"},
		{"Bad Username", signupForm{"_hector", "hector@example.com", "password", ""}, "username cannot start or end with underscore or hyphen"},
		{"Bad Email", signupForm{"hector", "nope", "password", ""}, "invalid email format"},
		{"Short Password", signupForm{"hector", "hector@example.com", "pw", ""}, "password must be at least 6 characters long"},
		{"Long Password", signupForm{"hector", "hector@example.com", strings.Repeat("p", 73), ""}, "password must not exceed 72 characters"},
		{"Bad Image", signupForm{"hector", "hector@example.com", "password", "ftp://x"}, "image URL must be an http(s) URL or a site path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.form)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Equal(t, tt.wantErr, err.Error())
			}
		})
	}
}
