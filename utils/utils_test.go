package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObfuscateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"user1@example.com", "us***@example.com"},
		{"ab@x.com", "ab***@x.com"},
		{"a@x.com", "a***@x.com"},
		{"not-an-email", "not-an-email"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ObfuscateEmail(tt.email))
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("RELAY_TEST_VAR", "value")
	assert.Equal(t, "value", GetEnv("RELAY_TEST_VAR", "fallback"))
	assert.Equal(t, "fallback", GetEnv("RELAY_TEST_VAR_UNSET", "fallback"))
}
