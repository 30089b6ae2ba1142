package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain digits", "9876543210", "9876543210"},
		{"country code and separators", "+91 98765-43210", "919876543210"},
		{"parentheses and spaces", "(987) 654 3210", "9876543210"},
		{"letters stripped", "98a76b54321c0", "9876543210"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.raw))
		})
	}
}

func TestValidPhone(t *testing.T) {
	assert.False(t, ValidPhone("987654321"))
	assert.True(t, ValidPhone("9876543210"))
	assert.True(t, ValidPhone("+91 98765 43210"))
	assert.True(t, ValidPhone("12345678901234"))
	assert.False(t, ValidPhone("123456789012345"))
	assert.False(t, ValidPhone("not a number"))
}
