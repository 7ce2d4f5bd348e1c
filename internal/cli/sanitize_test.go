package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeInput_SizeLimit(t *testing.T) {
	tests := []struct {
		name      string
		inputSize int
		limit     int
		wantErr   bool
	}{
		{"Under Limit", DefaultMaxInputSize - 1, 0, false},
		{"Exact Limit", DefaultMaxInputSize, 0, false},
		{"Over Limit", DefaultMaxInputSize + 1, 0, true},
		{"Custom Limit", 11, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sanitizeInput(strings.Repeat("a", tt.inputSize), tt.limit)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInputTooLarge)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeInput_ControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "Acme Corp", "Acme Corp"},
		{"Arabic Text", "متجر أكمي", "متجر أكمي"},
		{"Tab", "a\tb", "a\tb"},
		{"ANSI Code", "\x1b[31mRed\x1b[0m", "[31mRed[0m"},
		{"Null Byte", "Null\x00Byte", "NullByte"},
		{"Carriage Return", "Windows\r", "Windows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sanitizeInput(tt.input, 0)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitizeInput_InvalidUTF8(t *testing.T) {
	_, err := sanitizeInput("bad\xff", 0)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}
