package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/intake/pkg/steps"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		name string
		args []string
		rest string
	}{
		{"", "", nil, ""},
		{"   ", "", nil, ""},
		{"n", "next", []string{}, ""},
		{"PREV", "back", []string{}, ""},
		{"jump 3", "jump", []string{"3"}, ""},
		{"set name  Acme   Corp ", "set", []string{"name", "Acme", "Corp"}, "Acme   Corp"},
		{"t features live_chat", "toggle", []string{"features", "live_chat"}, "live_chat"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd := parseCommand(tt.line)
			assert.Equal(t, tt.name, cmd.name)
			if tt.args != nil {
				assert.Equal(t, tt.args, cmd.args)
			}
			assert.Equal(t, tt.rest, cmd.rest)
		})
	}
}

func TestFieldValue(t *testing.T) {
	l := steps.Detailed()

	logo, err := l.Field("logoAvailable")
	require.NoError(t, err)
	v, err := fieldValue(logo, "TRUE")
	require.NoError(t, err)
	assert.Equal(t, true, v)
	_, err = fieldValue(logo, "maybe")
	assert.Error(t, err)
	assert.Equal(t, false, emptyValue(logo))

	features, err := l.Field("features")
	require.NoError(t, err)
	v, err = fieldValue(features, "search, booking,,")
	require.NoError(t, err)
	assert.Equal(t, []string{"search", "booking"}, v)
	v, err = fieldValue(features, " ")
	require.NoError(t, err)
	assert.Equal(t, []string{}, v)

	name, err := l.Field("name")
	require.NoError(t, err)
	v, err = fieldValue(name, "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", v)
	assert.Equal(t, "", emptyValue(name))
}
