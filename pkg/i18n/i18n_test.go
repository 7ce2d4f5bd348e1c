package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/steps"
)

var _ ports.Translator = (*Bundle)(nil)

func TestEmbedded(t *testing.T) {
	b, err := LoadEmbedded()
	require.NoError(t, err)

	assert.Equal(t, []string{"en", "ar"}, b.Locales())
	assert.Equal(t, "Budget", b.Translate("en", "step.budget"))
	assert.Equal(t, "الميزانية", b.Translate("ar", "step.budget"))
	assert.Equal(t, "الميزانية", b.Translate("ar-EG", "step.budget"))
}

func TestTranslate_Fallbacks(t *testing.T) {
	b, err := LoadEmbedded()
	require.NoError(t, err)

	// Missing in ar, present in en.
	assert.Equal(t, "Facebook", b.Translate("ar", "field.socialMedia.facebook"))
	// Unknown locale.
	assert.Equal(t, "Budget", b.Translate("ja", "step.budget"))
	assert.Equal(t, "Budget", b.Translate("", "step.budget"))
	// Missing everywhere.
	assert.Equal(t, "field.unknown", b.Translate("ar", "field.unknown"))
}

func TestMatch(t *testing.T) {
	b, err := LoadEmbedded()
	require.NoError(t, err)

	assert.Equal(t, "ar", b.Match("ar-SA,en;q=0.5"))
	assert.Equal(t, "en", b.Match("fr-FR"))
	assert.Equal(t, "en", b.Match("%%%"))
}

func TestEmbedded_CoversEveryLayoutKey(t *testing.T) {
	b, err := LoadEmbedded()
	require.NoError(t, err)

	for _, name := range steps.Names() {
		l, err := steps.Lookup(name)
		require.NoError(t, err)
		for _, s := range l.Steps {
			assert.NotEqual(t, s.TitleKey(), b.Translate("en", s.TitleKey()))
			for _, f := range s.Fields {
				assert.NotEqual(t, f.Label(), b.Translate("en", f.Label()), "missing label for %s", f.Path)
			}
		}
	}
}

func TestLoadFromFS_Errors(t *testing.T) {
	tests := map[string]fstest.MapFS{
		"no files": {},
		"no base locale": {
			"locales/ar/wizard.yaml": {Data: []byte("locale: ar\nnamespace: wizard\nmessages:\n  a: b\n")},
		},
		"locale mismatch": {
			"locales/en/wizard.yaml": {Data: []byte("locale: ar\nnamespace: wizard\nmessages:\n  a: b\n")},
		},
		"missing messages": {
			"locales/en/wizard.yaml": {Data: []byte("locale: en\nnamespace: wizard\n")},
		},
		"duplicate key": {
			"locales/en/a.yaml": {Data: []byte("locale: en\nmessages:\n  k: one\n")},
			"locales/en/b.yaml": {Data: []byte("locale: en\nmessages:\n  k: two\n")},
		},
	}

	for name, fsys := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFromFS(fsys)
			assert.Error(t, err)
		})
	}
}
