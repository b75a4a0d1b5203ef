package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifestDescription(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"plain string", `{"pack":{"pack_format":6,"description":"Hello"}}`, "Hello"},
		{"text component", `{"pack":{"pack_format":6,"description":{"text":"Hel","extra":[{"text":"lo"}]}}}`, "Hello"},
		{"component array", `{"pack":{"pack_format":6,"description":["",{"text":"Hi","color":"gold"}," there"]}}`, "Hi there"},
		{"missing", `{"pack":{"pack_format":6}}`, ""},
		{"unknown fields ignored", `{"pack":{"pack_format":6,"description":"x","future":true},"language":{}}`, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseManifest([]byte(tt.json))
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Description)
			assert.Equal(t, 6, m.Format)
		})
	}
}

func TestParseManifestByteOrderMark(t *testing.T) {
	m, err := ParseManifest(append([]byte{0xef, 0xbb, 0xbf}, []byte(`{"pack":{"pack_format":8}}`)...))
	require.NoError(t, err)
	assert.Equal(t, 8, m.Format)
}

func TestParseManifestSupportedFormats(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantMin int
		wantMax int
	}{
		{"absent", `{"pack":{"pack_format":15}}`, 15, 15},
		{"number", `{"pack":{"pack_format":15,"supported_formats":18}}`, 15, 18},
		{"pair", `{"pack":{"pack_format":15,"supported_formats":[16,20]}}`, 15, 20},
		{"object", `{"pack":{"pack_format":15,"supported_formats":{"min_inclusive":12,"max_inclusive":22}}}`, 12, 22},
		{"malformed pair ignored", `{"pack":{"pack_format":15,"supported_formats":["a"]}}`, 15, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseManifest([]byte(tt.json))
			require.NoError(t, err)
			assert.Equal(t, tt.wantMin, m.SupportedMin)
			assert.Equal(t, tt.wantMax, m.SupportedMax)
		})
	}
}
