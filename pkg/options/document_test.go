package options_test

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/packorder/pkg/errors"
	"github.com/arthur-debert/packorder/pkg/filesystem"
	"github.com/arthur-debert/packorder/pkg/options"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `version:3465
autoJump:false
resourcePacks:["vanilla","file/A.zip"]
# not a setting
lang:en_us
key_key.attack:key.mouse.left
`

func TestLoadMissingFileIsEmpty(t *testing.T) {
	fs := filesystem.NewMemory()

	doc, err := options.Load(fs, "/game/options.txt")
	require.NoError(t, err)

	_, ok := doc.Get("resourcePacks")
	assert.False(t, ok)
	assert.Empty(t, doc.Keys())
	assert.Empty(t, doc.Bytes())
}

func TestGet(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.WriteFile("/game/options.txt", []byte(sample), 0644))

	doc, err := options.Load(fs, "/game/options.txt")
	require.NoError(t, err)

	tests := []struct {
		key   string
		want  string
		found bool
	}{
		{"resourcePacks", `["vanilla","file/A.zip"]`, true},
		{"key_key.attack", "key.mouse.left", true},
		{"autoJump", "false", true},
		{"incompatibleResourcePacks", "", false},
		{"# not a setting", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := doc.Get(tt.key)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, []string{"version", "autoJump", "resourcePacks", "lang", "key_key.attack"}, doc.Keys())
}

func TestSetPreservesOtherLines(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.WriteFile("/game/options.txt", []byte(sample), 0644))

	doc, err := options.Load(fs, "/game/options.txt")
	require.NoError(t, err)

	doc.Set("resourcePacks", `["file/B"]`)
	doc.Set("incompatibleResourcePacks", `[]`)
	require.NoError(t, doc.Save(fs))

	data, err := fs.ReadFile("/game/options.txt")
	require.NoError(t, err)
	assert.Equal(t, `version:3465
autoJump:false
resourcePacks:["file/B"]
# not a setting
lang:en_us
key_key.attack:key.mouse.left
incompatibleResourcePacks:[]
`, string(data))
}

func TestLoadHandlesCRLF(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.WriteFile("/o.txt", []byte("a:1\r\nresourcePacks:[]\r\n"), 0644))

	doc, err := options.Load(fs, "/o.txt")
	require.NoError(t, err)

	got, ok := doc.Get("resourcePacks")
	require.True(t, ok)
	assert.Equal(t, "[]", got)
}

func TestSaveCreatesFileOnDisk(t *testing.T) {
	fs := filesystem.NewOS()
	path := filepath.Join(t.TempDir(), "game", "options.txt")

	doc, err := options.Load(fs, path)
	require.NoError(t, err)
	doc.Set("resourcePacks", `["file/A.zip"]`)
	require.NoError(t, doc.Save(fs))

	reloaded, err := options.Load(fs, path)
	require.NoError(t, err)
	got, _ := reloaded.Get("resourcePacks")
	assert.Equal(t, `["file/A.zip"]`, got)

	_, err = fs.Stat(path + ".packorder.tmp")
	assert.Error(t, err, "temporary file must not be left behind")
}

func TestSaveFailure(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, "/game/options.txt", []byte(sample), 0644))
	fs := filesystem.NewAferoFS(afero.NewReadOnlyFs(base))

	doc, err := options.Load(fs, "/game/options.txt")
	require.NoError(t, err)
	doc.Set("resourcePacks", "[]")

	err = doc.Save(fs)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileWrite), "got %v", err)

	data, err := afero.ReadFile(base, "/game/options.txt")
	require.NoError(t, err)
	assert.Equal(t, sample, string(data))
}
