package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/packorder/internal/cli"
	"github.com/arthur-debert/packorder/pkg/display"
	"github.com/arthur-debert/packorder/pkg/errors"
	"github.com/arthur-debert/packorder/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gameDir prepares a game directory with packs A.zip (enabled), B.zip and
// X.zip and points the command line at it
func gameDir(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	game := filepath.Join(root, "game")
	packs := filepath.Join(game, "resourcepacks")
	require.NoError(t, os.MkdirAll(packs, 0755))

	for _, name := range []string{"A.zip", "B.zip", "X.zip"} {
		data := testutil.ZipBytes(t, map[string]string{"pack.mcmeta": testutil.Manifest(15, name)})
		require.NoError(t, os.WriteFile(filepath.Join(packs, name), data, 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(game, "options.txt"),
		[]byte("lang:en_us\nresourcePacks:[\"vanilla\",\"file/A.zip\"]\n"), 0644))

	t.Setenv("PACKORDER_GAME_DIR", game)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	return game
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func listJSON(t *testing.T) display.ListView {
	t.Helper()

	out, err := run(t, "list", "-o", "json")
	require.NoError(t, err)

	var view display.ListView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	return view
}

func ids(packs []display.PackView) []string {
	out := make([]string, len(packs))
	for i, p := range packs {
		out[i] = p.ID
	}
	return out
}

func readOptions(t *testing.T, game string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(game, "options.txt"))
	require.NoError(t, err)
	return string(data)
}

func TestList(t *testing.T) {
	gameDir(t)

	view := listJSON(t)
	assert.Equal(t, []string{"A.zip"}, ids(view.Enabled))
	assert.Equal(t, []string{"B.zip", "X.zip"}, ids(view.Disabled))

	out, err := run(t, "list", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "   1  A.zip")
}

func TestEnableSaves(t *testing.T) {
	game := gameDir(t)

	_, err := run(t, "enable", "X.zip", "B.zip", "-o", "text")
	require.NoError(t, err)

	assert.Equal(t, "lang:en_us\n"+
		`resourcePacks:["vanilla","file/A.zip","file/X.zip","file/B.zip"]`+"\n"+
		"incompatibleResourcePacks:[]\n", readOptions(t, game))
	assert.Equal(t, []string{"B.zip", "X.zip", "A.zip"}, ids(listJSON(t).Enabled))
}

func TestMoveAndDisable(t *testing.T) {
	gameDir(t)

	_, err := run(t, "enable", "X.zip")
	require.NoError(t, err)
	_, err = run(t, "down", "X.zip")
	require.NoError(t, err)
	assert.Equal(t, []string{"A.zip", "X.zip"}, ids(listJSON(t).Enabled))

	_, err = run(t, "up", "X.zip")
	require.NoError(t, err)
	_, err = run(t, "disable", "A.zip")
	require.NoError(t, err)

	view := listJSON(t)
	assert.Equal(t, []string{"X.zip"}, ids(view.Enabled))
	assert.ElementsMatch(t, []string{"A.zip", "B.zip"}, ids(view.Disabled))
}

func TestDryRunDoesNotSave(t *testing.T) {
	game := gameDir(t)
	before := readOptions(t, game)

	out, err := run(t, "enable", "X.zip", "--dry-run", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "DRY RUN")
	assert.Equal(t, before, readOptions(t, game))
}

func TestUnknownPack(t *testing.T) {
	game := gameDir(t)
	before := readOptions(t, game)

	_, err := run(t, "enable", "Nope.zip")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound), "got %v", err)
	assert.Equal(t, before, readOptions(t, game))
}

func TestDelete(t *testing.T) {
	game := gameDir(t)

	_, err := run(t, "delete", "A.zip")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(game, "resourcepacks", "A.zip"))
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, readOptions(t, game), `resourcePacks:["vanilla"]`+"\n")
	assert.Equal(t, []string{"B.zip", "X.zip"}, ids(listJSON(t).Disabled))
}

func TestImport(t *testing.T) {
	game := gameDir(t)
	src := filepath.Join(t.TempDir(), "New.zip")
	data := testutil.ZipBytes(t, map[string]string{"pack.mcmeta": testutil.Manifest(15, "new")})
	require.NoError(t, os.WriteFile(src, data, 0644))

	out, err := run(t, "import", src, "--dry-run", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Would import")
	_, err = os.Stat(src)
	require.NoError(t, err)

	_, err = run(t, "import", src)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(game, "resourcepacks", "New.zip"))
	assert.NoError(t, err)
	assert.Contains(t, ids(listJSON(t).Disabled), "New.zip")
}

func TestImportSkipsInvalidCandidates(t *testing.T) {
	game := gameDir(t)
	downloads := t.TempDir()
	bad := filepath.Join(downloads, "Broken.zip")
	require.NoError(t, os.WriteFile(bad, []byte("not a zip"), 0644))
	good := filepath.Join(downloads, "Good.zip")
	data := testutil.ZipBytes(t, map[string]string{"pack.mcmeta": testutil.Manifest(15, "good")})
	require.NoError(t, os.WriteFile(good, data, 0644))

	out, err := run(t, "import", bad, good, "-o", "text")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidPack), "got %v", err)
	assert.Contains(t, err.Error(), "1 of 2 packs")
	assert.Contains(t, out, "Imported Good.zip")

	_, err = os.Stat(filepath.Join(game, "resourcepacks", "Good.zip"))
	assert.NoError(t, err)
	_, err = os.Stat(bad)
	assert.NoError(t, err, "invalid candidates stay where they are")
	assert.Contains(t, ids(listJSON(t).Disabled), "Good.zip")
}

func TestConfig(t *testing.T) {
	gameDir(t)

	out, err := run(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "[codec]")
	assert.Contains(t, out, "file/")
	assert.Contains(t, out, "[game]")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "packorder version")
}
