package manager

import (
	"context"
	"testing"

	"github.com/arthur-debert/packorder/pkg/errors"
	"github.com/arthur-debert/packorder/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addDownload(t *testing.T, dir *testutil.PackDir, name string, files map[string]string) string {
	t.Helper()

	path := "/downloads/" + name
	require.NoError(t, dir.FS.MkdirAll("/downloads", 0755))
	require.NoError(t, dir.FS.WriteFile(path, testutil.ZipBytes(t, files), 0644))
	return path
}

func TestImport(t *testing.T) {
	dir, m := setup(t)
	src := addDownload(t, dir, "Fresh.zip", map[string]string{"pack.mcmeta": testutil.Manifest(15, "new")})

	pack, err := m.Import(context.Background(), src, ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Fresh.zip", pack.ID)
	assert.Equal(t, dir.Path("Fresh.zip"), pack.Path)
	assert.False(t, pack.Enabled)
	assertState(t, m, []string{"A.zip", "B.zip"}, []string{"C", "X.zip", "Fresh.zip"})

	_, err = dir.FS.Stat(src)
	assert.Error(t, err, "source must be moved")
	_, err = dir.FS.Stat(dir.Path("Fresh.zip"))
	assert.NoError(t, err)

	require.NoError(t, m.Rescan(context.Background()))
	assertState(t, m, []string{"A.zip", "B.zip"}, []string{"C", "X.zip", "Fresh.zip"})
}

func TestImportDryRun(t *testing.T) {
	dir, m := setup(t)
	src := addDownload(t, dir, "Fresh.zip", map[string]string{"pack.mcmeta": testutil.Manifest(15, "new")})

	pack, err := m.Import(context.Background(), src, ImportOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, dir.Path("Fresh.zip"), pack.Path)

	_, err = dir.FS.Stat(src)
	assert.NoError(t, err, "dry run must not move the source")
	assertState(t, m, []string{"A.zip", "B.zip"}, []string{"C", "X.zip"})
}

func TestImportRejects(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		files map[string]string
		code  errors.ErrorCode
	}{
		{"invalid archive", "Broken.zip", map[string]string{"readme.txt": "no manifest"}, errors.ErrInvalidPack},
		{"same identity", "A.zip", map[string]string{"pack.mcmeta": testutil.Manifest(15, "")}, errors.ErrDuplicateIdentity},
		{"identity differing in case", "x.ZIP", map[string]string{"pack.mcmeta": testutil.Manifest(15, "")}, errors.ErrDuplicateIdentity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, m := setup(t)
			src := addDownload(t, dir, tt.file, tt.files)

			_, err := m.Import(context.Background(), src, ImportOptions{})
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)

			_, statErr := dir.FS.Stat(src)
			assert.NoError(t, statErr, "rejected source must stay where it was")
			assertState(t, m, []string{"A.zip", "B.zip"}, []string{"C", "X.zip"})
		})
	}
}

func TestImportRefusesUnlistedFileInTheWay(t *testing.T) {
	dir, m := setup(t)
	dir.AddFile(t, "Taken.zip", "not a pack, so not listed")
	src := addDownload(t, dir, "Taken.zip", map[string]string{"pack.mcmeta": testutil.Manifest(15, "")})

	_, err := m.Import(context.Background(), src, ImportOptions{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrDuplicateIdentity), "got %v", err)
}
