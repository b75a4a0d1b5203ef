package testutil

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/packorder/pkg/filesystem"
	"github.com/arthur-debert/packorder/pkg/types"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// PacksDir is where PackDir places packs in the in-memory filesystem
const PacksDir = "/game/resourcepacks"

// Manifest returns a pack.mcmeta body with the given format and description
func Manifest(format int, description string) string {
	return fmt.Sprintf(`{"pack":{"pack_format":%d,"description":%q}}`, format, description)
}

// PackDir is a packs directory builder over an in-memory filesystem
type PackDir struct {
	FS   types.FS
	Root string
}

// NewPackDir creates an empty packs directory in a fresh in-memory filesystem
func NewPackDir(t *testing.T) *PackDir {
	t.Helper()

	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll(PacksDir, 0755))
	return &PackDir{FS: fs, Root: PacksDir}
}

// Path returns the location of name inside the packs directory
func (d *PackDir) Path(name string) string {
	return filepath.Join(d.Root, name)
}

// AddArchive writes a zip archive holding files
func (d *PackDir) AddArchive(t *testing.T, name string, files map[string]string) string {
	t.Helper()

	path := d.Path(name)
	require.NoError(t, d.FS.WriteFile(path, ZipBytes(t, files), 0644))
	return path
}

// AddPack writes a valid archive pack with a manifest of the given format
func (d *PackDir) AddPack(t *testing.T, name string, format int) string {
	t.Helper()
	return d.AddArchive(t, name, map[string]string{
		"pack.mcmeta": Manifest(format, "The "+types.DisplayName(name)+" pack"),
	})
}

// AddDirectory writes a directory pack holding files
func (d *PackDir) AddDirectory(t *testing.T, name string, files map[string]string) string {
	t.Helper()

	dir := d.Path(name)
	require.NoError(t, d.FS.MkdirAll(dir, 0755))
	for rel, content := range files {
		p := filepath.Join(dir, rel)
		require.NoError(t, d.FS.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, d.FS.WriteFile(p, []byte(content), 0644))
	}
	return dir
}

// AddFile writes a plain file
func (d *PackDir) AddFile(t *testing.T, name, content string) string {
	t.Helper()

	path := d.Path(name)
	require.NoError(t, d.FS.WriteFile(path, []byte(content), 0644))
	return path
}

// ZipBytes builds a zip archive in memory
func ZipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}
