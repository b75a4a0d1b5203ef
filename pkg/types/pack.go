package types

import (
	"path/filepath"
	"strings"
)

// ArchiveExtension is the container extension of archive-form packs
const ArchiveExtension = ".zip"

// ResourcePack represents one archive or directory that overrides game assets
type ResourcePack struct {
	// ID is the pack identity: the file or directory name inside the packs directory
	ID string

	// Path is the absolute path to the archive or directory
	Path string

	// IsDir reports whether the pack is a directory rather than an archive
	IsDir bool

	// Enabled reports which partition holds the pack
	Enabled bool

	// Name is the display name, the ID without its archive extension
	Name string

	// Description comes from the manifest, empty when it declares none
	Description string

	// HasIcon reports whether the pack ships an icon image
	HasIcon bool

	// FormatVersion is the pack_format declared by the manifest
	FormatVersion int

	// Incompatible is set when FormatVersion falls outside the supported range
	Incompatible bool
}

// Key returns the identity key used for uniqueness checks
func (p ResourcePack) Key() string {
	return IdentityKey(p.ID)
}

// IdentityKey folds an identity so that names differing only in case collide.
// Pack directories commonly live on case-insensitive filesystems.
func IdentityKey(id string) string {
	return strings.ToLower(id)
}

// DisplayName derives the default display name from a filesystem name
func DisplayName(id string) string {
	ext := filepath.Ext(id)
	if strings.EqualFold(ext, ArchiveExtension) {
		return strings.TrimSuffix(id, ext)
	}
	return id
}

// PackIDs returns the identities of packs in order
func PackIDs(packs []ResourcePack) []string {
	ids := make([]string, len(packs))
	for i, p := range packs {
		ids[i] = p.ID
	}
	return ids
}
