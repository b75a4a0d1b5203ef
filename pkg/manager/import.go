package manager

import (
	"context"
	"os"

	"github.com/arthur-debert/packorder/pkg/errors"
	"github.com/arthur-debert/packorder/pkg/logging"
	"github.com/arthur-debert/packorder/pkg/types"
)

// ImportOptions control Import
type ImportOptions struct {
	// DryRun validates and checks for collisions without moving anything
	DryRun bool
}

// Import validates the candidate at src, moves it into the packs directory
// and adds it to the disabled partition. Collisions are refused before the
// disk is touched.
func (m *Manager) Import(ctx context.Context, src string, opts ImportOptions) (types.ResourcePack, error) {
	defer logging.LogOperationStart(m.logger, "import")()

	if err := ctx.Err(); err != nil {
		return types.ResourcePack{}, err
	}

	pack, err := m.validator.Validate(src)
	if err != nil {
		return types.ResourcePack{}, err
	}

	dest := m.paths.PackPath(pack.ID)
	if existing, ok := m.Get(pack.ID); ok {
		return types.ResourcePack{}, errors.Newf(errors.ErrDuplicateIdentity, "pack %q already exists", existing.ID).
			WithDetail("id", pack.ID).
			WithDetail("path", existing.Path)
	}
	if _, err := m.fs.Stat(dest); err == nil {
		return types.ResourcePack{}, errors.Newf(errors.ErrDuplicateIdentity, "%s already exists in the packs directory", pack.ID).
			WithDetail("id", pack.ID).
			WithDetail("path", dest)
	}

	if opts.DryRun {
		m.logger.Info().Str("pack", pack.ID).Str("dest", dest).Msg("Dry run: would import pack")
		pack.Path = dest
		return pack, nil
	}

	if err := m.fs.MkdirAll(m.paths.PacksDir(), 0755); err != nil {
		return types.ResourcePack{}, errors.Wrap(err, errors.ErrFileWrite, "cannot create packs directory").
			WithDetail("path", m.paths.PacksDir())
	}
	if err := m.move(src, dest, pack.IsDir); err != nil {
		return types.ResourcePack{}, err
	}

	pack.Path = dest
	if err := m.add(pack); err != nil {
		return types.ResourcePack{}, err
	}
	return pack, nil
}

// move renames src to dest, copying archives when a rename is not possible
// such as across volumes
func (m *Manager) move(src, dest string, isDir bool) error {
	renameErr := m.fs.Rename(src, dest)
	if renameErr == nil {
		return nil
	}
	if isDir {
		return errors.Wrap(renameErr, errors.ErrFileWrite, "cannot move pack directory").
			WithDetail("path", src).
			WithDetail("dest", dest)
	}

	m.logger.Debug().Err(renameErr).Str("path", src).Msg("Rename failed, copying instead")
	data, err := m.fs.ReadFile(src)
	if err != nil {
		return errors.Wrap(err, errors.ErrFileAccess, "cannot read pack").WithDetail("path", src)
	}
	if err := m.fs.WriteFile(dest, data, 0644); err != nil {
		_ = m.fs.Remove(dest)
		return errors.Wrap(err, errors.ErrFileWrite, "cannot copy pack").WithDetail("dest", dest)
	}
	if err := m.fs.Remove(src); err != nil && !os.IsNotExist(err) {
		m.logger.Warn().Err(err).Str("path", src).Msg("Imported pack copied but the original could not be removed")
	}
	return nil
}
