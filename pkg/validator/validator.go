package validator

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/packorder/pkg/config"
	"github.com/arthur-debert/packorder/pkg/errors"
	"github.com/arthur-debert/packorder/pkg/logging"
	"github.com/arthur-debert/packorder/pkg/types"
	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog"
)

// maxManifestSize bounds how much of a manifest entry is read
const maxManifestSize = 1 << 20

// Validator inspects candidate packs
type Validator struct {
	fs     types.FS
	rules  config.Validation
	logger zerolog.Logger
}

// New creates a Validator applying rules to entries of fs
func New(fs types.FS, rules config.Validation) *Validator {
	return &Validator{
		fs:     fs,
		rules:  rules,
		logger: logging.GetLogger("validator"),
	}
}

// Validate inspects path and returns the pack it holds. Every failure is
// an ErrInvalidPack error carrying the path.
func (v *Validator) Validate(path string) (types.ResourcePack, error) {
	info, err := v.fs.Stat(path)
	if err != nil {
		return types.ResourcePack{}, errors.Wrap(err, errors.ErrInvalidPack, "cannot access candidate").
			WithDetail("path", path)
	}

	id := filepath.Base(path)
	pack := types.ResourcePack{
		ID:    id,
		Path:  path,
		IsDir: info.IsDir(),
		Name:  types.DisplayName(id),
	}

	var manifest Manifest
	if info.IsDir() {
		manifest, pack.HasIcon, err = v.inspectDirectory(path)
	} else {
		if !strings.EqualFold(filepath.Ext(id), v.rules.ArchiveExtension) {
			return types.ResourcePack{}, errors.Newf(errors.ErrInvalidPack, "not a %s archive or pack directory", v.rules.ArchiveExtension).
				WithDetail("path", path)
		}
		manifest, pack.HasIcon, err = v.inspectArchive(path, info.Size())
	}
	if err != nil {
		if packErr, ok := err.(*errors.PackError); ok {
			return types.ResourcePack{}, packErr.WithDetail("path", path)
		}
		return types.ResourcePack{}, errors.Wrap(err, errors.ErrInvalidPack, "cannot inspect candidate").
			WithDetail("path", path)
	}

	pack.FormatVersion = manifest.Format
	pack.Description = manifest.Description
	pack.Incompatible = manifest.SupportedMax < v.rules.MinFormat || manifest.SupportedMin > v.rules.MaxFormat

	if pack.Incompatible {
		v.logger.Warn().
			Str("pack", id).
			Int("format", manifest.Format).
			Int("min", v.rules.MinFormat).
			Int("max", v.rules.MaxFormat).
			Msg("Pack format is outside the supported range")
	}

	v.logger.Trace().
		Str("pack", id).
		Bool("dir", pack.IsDir).
		Int("format", pack.FormatVersion).
		Msg("Pack validated")

	return pack, nil
}

// IsValid reports whether path holds an admissible pack
func (v *Validator) IsValid(path string) bool {
	_, err := v.Validate(path)
	return err == nil
}

func (v *Validator) inspectDirectory(dir string) (Manifest, bool, error) {
	data, err := v.fs.ReadFile(filepath.Join(dir, v.rules.Manifest))
	if err != nil {
		return Manifest{}, false, errors.Wrapf(err, errors.ErrInvalidPack, "directory has no %s", v.rules.Manifest)
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		return Manifest{}, false, err
	}

	hasIcon := false
	if v.rules.Icon != "" {
		if info, err := v.fs.Stat(filepath.Join(dir, v.rules.Icon)); err == nil && !info.IsDir() {
			hasIcon = true
		}
	}
	return manifest, hasIcon, nil
}

func (v *Validator) inspectArchive(path string, size int64) (Manifest, bool, error) {
	f, err := v.fs.Open(path)
	if err != nil {
		return Manifest{}, false, errors.Wrap(err, errors.ErrInvalidPack, "cannot open archive")
	}
	defer func() { _ = f.Close() }()

	zr, err := zip.NewReader(f, size)
	if err != nil {
		return Manifest{}, false, errors.Wrap(err, errors.ErrInvalidPack, "unreadable archive")
	}

	var manifestEntry *zip.File
	hasIcon := false
	for _, entry := range zr.File {
		switch entry.Name {
		case v.rules.Manifest:
			manifestEntry = entry
		case v.rules.Icon:
			hasIcon = true
		}
	}
	if manifestEntry == nil {
		return Manifest{}, false, errors.Newf(errors.ErrInvalidPack, "archive has no %s", v.rules.Manifest)
	}

	rc, err := manifestEntry.Open()
	if err != nil {
		return Manifest{}, false, errors.Wrap(err, errors.ErrInvalidPack, "cannot read manifest")
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, maxManifestSize))
	if err != nil {
		return Manifest{}, false, errors.Wrap(err, errors.ErrInvalidPack, "cannot read manifest")
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		return Manifest{}, false, err
	}
	return manifest, hasIcon, nil
}
