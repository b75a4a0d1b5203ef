package catalog

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/packorder/pkg/config"
	"github.com/arthur-debert/packorder/pkg/errors"
	"github.com/arthur-debert/packorder/pkg/logging"
	"github.com/arthur-debert/packorder/pkg/types"
	"github.com/arthur-debert/packorder/pkg/validator"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Problem is an entry that could not be admitted
type Problem struct {
	Name string
	Path string
	Err  error
}

// Result holds the outcome of a scan
type Result struct {
	Enabled  []types.ResourcePack
	Disabled []types.ResourcePack
	Invalid  []Problem
}

// Catalog scans packs directories
type Catalog struct {
	fs        types.FS
	validator *validator.Validator
	scan      config.Scan
	logger    zerolog.Logger
}

// New creates a Catalog reading fs with the given validator and scan settings
func New(fs types.FS, v *validator.Validator, scan config.Scan) *Catalog {
	return &Catalog{
		fs:        fs,
		validator: v,
		scan:      scan,
		logger:    logging.GetLogger("catalog"),
	}
}

// Scan validates every entry of dir and partitions the valid packs by
// persistedOrder. A missing or unreadable dir is the only error returned.
func (c *Catalog) Scan(ctx context.Context, dir string, persistedOrder []string) (Result, error) {
	packs, problems, err := c.Packs(ctx, dir)
	if err != nil {
		return Result{}, err
	}

	enabled, disabled := Partition(packs, persistedOrder, nil)
	c.logger.Info().
		Int("enabled", len(enabled)).
		Int("disabled", len(disabled)).
		Int("invalid", len(problems)).
		Msg("Scan complete")

	return Result{Enabled: enabled, Disabled: disabled, Invalid: problems}, nil
}

// Packs validates every entry of dir and returns the admitted packs sorted
// by name, together with the entries that were refused
func (c *Catalog) Packs(ctx context.Context, dir string) ([]types.ResourcePack, []Problem, error) {
	defer logging.LogOperationStart(c.logger, "scan")()

	info, err := c.fs.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.Wrap(err, errors.ErrNotFound, "packs directory does not exist").
				WithDetail("path", dir)
		}
		return nil, nil, errors.Wrap(err, errors.ErrFileAccess, "cannot access packs directory").
			WithDetail("path", dir)
	}
	if !info.IsDir() {
		return nil, nil, errors.New(errors.ErrInvalidInput, "packs directory is not a directory").
			WithDetail("path", dir)
	}

	entries, err := c.fs.ReadDir(dir)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrFileAccess, "cannot read packs directory").
			WithDetail("path", dir)
	}

	var names []string
	for _, entry := range entries {
		if c.ignored(entry.Name()) {
			c.logger.Trace().Str("name", entry.Name()).Msg("Skipping ignored entry")
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	// Each worker writes only its own slot, so order stays deterministic
	packs := make([]types.ResourcePack, len(names))
	errs := make([]error, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers())
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			packs[i], errs[i] = c.validator.Validate(filepath.Join(dir, name))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrInternal, "scan interrupted").
			WithDetail("path", dir)
	}

	var admitted []types.ResourcePack
	var problems []Problem
	owners := make(map[string]string, len(names))
	for i, name := range names {
		path := filepath.Join(dir, name)
		if errs[i] != nil {
			c.logger.Warn().Err(errs[i]).Str("name", name).Msg("Skipping invalid pack")
			problems = append(problems, Problem{Name: name, Path: path, Err: errs[i]})
			continue
		}

		key := packs[i].Key()
		if owner, taken := owners[key]; taken {
			err := errors.Newf(errors.ErrDuplicateIdentity, "pack %q collides with %q", name, owner).
				WithDetail("id", name).
				WithDetail("path", path)
			c.logger.Warn().Err(err).Msg("Skipping duplicate pack")
			problems = append(problems, Problem{Name: name, Path: path, Err: err})
			continue
		}
		owners[key] = name
		admitted = append(admitted, packs[i])
	}

	return admitted, problems, nil
}

func (c *Catalog) ignored(name string) bool {
	for _, pattern := range c.scan.Ignore {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func (c *Catalog) workers() int {
	if c.scan.Workers < 1 {
		return 1
	}
	return c.scan.Workers
}

// Partition splits packs into the enabled packs named by enabledOrder, in
// that order, and the rest. Disabled packs named by disabledOrder keep that
// order and lead; unnamed packs follow in the order given. Names with no
// matching pack are dropped.
func Partition(packs []types.ResourcePack, enabledOrder, disabledOrder []string) ([]types.ResourcePack, []types.ResourcePack) {
	logger := logging.GetLogger("catalog")

	byKey := make(map[string]types.ResourcePack, len(packs))
	for _, p := range packs {
		byKey[p.Key()] = p
	}
	placed := make(map[string]bool, len(packs))

	take := func(order []string, enabled bool) []types.ResourcePack {
		out := make([]types.ResourcePack, 0, len(order))
		for _, id := range order {
			key := types.IdentityKey(id)
			p, ok := byKey[key]
			if !ok {
				if enabled {
					logger.Debug().Str("id", id).Msg("Dropping stale pack reference")
				}
				continue
			}
			if placed[key] {
				continue
			}
			placed[key] = true
			p.Enabled = enabled
			out = append(out, p)
		}
		return out
	}

	enabled := take(enabledOrder, true)
	disabled := take(disabledOrder, false)
	for _, p := range packs {
		if placed[p.Key()] {
			continue
		}
		placed[p.Key()] = true
		p.Enabled = false
		disabled = append(disabled, p)
	}
	return enabled, disabled
}
