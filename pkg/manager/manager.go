package manager

import (
	"context"

	"github.com/arthur-debert/packorder/pkg/catalog"
	"github.com/arthur-debert/packorder/pkg/codec"
	"github.com/arthur-debert/packorder/pkg/config"
	"github.com/arthur-debert/packorder/pkg/errors"
	"github.com/arthur-debert/packorder/pkg/logging"
	"github.com/arthur-debert/packorder/pkg/options"
	"github.com/arthur-debert/packorder/pkg/paths"
	"github.com/arthur-debert/packorder/pkg/precedence"
	"github.com/arthur-debert/packorder/pkg/types"
	"github.com/arthur-debert/packorder/pkg/validator"
	"github.com/rs/zerolog"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/sync/singleflight"
)

// Manager is the single owner of the pack list
type Manager struct {
	fs        types.FS
	paths     paths.Paths
	cfg       *config.Config
	validator *validator.Validator
	catalog   *catalog.Catalog
	codec     codec.Codec
	logger    zerolog.Logger

	mu       deadlock.Mutex
	list     *precedence.List
	problems []catalog.Problem
	// inflight records packs deleted (false) or admitted (true) while a
	// rescan is running, keyed by identity key. Nil when no scan runs.
	inflight map[string]bool

	scans singleflight.Group

	// afterScan runs between the unlocked scan and the locked swap
	afterScan func()
}

// New creates a Manager with an empty list. Call Load to populate it.
func New(fs types.FS, p paths.Paths, cfg *config.Config) *Manager {
	v := validator.New(fs, cfg.Validation)
	list, _ := precedence.New(nil, nil)
	return &Manager{
		fs:        fs,
		paths:     p,
		cfg:       cfg,
		validator: v,
		catalog:   catalog.New(fs, v, cfg.Scan),
		codec:     codec.New(cfg.Codec.Prefix),
		logger:    logging.GetLogger("manager"),
		list:      list,
	}
}

// Paths returns the locations the manager works on
func (m *Manager) Paths() paths.Paths {
	return m.paths
}

// Load reads the persisted order from the options document and rebuilds
// the list from a fresh scan. Any previous state is discarded.
func (m *Manager) Load(ctx context.Context) error {
	order, err := m.PersistedOrder()
	if err != nil {
		return err
	}

	packs, problems, err := m.scanPacks(ctx)
	if err != nil {
		return err
	}
	enabled, disabled := catalog.Partition(packs, order, nil)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.list.Replace(enabled, disabled); err != nil {
		return err
	}
	m.problems = problems

	m.logger.Info().
		Int("enabled", len(enabled)).
		Int("disabled", len(disabled)).
		Int("invalid", len(problems)).
		Msg("Packs loaded")
	return nil
}

// PersistedOrder returns the enabled order currently saved in the options
// document, highest precedence first
func (m *Manager) PersistedOrder() ([]string, error) {
	doc, err := options.Load(m.fs, m.paths.OptionsFile())
	if err != nil {
		return nil, err
	}
	value, _ := doc.Get(m.cfg.Options.Key)
	return m.codec.Decode(value), nil
}

// Rescan re-reads the packs directory and swaps the result in, keeping the
// current enabled order and partition of packs that are still present.
// Callers arriving while a scan runs share its outcome. The shared scan is
// not tied to any one caller: cancelling ctx only stops this caller waiting.
func (m *Manager) Rescan(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	results := m.scans.DoChan("rescan", func() (interface{}, error) {
		return nil, m.rescan(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-results:
		if res.Shared {
			m.logger.Debug().Msg("Rescan coalesced")
		}
		return res.Err
	}
}

func (m *Manager) rescan(ctx context.Context) error {
	m.mu.Lock()
	m.inflight = make(map[string]bool)
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.inflight = nil
		m.mu.Unlock()
	}()

	packs, problems, err := m.scanPacks(ctx)
	if err != nil {
		return err
	}
	if m.afterScan != nil {
		m.afterScan()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	packs = m.reconcile(packs)
	enabled, disabled := catalog.Partition(packs,
		types.PackIDs(m.list.Enabled()),
		types.PackIDs(m.list.Disabled()))
	if err := m.list.Replace(enabled, disabled); err != nil {
		return err
	}
	m.problems = problems

	m.logger.Debug().
		Int("enabled", len(enabled)).
		Int("disabled", len(disabled)).
		Msg("Rescan applied")
	return nil
}

// reconcile applies deletions and admissions made while the scan ran to the
// scanned packs. Callers hold m.mu.
func (m *Manager) reconcile(packs []types.ResourcePack) []types.ResourcePack {
	if len(m.inflight) == 0 {
		return packs
	}
	out := make([]types.ResourcePack, 0, len(packs)+len(m.inflight))
	seen := make(map[string]bool, len(packs))
	for _, p := range packs {
		seen[p.Key()] = true
		if admitted, touched := m.inflight[p.Key()]; touched && !admitted {
			m.logger.Debug().Str("pack", p.ID).Msg("Dropping pack deleted during rescan")
			continue
		}
		out = append(out, p)
	}
	for key, admitted := range m.inflight {
		if !admitted || seen[key] {
			continue
		}
		if p, ok := m.list.Get(key); ok {
			m.logger.Debug().Str("pack", p.ID).Msg("Keeping pack admitted during rescan")
			out = append(out, p)
		}
	}
	return out
}

// track notes a deletion or admission for a running rescan. Callers hold
// m.mu.
func (m *Manager) track(id string, admitted bool) {
	if m.inflight != nil {
		m.inflight[types.IdentityKey(id)] = admitted
	}
}

// scanPacks validates the packs directory. A missing directory counts as
// empty: the game creates it lazily.
func (m *Manager) scanPacks(ctx context.Context) ([]types.ResourcePack, []catalog.Problem, error) {
	packs, problems, err := m.catalog.Packs(ctx, m.paths.PacksDir())
	if errors.IsErrorCode(err, errors.ErrNotFound) {
		m.logger.Warn().Str("dir", m.paths.PacksDir()).Msg("Packs directory does not exist, treating as empty")
		return nil, nil, nil
	}
	return packs, problems, err
}

// Enabled returns the enabled packs, highest precedence first
func (m *Manager) Enabled() []types.ResourcePack {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list.Enabled()
}

// Disabled returns the disabled packs, most recently disabled first
func (m *Manager) Disabled() []types.ResourcePack {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list.Disabled()
}

// Problems returns the entries refused by the last scan
func (m *Manager) Problems() []catalog.Problem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]catalog.Problem(nil), m.problems...)
}

// Get returns the pack with the given identity
func (m *Manager) Get(id string) (types.ResourcePack, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list.Get(id)
}

// Enable promotes a disabled pack to the highest precedence
func (m *Manager) Enable(id string) error {
	return m.mutate("enable", id, m.list.Enable)
}

// Disable moves an enabled pack to the disabled partition
func (m *Manager) Disable(id string) error {
	return m.mutate("disable", id, m.list.Disable)
}

// MoveUp raises an enabled pack one place
func (m *Manager) MoveUp(id string) error {
	return m.mutate("move-up", id, m.list.MoveUp)
}

// MoveDown lowers an enabled pack one place
func (m *Manager) MoveDown(id string) error {
	return m.mutate("move-down", id, m.list.MoveDown)
}

// Remove forgets a pack without touching the disk. The next scan brings it
// back if it still exists.
func (m *Manager) Remove(id string) error {
	return m.mutate("remove", id, func(id string) error {
		_, err := m.list.Remove(id)
		return err
	})
}

// add admits a pack Import has validated into the disabled partition
func (m *Manager) add(p types.ResourcePack) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if held, ok := m.list.Get(p.ID); ok && held.Path == p.Path {
		// A rescan already picked up the moved file
		m.track(p.ID, true)
		return nil
	}
	if err := m.list.Add(p); err != nil {
		return err
	}
	m.track(p.ID, true)
	m.logger.Info().Str("pack", p.ID).Msg("Pack added")
	return nil
}

func (m *Manager) mutate(op, id string, fn func(string) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := fn(id); err != nil {
		m.logger.Debug().Err(err).Str("op", op).Str("pack", id).Msg("Operation rejected")
		return err
	}
	m.logger.Info().Str("op", op).Str("pack", id).Msg("Pack list updated")
	return nil
}

// Save writes the enabled order, and the list of enabled packs flagged
// incompatible, into the options document. Other settings are left alone.
func (m *Manager) Save() error {
	m.mu.Lock()
	enabled := m.list.Enabled()
	m.mu.Unlock()

	doc, err := options.Load(m.fs, m.paths.OptionsFile())
	if err != nil {
		return err
	}
	previous, _ := doc.Get(m.cfg.Options.Key)
	doc.Set(m.cfg.Options.Key, m.codec.Merge(previous, enabled))
	if key := m.cfg.Options.IncompatibleKey; key != "" {
		previous, _ := doc.Get(key)
		doc.Set(key, m.codec.MergeIncompatible(previous, enabled))
	}
	if err := doc.Save(m.fs); err != nil {
		return err
	}

	m.logger.Info().
		Str("path", doc.Path()).
		Strs("order", types.PackIDs(enabled)).
		Msg("Pack order saved")
	return nil
}
