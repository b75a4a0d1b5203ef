package manager

import (
	"context"

	"github.com/arthur-debert/packorder/pkg/watch"
)

// Watch rescans whenever the packs directory changes, until ctx is
// cancelled. onRescan, when set, runs after each rescan with its result.
func (m *Manager) Watch(ctx context.Context, onRescan func(error)) error {
	if err := m.fs.MkdirAll(m.paths.PacksDir(), 0755); err != nil {
		m.logger.Warn().Err(err).Msg("Cannot create packs directory")
	}

	w, err := watch.New(watch.Config{
		Dir:      m.paths.PacksDir(),
		Ignore:   m.cfg.Scan.Ignore,
		Debounce: m.cfg.Watch.Debounce,
		OnChange: func(ctx context.Context, changed []string) error {
			err := m.Rescan(ctx)
			if onRescan != nil {
				onRescan(err)
			}
			return err
		},
	})
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
