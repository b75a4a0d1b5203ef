package manager

import (
	"context"

	"github.com/arthur-debert/packorder/pkg/errors"
	"github.com/arthur-debert/packorder/pkg/logging"
)

// Delete removes a pack from disk and then from the list. When the disk
// removal fails the list is left as it was.
func (m *Manager) Delete(ctx context.Context, id string) error {
	defer logging.LogOperationStart(m.logger, "delete")()

	if err := ctx.Err(); err != nil {
		return err
	}

	p, ok := m.Get(id)
	if !ok {
		return errors.Newf(errors.ErrNotFound, "pack %q not found", id).WithDetail("id", id)
	}

	remove := m.fs.Remove
	if p.IsDir {
		remove = m.fs.RemoveAll
	}
	if err := remove(p.Path); err != nil {
		m.logger.Error().Err(err).Str("pack", p.ID).Str("path", p.Path).Msg("Failed to delete pack")
		return errors.Wrapf(err, errors.ErrDiskDeletion, "cannot delete pack %q", p.ID).
			WithDetail("id", p.ID).
			WithDetail("path", p.Path)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.track(p.ID, false)
	if _, err := m.list.Remove(p.ID); err != nil {
		// A rescan already noticed the pack is gone
		m.logger.Debug().Str("pack", p.ID).Msg("Pack already dropped from list")
	}
	m.logger.Info().Str("pack", p.ID).Msg("Pack deleted")
	return nil
}

// DeleteAsync runs Delete in the background. The channel receives exactly
// one value, nil on success.
func (m *Manager) DeleteAsync(ctx context.Context, id string) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- m.Delete(ctx, id)
	}()
	return done
}
