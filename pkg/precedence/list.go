package precedence

import (
	"github.com/arthur-debert/packorder/pkg/errors"
	"github.com/arthur-debert/packorder/pkg/types"
)

// List is the single source of truth for pack order and partition
type List struct {
	entries []types.ResourcePack
}

// New returns a list with enabled packs ahead of disabled ones. Packs
// keep the order given; duplicates are rejected.
func New(enabled, disabled []types.ResourcePack) (*List, error) {
	l := &List{}
	if err := l.Replace(enabled, disabled); err != nil {
		return nil, err
	}
	return l, nil
}

// Replace swaps the whole state at once. On error the list is unchanged.
func (l *List) Replace(enabled, disabled []types.ResourcePack) error {
	entries := make([]types.ResourcePack, 0, len(enabled)+len(disabled))
	seen := make(map[string]struct{}, cap(entries))

	appendAll := func(packs []types.ResourcePack, on bool) error {
		for _, p := range packs {
			if _, dup := seen[p.Key()]; dup {
				return errors.Newf(errors.ErrDuplicateIdentity, "pack %q listed twice", p.ID).
					WithDetail("id", p.ID)
			}
			seen[p.Key()] = struct{}{}
			p.Enabled = on
			entries = append(entries, p)
		}
		return nil
	}
	if err := appendAll(enabled, true); err != nil {
		return err
	}
	if err := appendAll(disabled, false); err != nil {
		return err
	}

	l.entries = entries
	return nil
}

// Enabled returns the enabled partition in precedence order
func (l *List) Enabled() []types.ResourcePack {
	return l.project(true)
}

// Disabled returns the disabled partition, most recently disabled first
func (l *List) Disabled() []types.ResourcePack {
	return l.project(false)
}

func (l *List) project(enabled bool) []types.ResourcePack {
	out := make([]types.ResourcePack, 0, len(l.entries))
	for _, p := range l.entries {
		if p.Enabled == enabled {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of packs in both partitions
func (l *List) Len() int {
	return len(l.entries)
}

// Get returns the pack with the given identity
func (l *List) Get(id string) (types.ResourcePack, bool) {
	i := l.indexOf(id)
	if i < 0 {
		return types.ResourcePack{}, false
	}
	return l.entries[i], true
}

// Enable promotes a disabled pack to the highest precedence
func (l *List) Enable(id string) error {
	i, err := l.find(id, false)
	if err != nil {
		return err
	}
	l.toFront(i, true)
	return nil
}

// Disable moves an enabled pack to the front of the disabled partition
func (l *List) Disable(id string) error {
	i, err := l.find(id, true)
	if err != nil {
		return err
	}
	l.toFront(i, false)
	return nil
}

// MoveUp raises an enabled pack by one place. The first pack stays put.
func (l *List) MoveUp(id string) error {
	i, err := l.find(id, true)
	if err != nil {
		return err
	}
	for j := i - 1; j >= 0; j-- {
		if l.entries[j].Enabled {
			l.entries[i], l.entries[j] = l.entries[j], l.entries[i]
			return nil
		}
	}
	return nil
}

// MoveDown lowers an enabled pack by one place. The last pack stays put.
func (l *List) MoveDown(id string) error {
	i, err := l.find(id, true)
	if err != nil {
		return err
	}
	for j := i + 1; j < len(l.entries); j++ {
		if l.entries[j].Enabled {
			l.entries[i], l.entries[j] = l.entries[j], l.entries[i]
			return nil
		}
	}
	return nil
}

// Remove drops a pack from whichever partition holds it
func (l *List) Remove(id string) (types.ResourcePack, error) {
	i := l.indexOf(id)
	if i < 0 {
		return types.ResourcePack{}, notFound(id)
	}
	p := l.entries[i]
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	return p, nil
}

// Add admits a new pack into the disabled partition
func (l *List) Add(p types.ResourcePack) error {
	if l.indexOf(p.ID) >= 0 {
		return errors.Newf(errors.ErrDuplicateIdentity, "pack %q already exists", p.ID).
			WithDetail("id", p.ID)
	}
	p.Enabled = false
	l.entries = append(l.entries, p)
	return nil
}

// find locates id and checks that it sits in the wanted partition
func (l *List) find(id string, enabled bool) (int, error) {
	i := l.indexOf(id)
	if i < 0 || l.entries[i].Enabled != enabled {
		return -1, notFound(id).WithDetail("enabled", enabled)
	}
	return i, nil
}

func (l *List) indexOf(id string) int {
	key := types.IdentityKey(id)
	for i, p := range l.entries {
		if p.Key() == key {
			return i
		}
	}
	return -1
}

// toFront moves entry i to the head of the sequence with the given flag
func (l *List) toFront(i int, enabled bool) {
	p := l.entries[i]
	p.Enabled = enabled
	copy(l.entries[1:i+1], l.entries[:i])
	l.entries[0] = p
}

func notFound(id string) *errors.PackError {
	var err *errors.PackError
	if id == "" {
		err = errors.New(errors.ErrNotFound, "no pack identity given")
	} else {
		err = errors.Newf(errors.ErrNotFound, "pack %q not found", id)
	}
	return err.WithDetail("id", id)
}
