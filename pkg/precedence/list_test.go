package precedence_test

import (
	"math/rand/v2"
	"testing"

	"github.com/arthur-debert/packorder/pkg/errors"
	"github.com/arthur-debert/packorder/pkg/precedence"
	"github.com/arthur-debert/packorder/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func packs(ids ...string) []types.ResourcePack {
	out := make([]types.ResourcePack, len(ids))
	for i, id := range ids {
		out[i] = types.ResourcePack{ID: id, Name: types.DisplayName(id)}
	}
	return out
}

func newList(t *testing.T, enabled, disabled []string) *precedence.List {
	t.Helper()
	l, err := precedence.New(packs(enabled...), packs(disabled...))
	require.NoError(t, err)
	return l
}

func assertState(t *testing.T, l *precedence.List, enabled, disabled []string) {
	t.Helper()
	assert.Equal(t, enabled, types.PackIDs(l.Enabled()), "enabled")
	assert.Equal(t, disabled, types.PackIDs(l.Disabled()), "disabled")
}

func TestNewRejectsDuplicates(t *testing.T) {
	tests := []struct {
		name     string
		enabled  []string
		disabled []string
	}{
		{"within enabled", []string{"A", "A"}, nil},
		{"across partitions", []string{"A"}, []string{"A"}},
		{"case folded", []string{"Pack.zip"}, []string{"pack.ZIP"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := precedence.New(packs(tt.enabled...), packs(tt.disabled...))
			assert.True(t, errors.IsErrorCode(err, errors.ErrDuplicateIdentity))
		})
	}
}

func TestReplaceFailureKeepsState(t *testing.T) {
	l := newList(t, []string{"A"}, []string{"B"})

	err := l.Replace(packs("X", "Y"), packs("X"))
	require.Error(t, err)
	assertState(t, l, []string{"A"}, []string{"B"})
}

func TestPartitionFlags(t *testing.T) {
	l := newList(t, []string{"A"}, []string{"B"})

	for _, p := range l.Enabled() {
		assert.True(t, p.Enabled)
	}
	for _, p := range l.Disabled() {
		assert.False(t, p.Enabled)
	}
}

func TestEnable(t *testing.T) {
	l := newList(t, []string{"A", "B"}, []string{"X"})

	require.NoError(t, l.Enable("X"))
	assertState(t, l, []string{"X", "A", "B"}, []string{})

	p, ok := l.Get("X")
	require.True(t, ok)
	assert.True(t, p.Enabled)
}

func TestDisable(t *testing.T) {
	l := newList(t, []string{"A", "B", "C"}, []string{"X"})

	require.NoError(t, l.Disable("B"))
	assertState(t, l, []string{"A", "C"}, []string{"B", "X"})

	require.NoError(t, l.Disable("C"))
	assertState(t, l, []string{"A"}, []string{"C", "B", "X"})
}

func TestEnableDisableNotFound(t *testing.T) {
	tests := []struct {
		name string
		op   func(l *precedence.List) error
	}{
		{"enable unknown", func(l *precedence.List) error { return l.Enable("Nope") }},
		{"enable already enabled", func(l *precedence.List) error { return l.Enable("A") }},
		{"disable unknown", func(l *precedence.List) error { return l.Disable("Nope") }},
		{"disable already disabled", func(l *precedence.List) error { return l.Disable("X") }},
		{"move up disabled", func(l *precedence.List) error { return l.MoveUp("X") }},
		{"move down disabled", func(l *precedence.List) error { return l.MoveDown("X") }},
		{"move up unknown", func(l *precedence.List) error { return l.MoveUp("Nope") }},
		{"remove unknown", func(l *precedence.List) error { _, err := l.Remove("Nope"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newList(t, []string{"A", "B"}, []string{"X"})

			err := tt.op(l)
			assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound), "got %v", err)
			assertState(t, l, []string{"A", "B"}, []string{"X"})
		})
	}
}

func TestMove(t *testing.T) {
	tests := []struct {
		name string
		op   func(l *precedence.List) error
		want []string
	}{
		{"down first", func(l *precedence.List) error { return l.MoveDown("A") }, []string{"B", "A", "C"}},
		{"down middle", func(l *precedence.List) error { return l.MoveDown("B") }, []string{"A", "C", "B"}},
		{"down last is no-op", func(l *precedence.List) error { return l.MoveDown("C") }, []string{"A", "B", "C"}},
		{"up last", func(l *precedence.List) error { return l.MoveUp("C") }, []string{"A", "C", "B"}},
		{"up first is no-op", func(l *precedence.List) error { return l.MoveUp("A") }, []string{"A", "B", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newList(t, []string{"A", "B", "C"}, []string{"X", "Y"})

			require.NoError(t, tt.op(l))
			assertState(t, l, tt.want, []string{"X", "Y"})
		})
	}
}

func TestMoveSkipsDisabledNeighbours(t *testing.T) {
	l := newList(t, []string{"A", "B", "C"}, nil)
	require.NoError(t, l.Disable("B"))
	require.NoError(t, l.Enable("B"))
	require.NoError(t, l.Disable("A"))
	// sequence is now A(off) B C with B and C enabled
	assertState(t, l, []string{"B", "C"}, []string{"A"})

	require.NoError(t, l.MoveUp("C"))
	assertState(t, l, []string{"C", "B"}, []string{"A"})

	require.NoError(t, l.MoveUp("C"))
	assertState(t, l, []string{"C", "B"}, []string{"A"})
}

func TestRemove(t *testing.T) {
	l := newList(t, []string{"A", "B"}, []string{"X"})

	p, err := l.Remove("B")
	require.NoError(t, err)
	assert.Equal(t, "B", p.ID)
	assertState(t, l, []string{"A"}, []string{"X"})

	_, err = l.Remove("X")
	require.NoError(t, err)
	assertState(t, l, []string{"A"}, []string{})
	assert.Equal(t, 1, l.Len())
}

func TestAdd(t *testing.T) {
	l := newList(t, []string{"A"}, []string{"X"})

	fresh := types.ResourcePack{ID: "New.zip", Enabled: true}
	require.NoError(t, l.Add(fresh))
	assertState(t, l, []string{"A"}, []string{"X", "New.zip"})

	p, ok := l.Get("new.zip")
	require.True(t, ok)
	assert.False(t, p.Enabled)

	for _, id := range []string{"A", "X", "NEW.ZIP"} {
		err := l.Add(types.ResourcePack{ID: id})
		assert.True(t, errors.IsErrorCode(err, errors.ErrDuplicateIdentity), id)
	}
	assert.Equal(t, 3, l.Len())
}

func TestProjectionsAreCopies(t *testing.T) {
	l := newList(t, []string{"A", "B"}, nil)

	enabled := l.Enabled()
	enabled[0].ID = "Mutated"

	assertState(t, l, []string{"A", "B"}, []string{})
}

func TestRandomMutationsKeepInvariants(t *testing.T) {
	ids := []string{"A", "B", "C", "D", "E", "F", "G"}
	rng := rand.New(rand.NewPCG(1, 2))

	for round := 0; round < 20; round++ {
		l := newList(t, ids[:3], ids[3:])

		for step := 0; step < 200; step++ {
			id := ids[rng.IntN(len(ids))]
			switch rng.IntN(6) {
			case 0:
				_ = l.Enable(id)
			case 1:
				_ = l.Disable(id)
			case 2:
				_ = l.MoveUp(id)
			case 3:
				_ = l.MoveDown(id)
			case 4:
				_, _ = l.Remove(id)
			case 5:
				_ = l.Add(types.ResourcePack{ID: id})
			}

			seen := map[string]int{}
			for _, p := range l.Enabled() {
				require.True(t, p.Enabled)
				seen[p.Key()]++
			}
			for _, p := range l.Disabled() {
				require.False(t, p.Enabled)
				seen[p.Key()]++
			}
			for key, n := range seen {
				require.Equal(t, 1, n, "round %d step %d: %s appears %d times", round, step, key, n)
			}
			require.Equal(t, l.Len(), len(seen))
		}
	}
}
