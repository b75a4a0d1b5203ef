// Package codec maps the enabled pack order to the value the game engine
// reads from its options document.
//
// The engine expects a JSON array of prefixed identities and loads it
// bottom-up: the last entry wins. The manager keeps the winner at index 0,
// so the codec reverses on the way in and out. The in-memory order is never
// rearranged for persistence. Entries the engine manages itself, such as
// "vanilla", are not packs of the directory; Merge keeps them where they
// were.
package codec

import (
	"strings"

	"github.com/arthur-debert/packorder/pkg/logging"
	"github.com/arthur-debert/packorder/pkg/types"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// DefaultPrefix marks identities that refer to the packs directory
const DefaultPrefix = "file/"

// Codec encodes and decodes persisted pack order
type Codec struct {
	Prefix string
}

// New returns a codec using prefix, or DefaultPrefix when prefix is empty
func New(prefix string) Codec {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Codec{Prefix: prefix}
}

// Encode renders enabled packs, highest precedence first, as the engine's
// order value
func (c Codec) Encode(enabled []types.ResourcePack) string {
	return c.encodeIDs(types.PackIDs(enabled))
}

// EncodeIncompatible renders the enabled packs flagged incompatible so the
// engine loads them without asking
func (c Codec) EncodeIncompatible(enabled []types.ResourcePack) string {
	var ids []string
	for _, p := range enabled {
		if p.Incompatible {
			ids = append(ids, p.ID)
		}
	}
	return c.encodeIDs(ids)
}

func (c Codec) encodeIDs(ids []string) string {
	value := "[]"
	for i := len(ids) - 1; i >= 0; i-- {
		// sjson only fails on a malformed path, and "-1" is fixed
		value, _ = sjson.Set(value, "-1", c.Prefix+ids[i])
	}
	return value
}

// Merge renders enabled over previous, the value currently stored under the
// order key. Engine entries without the prefix keep their positions.
// Prefixed slots take the new order in turn; packs left over go right after
// the last prefixed slot, or at the end when there is none. A malformed
// previous value is replaced outright.
func (c Codec) Merge(previous string, enabled []types.ResourcePack) string {
	return c.mergeIDs(previous, types.PackIDs(enabled))
}

// MergeIncompatible is Merge for the incompatible packs value
func (c Codec) MergeIncompatible(previous string, enabled []types.ResourcePack) string {
	var ids []string
	for _, p := range enabled {
		if p.Incompatible {
			ids = append(ids, p.ID)
		}
	}
	return c.mergeIDs(previous, ids)
}

func (c Codec) mergeIDs(previous string, ids []string) string {
	entries, ok := c.parse(previous)
	if !ok {
		return c.encodeIDs(ids)
	}

	lastSlot := -1
	for i, e := range entries {
		if c.isSlot(e) {
			lastSlot = i
		}
	}

	value := "[]"
	next := len(ids) - 1
	put := func() {
		value, _ = sjson.Set(value, "-1", c.Prefix+ids[next])
		next--
	}
	flush := func() {
		for next >= 0 {
			put()
		}
	}
	for i, e := range entries {
		switch {
		case !c.isSlot(e):
			value, _ = sjson.SetRaw(value, "-1", e.Raw)
		case next >= 0:
			put()
		}
		if i == lastSlot {
			flush()
		}
	}
	flush()
	return value
}

// isSlot reports whether an entry refers to the packs directory
func (c Codec) isSlot(e gjson.Result) bool {
	return e.Type == gjson.String && strings.HasPrefix(e.Str, c.Prefix)
}

func (c Codec) parse(value string) ([]gjson.Result, bool) {
	value = strings.TrimSpace(value)
	if value == "" || !gjson.Valid(value) {
		return nil, false
	}
	parsed := gjson.Parse(value)
	if !parsed.IsArray() {
		return nil, false
	}
	return parsed.Array(), true
}

// Decode returns the identities named by value, highest precedence first.
// Empty or malformed values decode to an empty list. Entries without the
// prefix belong to the engine and are skipped, as are repeats; Merge puts
// them back when the order is written.
func (c Codec) Decode(value string) []string {
	logger := logging.GetLogger("codec")
	ids := []string{}

	entries, ok := c.parse(value)
	if !ok {
		if strings.TrimSpace(value) != "" {
			logger.Warn().Str("value", value).Msg("Ignoring malformed pack order")
		}
		return ids
	}

	seen := make(map[string]struct{}, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		raw := entries[i].String()
		id, ok := strings.CutPrefix(raw, c.Prefix)
		if entries[i].Type != gjson.String || !ok || id == "" {
			logger.Debug().Str("entry", raw).Msg("Skipping built-in or foreign pack entry")
			continue
		}
		if _, dup := seen[types.IdentityKey(id)]; dup {
			continue
		}
		seen[types.IdentityKey(id)] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
