package validator

import (
	"bytes"
	"strings"

	"github.com/arthur-debert/packorder/pkg/errors"
	"github.com/tidwall/gjson"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// Manifest is the part of pack.mcmeta the manager cares about
type Manifest struct {
	Format      int
	Description string

	// SupportedMin and SupportedMax widen Format when the manifest declares
	// supported_formats; both equal Format otherwise.
	SupportedMin int
	SupportedMax int
}

// ParseManifest reads a pack manifest, ignoring fields it does not know
func ParseManifest(data []byte) (Manifest, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !gjson.ValidBytes(data) {
		return Manifest{}, errors.New(errors.ErrInvalidPack, "manifest is not valid JSON")
	}

	pack := gjson.GetBytes(data, "pack")
	if !pack.IsObject() {
		return Manifest{}, errors.New(errors.ErrInvalidPack, "manifest has no pack section")
	}

	format := pack.Get("pack_format")
	if format.Type != gjson.Number {
		return Manifest{}, errors.New(errors.ErrInvalidPack, "manifest has no numeric pack_format")
	}

	m := Manifest{
		Format:      int(format.Int()),
		Description: textOf(pack.Get("description")),
	}
	m.SupportedMin, m.SupportedMax = supportedRange(pack.Get("supported_formats"), m.Format)
	return m, nil
}

// supportedRange reads supported_formats, which may be a single number,
// a [min, max] pair or a {min_inclusive, max_inclusive} object.
func supportedRange(r gjson.Result, format int) (int, int) {
	lo, hi := format, format
	switch {
	case r.Type == gjson.Number:
		lo, hi = int(r.Int()), int(r.Int())
	case r.IsArray():
		arr := r.Array()
		if len(arr) == 2 && arr[0].Type == gjson.Number && arr[1].Type == gjson.Number {
			lo, hi = int(arr[0].Int()), int(arr[1].Int())
		}
	case r.IsObject():
		minR, maxR := r.Get("min_inclusive"), r.Get("max_inclusive")
		if minR.Type == gjson.Number && maxR.Type == gjson.Number {
			lo, hi = int(minR.Int()), int(maxR.Int())
		}
	}
	// The declared pack_format always counts as supported
	if format < lo {
		lo = format
	}
	if format > hi {
		hi = format
	}
	return lo, hi
}

// textOf flattens a description that may be a plain string or a text
// component (object with text/extra, or an array of components).
func textOf(r gjson.Result) string {
	switch {
	case !r.Exists():
		return ""
	case r.IsArray():
		var b strings.Builder
		for _, part := range r.Array() {
			b.WriteString(textOf(part))
		}
		return b.String()
	case r.IsObject():
		return r.Get("text").String() + textOf(r.Get("extra"))
	default:
		return r.String()
	}
}
