// Package options reads and writes the game's options document.
//
// The document is a plain text file of key:value lines owned by the game.
// A Document only touches the keys it is asked to set; every other line,
// including ones it cannot parse, is written back unchanged and in place.
package options

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/packorder/pkg/errors"
	"github.com/arthur-debert/packorder/pkg/logging"
	"github.com/arthur-debert/packorder/pkg/types"
)

const separator = ":"

type line struct {
	key   string
	value string
	raw   string
}

// Document is an in-memory copy of an options file
type Document struct {
	path  string
	lines []line
}

// Load reads the document at path. A missing file yields an empty document.
func Load(fs types.FS, path string) (*Document, error) {
	logger := logging.GetLogger("options")
	doc := &Document{path: path}

	data, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("path", path).Msg("Options file does not exist yet")
			return doc, nil
		}
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot read options file").
			WithDetail("path", path)
	}

	data = bytes.TrimPrefix(data, []byte{0xef, 0xbb, 0xbf})
	for _, raw := range strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n") {
		doc.lines = append(doc.lines, parseLine(raw))
	}
	// A trailing newline leaves one empty element behind
	if n := len(doc.lines); n > 0 && doc.lines[n-1].raw == "" && doc.lines[n-1].key == "" {
		doc.lines = doc.lines[:n-1]
	}

	logger.Trace().Str("path", path).Int("lines", len(doc.lines)).Msg("Options file loaded")
	return doc, nil
}

func parseLine(raw string) line {
	key, value, ok := strings.Cut(raw, separator)
	if !ok || key == "" {
		return line{raw: raw}
	}
	return line{key: key, value: value, raw: raw}
}

// Path returns where the document is saved
func (d *Document) Path() string {
	return d.path
}

// Get returns the value of key and whether it is present
func (d *Document) Get(key string) (string, bool) {
	for _, l := range d.lines {
		if l.key == key {
			return l.value, true
		}
	}
	return "", false
}

// Set replaces the value of key, appending the key when absent
func (d *Document) Set(key, value string) {
	for i, l := range d.lines {
		if l.key == key {
			d.lines[i] = line{key: key, value: value, raw: key + separator + value}
			return
		}
	}
	d.lines = append(d.lines, line{key: key, value: value, raw: key + separator + value})
}

// Keys returns the keys present in the document, in file order
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.lines))
	for _, l := range d.lines {
		if l.key != "" {
			keys = append(keys, l.key)
		}
	}
	return keys
}

// Bytes renders the document
func (d *Document) Bytes() []byte {
	var b bytes.Buffer
	for _, l := range d.lines {
		b.WriteString(l.raw)
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// Save writes the document through a temporary file renamed over the
// original, so the game never reads a half-written file
func (d *Document) Save(fs types.FS) error {
	logger := logging.GetLogger("options")

	if err := fs.MkdirAll(filepath.Dir(d.path), 0755); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "cannot create options directory").
			WithDetail("path", d.path)
	}

	tmp := d.path + ".packorder.tmp"
	if err := fs.WriteFile(tmp, d.Bytes(), 0644); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "cannot write options file").
			WithDetail("path", tmp)
	}
	if err := fs.Rename(tmp, d.path); err != nil {
		_ = fs.Remove(tmp)
		return errors.Wrap(err, errors.ErrFileWrite, "cannot replace options file").
			WithDetail("path", d.path)
	}

	logger.Debug().Str("path", d.path).Msg("Options file saved")
	return nil
}
