package display

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/packorder/pkg/errors"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

// Renderer writes views in one format
type Renderer struct {
	w      io.Writer
	format Format
	styles Styles
}

// NewRenderer creates a renderer for w. FormatAuto inspects w when it is a
// file and falls back to plain text otherwise.
func NewRenderer(w io.Writer, format Format) (*Renderer, error) {
	if format == FormatAuto {
		format = FormatText
		if f, ok := w.(*os.File); ok {
			format = DetectFormat(f)
		}
	}

	lr := lipgloss.NewRenderer(w)
	if format != FormatTerminal {
		lr.SetColorProfile(termenv.Ascii)
	}
	styles, err := LoadStyles(lr, embeddedStyles)
	if err != nil {
		return nil, err
	}

	return &Renderer{w: w, format: format, styles: styles}, nil
}

// Format returns the resolved output format
func (r *Renderer) Format() Format {
	return r.format
}

// RenderList writes the pack list
func (r *Renderer) RenderList(view ListView) error {
	switch r.format {
	case FormatYAML:
		return r.encodeYAML(view)
	case FormatJSON:
		return r.encodeJSON(view)
	}

	var b strings.Builder
	b.WriteString(r.styles.Get("Header").Render("Enabled (highest precedence first)") + "\n")
	if len(view.Enabled) == 0 {
		b.WriteString(r.styles.Get("Description").Render("    none") + "\n")
	}
	for _, p := range view.Enabled {
		b.WriteString(r.packLine(fmt.Sprintf("%d", p.Position), "Enabled", p))
	}

	b.WriteString("\n" + r.styles.Get("Header").Render("Disabled") + "\n")
	if len(view.Disabled) == 0 {
		b.WriteString(r.styles.Get("Description").Render("    none") + "\n")
	}
	for _, p := range view.Disabled {
		b.WriteString(r.packLine("-", "Disabled", p))
	}

	if len(view.Invalid) > 0 {
		b.WriteString("\n" + r.styles.Get("Header").Render("Invalid") + "\n")
		for _, p := range view.Invalid {
			b.WriteString(r.styles.Get("Position").Render("!") + "  " +
				r.styles.Get("Problem").Render(p.Name) + "  " +
				r.styles.Get("Description").Render(p.Error) + "\n")
		}
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Renderer) packLine(marker, style string, p PackView) string {
	line := r.styles.Get("Position").Render(marker) + "  " + r.styles.Get(style).Render(p.ID)
	if p.Incompatible {
		line += "  " + r.styles.Get("Incompatible").Render(fmt.Sprintf("[incompatible: format %d]", p.Format))
	}
	if p.Description != "" {
		line += "  " + r.styles.Get("Description").Render(firstLine(p.Description))
	}
	return line + "\n"
}

// RenderMessage writes a one-line status message
func (r *Renderer) RenderMessage(msg string) error {
	switch r.format {
	case FormatYAML:
		return r.encodeYAML(map[string]string{"message": msg})
	case FormatJSON:
		return r.encodeJSON(map[string]string{"message": msg})
	}
	_, err := io.WriteString(r.w, r.styles.Get("Message").Render(msg)+"\n")
	return err
}

// RenderError writes an error with its code
func (r *Renderer) RenderError(err error) error {
	code := string(errors.GetErrorCode(err))
	switch r.format {
	case FormatYAML:
		return r.encodeYAML(map[string]string{"code": code, "error": err.Error()})
	case FormatJSON:
		return r.encodeJSON(map[string]string{"code": code, "error": err.Error()})
	}
	_, werr := io.WriteString(r.w, r.styles.Get("Problem").Render("Error: "+err.Error())+"\n")
	return werr
}

func (r *Renderer) encodeYAML(v interface{}) error {
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode YAML")
	}
	return enc.Close()
}

func (r *Renderer) encodeJSON(v interface{}) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode JSON")
	}
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
