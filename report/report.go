// Package report renders catalogs, session state and layouts for terminals
// and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat resolves a format name.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q", raw)
	}
}

// Options tune the text renderer.
type Options struct {
	NoColor bool
	Locale  language.Tag
}

type printer struct {
	w   io.Writer
	num *message.Printer

	header *color.Color
	label  *color.Color
	value  *color.Color
	good   *color.Color
	bad    *color.Color
	dim    *color.Color

	// err is the first write error; later writes are skipped.
	err error
}

func newPrinter(w io.Writer, opts Options) *printer {
	tag := opts.Locale
	if tag == language.Und {
		tag = language.English
	}
	p := &printer{
		w:      w,
		num:    message.NewPrinter(tag),
		header: color.New(color.FgBlue, color.Bold),
		label:  color.New(color.FgWhite, color.Bold),
		value:  color.New(color.FgCyan),
		good:   color.New(color.FgGreen, color.Bold),
		bad:    color.New(color.FgRed, color.Bold),
		dim:    color.New(color.FgHiBlack),
	}
	if opts.NoColor {
		for _, c := range []*color.Color{p.header, p.label, p.value, p.good, p.bad, p.dim} {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) printf(c *color.Color, format string, args ...any) {
	if p.err != nil {
		return
	}
	if c == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
		return
	}
	_, p.err = c.Fprintf(p.w, format, args...)
}

func (p *printer) section(title string) {
	p.printf(p.header, "%s\n", title)
}

func (p *printer) labelValue(label, value string) {
	p.printf(p.label, "  %-12s ", label)
	p.printf(p.value, "%s\n", value)
}

func (p *printer) line(format string, args ...any) {
	p.printf(nil, format+"\n", args...)
}

func (p *printer) integer(n int) string {
	return p.num.Sprintf("%v", number.Decimal(n))
}

func (p *printer) decimal(v float64, maxFrac int) string {
	return p.num.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(maxFrac)))
}

func encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q is not a structured format", format)
	}
}
