// Package printer renders file trees and archive summaries as text, JSON,
// YAML or CBOR manifests.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/joshuapare/ctrkit/pkg/darc"
	"github.com/joshuapare/ctrkit/pkg/vfs"
)

const (
	DefaultIndentSize = 2
	DefaultMaxDepth   = 0
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs an indented human-readable listing.
	FormatText Format = "text"

	// FormatJSON outputs indented JSON.
	FormatJSON Format = "json"

	// FormatYAML outputs YAML.
	FormatYAML Format = "yaml"

	// FormatCBOR outputs deterministic CBOR.
	FormatCBOR Format = "cbor"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatCBOR}

// ParseFormat maps a format name (any case) to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("printer: unknown format %q", s)
}

// Options controls printing behavior.
type Options struct {
	// Format specifies output format.
	// Default: FormatText
	Format Format

	// IndentSize is the number of spaces per indent level (text format only).
	// Default: 2
	IndentSize int

	// MaxDepth limits recursion depth (0 = unlimited).
	// Default: 0 (unlimited)
	MaxDepth int

	// ShowPadding includes each file's padding attribute.
	// Default: true
	ShowPadding bool

	// Digest includes a BLAKE3-256 digest of each file.
	// Default: false
	Digest bool

	// PrintMetadata includes the archive header when printing an archive.
	// Default: true
	PrintMetadata bool
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:        FormatText,
		IndentSize:    DefaultIndentSize,
		MaxDepth:      DefaultMaxDepth,
		ShowPadding:   true,
		Digest:        false,
		PrintMetadata: true,
	}
}

// Printer writes manifests to an io.Writer.
type Printer struct {
	opts   Options
	writer io.Writer
}

// New creates a new Printer.
//
// Example:
//
//	a, _ := darc.Parse(b)
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.PrintArchive(a)
func New(w io.Writer, opts Options) *Printer {
	if opts.IndentSize <= 0 {
		opts.IndentSize = DefaultIndentSize
	}
	return &Printer{writer: w, opts: opts}
}

// PrintTree prints the manifest of a tree rooted at n.
func (p *Printer) PrintTree(n vfs.Node) error {
	entry := BuildEntry(n, p.opts)
	if p.opts.Format == FormatText || p.opts.Format == "" {
		return p.printEntryText(entry, 0)
	}
	return p.encode(entry)
}

// PrintArchive prints an archive summary followed by its tree.
func (p *Printer) PrintArchive(a *darc.Archive) error {
	m, err := BuildArchiveManifest(a, p.opts)
	if err != nil {
		return err
	}
	if p.opts.Format == FormatText || p.opts.Format == "" {
		return p.printArchiveText(m)
	}
	return p.encode(m)
}

func (p *Printer) encode(v any) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printJSON(v)
	case FormatYAML:
		return p.printYAML(v)
	case FormatCBOR:
		return p.printCBOR(v)
	default:
		return fmt.Errorf("printer: unknown format %q", p.opts.Format)
	}
}
