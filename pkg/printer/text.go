package printer

import (
	"fmt"
	"strings"
)

// printEntryText prints an entry and its children as an indented listing.
func (p *Printer) printEntryText(e Entry, depth int) error {
	indent := strings.Repeat(" ", depth*p.opts.IndentSize)

	var line string
	if e.Kind == "directory" {
		name := e.Name
		if name == "" {
			name = "(root)"
		}
		line = fmt.Sprintf("%s> %s/ (%d items)", indent, name, e.Items)
	} else {
		line = fmt.Sprintf("%s- %s (%d bytes)", indent, e.Name, e.Size)
		if e.Padding != nil {
			line += fmt.Sprintf(" padding=%d", *e.Padding)
		}
		if e.Digest != "" {
			line += " blake3=" + e.Digest
		}
	}
	if _, err := fmt.Fprintln(p.writer, line); err != nil {
		return err
	}
	for _, c := range e.Children {
		if err := p.printEntryText(c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printArchiveText(m ArchiveManifest) error {
	if h := m.Header; h != nil {
		fmt.Fprintf(p.writer, "DARC %s (%s)\n", h.Version, h.Endianness)
		fmt.Fprintf(p.writer, "  Size: %d bytes\n", h.FileLength)
		fmt.Fprintf(p.writer, "  Table: 0x%X + %d bytes\n", h.TableOffset, h.TableLength)
		fmt.Fprintf(p.writer, "  Data start: 0x%X\n", h.DataStartOffset)
	}
	fmt.Fprintf(p.writer, "  Files: %d, Directories: %d\n", m.Files, m.Directories)
	return p.printEntryText(m.Root, 0)
}
