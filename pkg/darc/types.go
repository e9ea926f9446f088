package darc

import (
	"log/slog"

	"github.com/joshuapare/ctrkit/internal/format"
	"github.com/joshuapare/ctrkit/pkg/memory"
	"github.com/joshuapare/ctrkit/pkg/version"
)

// Format constants.
const (
	HeaderSize     = format.DARCHeaderSize
	NodeSize       = format.DARCNodeSize
	Alignment      = format.DARCAlignment
	DefaultPadding = format.DARCDefaultPadding

	// RootName is the name written for the root directory record.
	RootName = format.DARCRootName

	// PaddingAttr is the file attribute holding the pre-data padding.
	PaddingAttr = "padding"

	maxU24 = format.DARCMaxNameOffset
	maxU32 = 1<<32 - 1
)

// Magic opens every archive.
var Magic = [4]byte(format.DARCMagic)

// Version is the only format revision supported.
var Version = version.MustParse(format.DARCVersion)

// NameEncoding is the encoding of the name blob, in archive byte order.
const NameEncoding = memory.UTF16

// Header is the decoded archive header.
type Header struct {
	Magic           [4]byte           `json:"magic" yaml:"magic"`
	Endianness      memory.Endianness `json:"endianness" yaml:"endianness"`
	HeaderSize      uint16            `json:"header_size" yaml:"header_size"`
	Version         version.Version   `json:"version" yaml:"version"`
	FileLength      uint32            `json:"file_length" yaml:"file_length"`
	TableOffset     uint32            `json:"table_offset" yaml:"table_offset"`
	TableLength     uint32            `json:"table_length" yaml:"table_length"`
	DataStartOffset uint32            `json:"data_start_offset" yaml:"data_start_offset"`
}

// LogValue implements slog.LogValuer.
func (h Header) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("endianness", h.Endianness.String()),
		slog.String("version", h.Version.String()),
		slog.Uint64("file_length", uint64(h.FileLength)),
		slog.Uint64("table_length", uint64(h.TableLength)),
		slog.Uint64("data_start", uint64(h.DataStartOffset)),
	)
}

// Node is one record of the node table. For directories Length counts the
// subtree including the directory; for files it is the data size.
type Node struct {
	Name       string `json:"name" yaml:"name"`
	Directory  bool   `json:"directory" yaml:"directory"`
	NameOffset uint32 `json:"name_offset" yaml:"name_offset"`
	DataOffset uint32 `json:"data_offset" yaml:"data_offset"`
	Length     uint32 `json:"length" yaml:"length"`
	// Padding is the number of zero bytes between the aligned end of the
	// previous block and the data. Always zero for directories.
	Padding int    `json:"padding" yaml:"padding"`
	Data    []byte `json:"-" yaml:"-"`
}

// LogValue implements slog.LogValuer; data is omitted.
func (n Node) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", n.Name),
		slog.Bool("directory", n.Directory),
		slog.Uint64("data_offset", uint64(n.DataOffset)),
		slog.Uint64("length", uint64(n.Length)),
		slog.Int("padding", n.Padding),
	)
}

// ListEntry summarizes a node for the parse.list event.
type ListEntry struct {
	Name      string `json:"name" yaml:"name"`
	Length    uint32 `json:"length" yaml:"length"`
	Directory bool   `json:"directory" yaml:"directory"`
}

// Event names.
const (
	EventBuildHeader = "build.header"
	EventBuildNode   = "build.node"
	EventParseHeader = "parse.header"
	EventParseList   = "parse.list"
	EventParseNode   = "parse.node"
)
