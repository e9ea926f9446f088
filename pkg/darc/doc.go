// Package darc builds and parses DARC archives, the flat directory-tree
// container used by 3DS titles for layout and message data.
//
// # Layout
//
// An archive is a 0x1C byte header followed by a node table, a name blob
// and 16-byte aligned file data:
//
//	magic "darc" | BOM u16 | header size u16 | version[4] | file length u32
//	table offset u32 | table length u32 | data start u32
//	node[n]  = name offset u24 | is directory u8 | data offset u32 | length u32
//	names    = UTF-16 NUL-terminated strings, in node order
//	data     = per file: align 16, padding zeros, align 16, bytes
//
// Nodes are the tree flattened depth-first in pre-order. The first node is
// the root directory, named ".". A directory's length is the number of
// nodes in its subtree including itself; a file's length is its byte size.
// Multi-byte fields follow the byte order selected by the BOM.
//
// # Usage
//
//	a := darc.New()
//	dir, _ := a.Root.Dir("a")
//	_, _ = dir.File("b.txt", []byte("hello"), nil)
//	b, err := a.Build()
//
//	parsed, err := darc.Parse(b)
//	data, err := parsed.Root.Read("a/b.txt")
//
// Both directions accept WithSink to observe progress. Files carry their
// pre-data padding in the "padding" attribute (default 16).
package darc
