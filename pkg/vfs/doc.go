// Package vfs is an in-memory file tree used to stage content for archive
// builders and to receive the output of archive parsers.
//
// A tree is made of *Directory and *File nodes. Directories keep their
// children in insertion order, which is the order archive formats write
// them in. Nodes carry free-form Attributes; codecs read per-file settings
// such as "padding" from them.
//
//	root := vfs.NewDirectory("", nil)
//	a, _ := root.Dir("a")
//	_, _ = a.File("b.txt", []byte("hello"), vfs.Attributes{"padding": 16})
//
// FromDir and (*Directory).WriteDir move trees between memory and disk.
package vfs
