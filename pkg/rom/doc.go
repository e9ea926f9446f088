// Package rom loads the ExeFS and RomFS partitions of an extracted title
// into vfs trees.
//
// Only directory inputs are understood. A partition given as a regular file
// (an NCCH container, for example) fails with ErrUnknownFormat carrying the
// file's extension.
//
// # Events
//
// For each partition that is given, Read emits "<part>.start", then one
// "<part>.node.start" and "<part>.node.end" pair per node read from disk,
// then "<part>.end", where <part> is "exefs" or "romfs". ExeFS is always
// loaded first. Node events carry a vfs.NodeEvent payload.
//
//	r, err := rom.Read(rom.Options{ExeFS: "title/exefs", RomFS: "title/romfs"})
//	if err != nil {
//	    return err
//	}
//	fmt.Print(vfs.TreeString(r.RomFS))
package rom
