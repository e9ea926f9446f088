package vfs

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Tree writes an indented listing of n:
//
//	> (root) (1 items)
//	  > a (1 items)
//	    - b.txt (5 bytes)
func Tree(w io.Writer, n Node) error {
	bw := bufio.NewWriter(w)
	writeTree(bw, n, 0)
	return bw.Flush()
}

// TreeString returns the Tree listing as a string.
func TreeString(n Node) string {
	var sb strings.Builder
	_ = Tree(&sb, n)
	return sb.String()
}

func writeTree(w *bufio.Writer, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := n.(type) {
	case *File:
		fmt.Fprintf(w, "%s- %s (%d bytes)\n", indent, v.Name(), v.Len())
	case *Directory:
		name := v.Name()
		if name == "" {
			name = "(unnamed)"
			if v.Parent() == nil {
				name = "(root)"
			}
		}
		fmt.Fprintf(w, "%s> %s (%d items)\n", indent, name, v.Len())
		for _, c := range v.children {
			writeTree(w, c, depth+1)
		}
	}
}
