package vfs

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

// AppendMode selects what Append does when the directory already holds a
// node with the same name.
type AppendMode uint8

const (
	// Fail rejects the node with ErrAlreadyExists.
	Fail AppendMode = iota
	// Skip keeps the existing node and drops the new one.
	Skip
	// Replace swaps the existing node for the new one in place.
	Replace
	// Force appends the new node next to the existing one.
	Force
	// Merge combines two directories recursively; other conflicts are
	// settled by the merge conflict mode.
	Merge
)

var appendModeNames = [...]string{"fail", "skip", "replace", "force", "merge"}

func (m AppendMode) String() string {
	if int(m) < len(appendModeNames) {
		return appendModeNames[m]
	}
	return "unknown"
}

// ParseAppendMode maps a mode name to its AppendMode.
func ParseAppendMode(s string) (AppendMode, error) {
	i := slices.Index(appendModeNames[:], strings.ToLower(s))
	if i < 0 {
		return 0, newErr(CodeInvalidArgument, "", "unknown append mode %q", s)
	}
	return AppendMode(i), nil
}

type appendOptions struct {
	mode     AppendMode
	conflict AppendMode
	clone    bool
}

// AppendOption configures Append.
type AppendOption func(*appendOptions)

// WithMode sets the duplicate-name policy.
func WithMode(m AppendMode) AppendOption { return func(o *appendOptions) { o.mode = m } }

// MergeWith selects merge mode and sets the policy for conflicts that are
// not directory/directory. It must not be Merge.
func MergeWith(conflict AppendMode) AppendOption {
	return func(o *appendOptions) {
		o.mode = Merge
		o.conflict = conflict
	}
}

// Cloning appends a deep copy instead of the node itself.
func Cloning() AppendOption { return func(o *appendOptions) { o.clone = true } }

// Directory is an ordered container of nodes.
type Directory struct {
	nodeBase
	children []Node
}

// NewDirectory returns an empty detached directory.
func NewDirectory(name string, attrs Attributes) *Directory {
	return &Directory{nodeBase: nodeBase{name: name, attrs: attrs}}
}

func (*Directory) Kind() Kind { return KindDirectory }

func (d *Directory) Len() int { return len(d.children) }

// Nodes returns the immediate children. The slice must not be modified.
func (d *Directory) Nodes() []Node { return d.children }

// Files lists every file below d in pre-order.
func (d *Directory) Files() []*File {
	var out []*File
	for _, n := range d.Flatten() {
		if f, ok := n.(*File); ok {
			out = append(out, f)
		}
	}
	return out
}

func (d *Directory) Flatten() []Node {
	out := []Node{d}
	for _, c := range d.children {
		out = append(out, c.Flatten()...)
	}
	return out
}

func (d *Directory) Clone() Node {
	c := &Directory{nodeBase: nodeBase{name: d.name, attrs: maps.Clone(d.attrs)}}
	c.children = make([]Node, 0, len(d.children))
	for _, child := range d.children {
		cc := child.Clone()
		cc.base().parent = c
		c.children = append(c.children, cc)
	}
	return c
}

// IndexOf returns the position of the first child called name, or -1.
func (d *Directory) IndexOf(name string) int {
	return slices.IndexFunc(d.children, func(n Node) bool { return n.Name() == name })
}

// Exists reports whether a child called name exists.
func (d *Directory) Exists(name string) bool { return d.IndexOf(name) >= 0 }

// Find returns the first immediate child matching fn.
func (d *Directory) Find(fn func(Node) bool) Node {
	i := slices.IndexFunc(d.children, fn)
	if i < 0 {
		return nil
	}
	return d.children[i]
}

// Walk calls fn for d and every descendant in pre-order and stops at the
// first error.
func (d *Directory) Walk(fn func(Node) error) error {
	for _, n := range d.Flatten() {
		if err := fn(n); err != nil {
			return err
		}
	}
	return nil
}

// Search resolves a "/"-separated path relative to d. Empty and "."
// segments are ignored. It returns nil when nothing matches.
func (d *Directory) Search(path string) Node {
	var cur Node = d
	for seg := range strings.SplitSeq(path, "/") {
		if seg == "" || seg == "." {
			continue
		}
		dir, ok := cur.(*Directory)
		if !ok {
			return nil
		}
		i := dir.IndexOf(seg)
		if i < 0 {
			return nil
		}
		cur = dir.children[i]
	}
	return cur
}

// Read returns the data of the file at path.
func (d *Directory) Read(path string) ([]byte, error) {
	f, ok := d.Search(path).(*File)
	if !ok {
		return nil, newErr(CodeMissingFile, path, "no file at path")
	}
	return f.data, nil
}

// Remove detaches the first child with each given name and reports how many
// were removed.
func (d *Directory) Remove(names ...string) int {
	removed := 0
	for _, name := range names {
		if i := d.IndexOf(name); i >= 0 {
			d.children[i].base().parent = nil
			d.children = slices.Delete(d.children, i, i+1)
			removed++
		}
	}
	return removed
}

// Clear detaches every child.
func (d *Directory) Clear() {
	for _, c := range d.children {
		c.base().parent = nil
	}
	d.children = nil
}

// File creates a file and appends it.
func (d *Directory) File(name string, data []byte, attrs Attributes, opts ...AppendOption) (*File, error) {
	n, err := d.Append(NewFile(name, data, attrs), opts...)
	if err != nil {
		return nil, err
	}
	f, ok := n.(*File)
	if !ok {
		return nil, newErr(CodeAlreadyExists, n.Path(), "directory in the way of file %q", name)
	}
	return f, nil
}

// Dir creates a directory and appends it. In Skip or Merge mode an existing
// directory of the same name is returned instead.
func (d *Directory) Dir(name string, opts ...AppendOption) (*Directory, error) {
	n, err := d.Append(NewDirectory(name, nil), opts...)
	if err != nil {
		return nil, err
	}
	sub, ok := n.(*Directory)
	if !ok {
		return nil, newErr(CodeAlreadyExists, n.Path(), "file in the way of directory %q", name)
	}
	return sub, nil
}

// Append adds node as the last child of d and returns the node that now
// occupies the name. A node attached elsewhere is moved. In Merge mode the
// children of a merged directory move into the existing one.
func (d *Directory) Append(node Node, opts ...AppendOption) (Node, error) {
	if node == nil {
		return nil, newErr(CodeInvalidArgument, d.Path(), "nil node")
	}
	o := appendOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.mode > Merge || o.conflict >= Merge {
		return nil, newErr(CodeInvalidArgument, d.Path(), "invalid append mode")
	}
	if o.clone {
		node = node.Clone()
	}
	if dir, ok := node.(*Directory); ok {
		for anc := d; anc != nil; anc = anc.parent {
			if anc == dir {
				return nil, newErr(CodeInvalidArgument, dir.Path(), "directory cannot contain itself")
			}
		}
	}
	return d.append(node, o)
}

func (d *Directory) append(node Node, o appendOptions) (Node, error) {
	i := d.IndexOf(node.Name())
	if i >= 0 && d.children[i] == node {
		return node, nil
	}
	if i < 0 {
		d.adopt(node)
		d.children = append(d.children, node)
		return node, nil
	}

	switch o.mode {
	case Skip:
		return d.children[i], nil
	case Force:
		d.adopt(node)
		d.children = append(d.children, node)
		return node, nil
	case Replace:
		d.replace(i, node)
		return node, nil
	case Merge:
		return d.merge(i, node, o)
	default:
		return nil, newErr(CodeAlreadyExists, joinPath(d.Path(), node.Name()), "node already exists")
	}
}

func (d *Directory) merge(i int, node Node, o appendOptions) (Node, error) {
	existing, okE := d.children[i].(*Directory)
	incoming, okI := node.(*Directory)
	if !okE || !okI {
		return d.append(node, appendOptions{mode: o.conflict})
	}

	merged := maps.Clone(existing.attrs)
	if merged == nil && incoming.attrs != nil {
		merged = Attributes{}
	}
	maps.Copy(merged, incoming.attrs)
	existing.attrs = merged

	var errs []error
	for _, child := range slices.Clone(incoming.children) {
		child.base().parent = nil
		if _, err := existing.append(child, o); err != nil {
			errs = append(errs, err)
		}
	}
	incoming.children = nil
	if p := incoming.parent; p != nil && p != d {
		p.detach(incoming)
	}
	return existing, errors.Join(errs...)
}

func (d *Directory) replace(i int, node Node) {
	d.children[i].base().parent = nil
	d.adopt(node)
	d.children[i] = node
}

// adopt detaches node from any previous parent and points it at d.
func (d *Directory) adopt(node Node) {
	if p := node.Parent(); p != nil && p != d {
		p.detach(node)
	}
	node.base().parent = d
}

func (d *Directory) detach(node Node) {
	if i := slices.Index(d.children, node); i >= 0 {
		d.children = slices.Delete(d.children, i, i+1)
	}
	node.base().parent = nil
}

func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
