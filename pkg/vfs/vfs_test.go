package vfs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ctrkit/pkg/types"
)

func sample(t *testing.T) *Directory {
	t.Helper()
	root := NewDirectory("", nil)
	a, err := root.Dir("a")
	require.NoError(t, err)
	_, err = a.File("b.txt", []byte("hello"), Attributes{"padding": 16})
	require.NoError(t, err)
	_, err = root.File("c.bin", []byte{1, 2, 3}, nil)
	require.NoError(t, err)
	return root
}

func TestPathsAndKinds(t *testing.T) {
	root := sample(t)
	b := root.Search("a/b.txt")
	require.NotNil(t, b)
	require.Equal(t, KindFile, b.Kind())
	require.Equal(t, "a/b.txt", b.Path())
	require.Equal(t, 5, b.Len())
	require.Equal(t, "a", b.Parent().Name())

	require.Equal(t, "", root.Path())
	require.Equal(t, KindDirectory, root.Kind())
	require.Equal(t, 2, root.Len())

	named := NewDirectory("top", nil)
	_, err := named.Append(root.Search("c.bin"))
	require.NoError(t, err)
	require.Equal(t, "top/c.bin", named.Nodes()[0].Path())
	require.False(t, root.Exists("c.bin"), "appending moves the node")
}

func TestAppend_Modes(t *testing.T) {
	t.Run("fail", func(t *testing.T) {
		root := sample(t)
		_, err := root.File("c.bin", nil, nil)
		require.ErrorIs(t, err, ErrAlreadyExists)
		require.True(t, types.HasCode(err, CodeAlreadyExists))

		var verr *Error
		require.True(t, errors.As(err, &verr))
		require.Equal(t, "c.bin", verr.Path)
	})

	t.Run("skip", func(t *testing.T) {
		root := sample(t)
		f, err := root.File("c.bin", []byte("new"), nil, WithMode(Skip))
		require.NoError(t, err)
		require.Equal(t, []byte{1, 2, 3}, f.Data())
		require.Equal(t, 2, root.Len())
	})

	t.Run("replace", func(t *testing.T) {
		root := sample(t)
		old := root.Search("c.bin")
		f, err := root.File("c.bin", []byte("new"), nil, WithMode(Replace))
		require.NoError(t, err)
		require.Equal(t, 1, root.IndexOf("c.bin"))
		require.Same(t, f, root.Nodes()[1])
		require.Nil(t, old.Parent())
	})

	t.Run("force", func(t *testing.T) {
		root := sample(t)
		_, err := root.File("c.bin", []byte("dup"), nil, WithMode(Force))
		require.NoError(t, err)
		require.Equal(t, 3, root.Len())
		require.Equal(t, 1, root.IndexOf("c.bin"))
	})

	t.Run("invalid", func(t *testing.T) {
		root := sample(t)
		_, err := root.Append(nil)
		require.ErrorIs(t, err, ErrInvalidArgument)
		_, err = root.Append(NewFile("x", nil, nil), WithMode(AppendMode(9)))
		require.ErrorIs(t, err, ErrInvalidArgument)
		_, err = root.Append(NewFile("x", nil, nil), MergeWith(Merge))
		require.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("cycle", func(t *testing.T) {
		root := sample(t)
		a := root.Search("a").(*Directory)
		_, err := a.Append(root)
		require.ErrorIs(t, err, ErrInvalidArgument)
		_, err = a.Append(a)
		require.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestAppend_Merge(t *testing.T) {
	root := sample(t)
	root.Search("a").SetAttr("keep", 1)

	incoming := NewDirectory("a", Attributes{"keep": 2, "extra": true})
	_, err := incoming.File("d.txt", []byte("d"), nil)
	require.NoError(t, err)
	_, err = incoming.File("b.txt", []byte("clash"), nil)
	require.NoError(t, err)

	// Default conflict policy fails on the file clash but keeps the rest.
	_, err = root.Append(incoming.Clone(), WithMode(Merge))
	require.ErrorIs(t, err, ErrAlreadyExists)

	root = sample(t)
	root.Search("a").SetAttr("keep", 1)
	got, err := root.Append(incoming, MergeWith(Replace))
	require.NoError(t, err)
	a := got.(*Directory)
	require.Same(t, root.Search("a"), a)
	require.Equal(t, 2, a.Len())
	require.Equal(t, []byte("clash"), a.Search("b.txt").(*File).Data())
	require.Equal(t, []byte("d"), a.Search("d.txt").(*File).Data())
	require.Same(t, a, a.Search("d.txt").Parent())
	require.Equal(t, Attributes{"keep": 2, "extra": true}, a.Attrs())
	require.Equal(t, 0, incoming.Len())
}

func TestAppend_MergeSkipAndNested(t *testing.T) {
	root := NewDirectory("", nil)
	x, err := root.Dir("x")
	require.NoError(t, err)
	y, err := x.Dir("y")
	require.NoError(t, err)
	_, err = y.File("one", []byte("1"), nil)
	require.NoError(t, err)

	other := NewDirectory("x", nil)
	oy, err := other.Dir("y")
	require.NoError(t, err)
	_, err = oy.File("one", []byte("changed"), nil)
	require.NoError(t, err)
	_, err = oy.File("two", []byte("2"), nil)
	require.NoError(t, err)

	_, err = root.Append(other, MergeWith(Skip))
	require.NoError(t, err)
	require.Equal(t, 1, root.Len())

	data, err := root.Read("x/y/one")
	require.NoError(t, err)
	require.Equal(t, "1", string(data))
	data, err = root.Read("x/y/two")
	require.NoError(t, err)
	require.Equal(t, "2", string(data))
}

func TestAppend_Cloning(t *testing.T) {
	src := NewFile("f", []byte("abc"), Attributes{"padding": 32})
	root := NewDirectory("", nil)
	n, err := root.Append(src, Cloning())
	require.NoError(t, err)
	require.NotSame(t, src, n)
	require.Nil(t, src.Parent())

	n.(*File).Data()[0] = 'X'
	n.SetAttr("padding", 0)
	require.Equal(t, "abc", string(src.Data()))
	require.Equal(t, 32, src.Attrs()["padding"])
}

func TestSearchAndRead(t *testing.T) {
	root := sample(t)

	require.Nil(t, root.Search("missing"))
	require.Nil(t, root.Search("c.bin/deeper"))
	require.Same(t, root, root.Search(""))
	require.Equal(t, "b.txt", root.Search("/a//./b.txt").Name())

	data, err := root.Read("a/b.txt")
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))

	_, err = root.Read("a")
	require.ErrorIs(t, err, ErrMissingFile)
	_, err = root.Read("nope")
	require.ErrorIs(t, err, ErrMissingFile)
	require.Equal(t, CodeMissingFile, types.CodeOf(err))
}

func TestRemoveAndClear(t *testing.T) {
	root := sample(t)
	a := root.Search("a")

	require.Equal(t, 1, root.Remove("a", "nope"))
	require.Nil(t, a.Parent())
	require.Equal(t, 1, root.Len())

	c := root.Search("c.bin")
	root.Clear()
	require.Equal(t, 0, root.Len())
	require.Nil(t, c.Parent())
}

func TestFlattenFilesFindWalk(t *testing.T) {
	root := sample(t)

	var names []string
	for _, n := range root.Flatten() {
		names = append(names, n.Name())
	}
	require.Equal(t, []string{"", "a", "b.txt", "c.bin"}, names)

	files := root.Files()
	require.Len(t, files, 2)
	require.Equal(t, "a/b.txt", files[0].Path())

	require.Equal(t, "c.bin", root.Find(func(n Node) bool { return n.Kind() == KindFile }).Name())
	require.Nil(t, root.Find(func(Node) bool { return false }))

	stop := errors.New("stop")
	seen := 0
	err := root.Walk(func(n Node) error {
		seen++
		if n.Name() == "b.txt" {
			return stop
		}
		return nil
	})
	require.ErrorIs(t, err, stop)
	require.Equal(t, 3, seen)
}

func TestCloneAndEqual(t *testing.T) {
	root := sample(t)
	clone := root.Clone().(*Directory)

	require.True(t, Equal(root, clone))
	require.Nil(t, clone.Parent())
	require.Same(t, clone, clone.Search("a").Parent())

	clone.Search("a/b.txt").(*File).SetData([]byte("HELLO"))
	require.False(t, Equal(root, clone))
	require.Equal(t, "hello", string(root.Search("a/b.txt").(*File).Data()))

	require.False(t, Equal(root, NewDirectory("", nil)))
	require.False(t, Equal(NewFile("x", nil, nil), NewDirectory("x", nil)))
	require.True(t, Equal(nil, nil))
	require.False(t, Equal(root, nil))

	reordered := NewDirectory("", nil)
	_, err := reordered.Append(root.Search("c.bin").Clone())
	require.NoError(t, err)
	_, err = reordered.Append(root.Search("a").Clone())
	require.NoError(t, err)
	require.False(t, Equal(root, reordered), "child order matters")
}

func TestTree(t *testing.T) {
	root := sample(t)
	want := "> (root) (2 items)\n" +
		"  > a (1 items)\n" +
		"    - b.txt (5 bytes)\n" +
		"  - c.bin (3 bytes)\n"
	require.Equal(t, want, TreeString(root))

	sub := NewDirectory("", nil)
	_, err := root.Append(sub, WithMode(Force))
	require.NoError(t, err)
	require.Contains(t, TreeString(root), "  > (unnamed) (0 items)\n")
}

func TestParseAppendMode(t *testing.T) {
	m, err := ParseAppendMode("Merge")
	require.NoError(t, err)
	require.Equal(t, Merge, m)
	require.Equal(t, "replace", Replace.String())

	_, err = ParseAppendMode("overwrite")
	require.ErrorIs(t, err, ErrInvalidArgument)
}
