package ir

import (
	art "github.com/kralicky/go-adaptive-radix-tree"
)

// File is the IR's top-level container: an ordered list of item names
// backed by a prefix tree keyed by symbol name. It offers lookup by exact
// name (Get, used by the evaluator's Named lookups) and listing in
// declaration order (Order, Items); it has no prefix query.
type File struct {
	tree  art.Tree
	order []Symbol

	// Asserts holds top-level (file-scope) assertions, which have no name
	// of their own and so cannot live in the symbol tree.
	Asserts []*AssertionItem

	// Endian is the most recent top-level `set_endianness(little|big);`
	// directive (nil if the file has none), establishing the ambient
	// default endianness every entry point starts evaluation with.
	Endian *SetEndian
}

// NewFile creates an empty File ready to receive items via Put.
func NewFile() *File {
	return &File{tree: art.New()}
}

// Put inserts or replaces the item named sym. Lowering calls this for
// every top-level struct/type-alias declaration; per spec.md §4.4,
// duplicate names are recorded as a lowering diagnostic but the map keeps
// "last one wins" so the rest of the pipeline still has something to walk.
func (f *File) Put(sym Symbol, item Item) (previous Item, hadPrevious bool) {
	old, updated := f.tree.Insert(art.Key(sym), item)
	if !updated {
		f.order = append(f.order, sym)
	}
	if old == nil {
		return nil, false
	}
	return old.(Item), true
}

// Get looks up an item by symbol.
func (f *File) Get(sym Symbol) (Item, bool) {
	v, found := f.tree.Search(art.Key(sym))
	if !found {
		return nil, false
	}
	return v.(Item), true
}

// Order returns top-level item names in declaration order (first
// declaration wins the position even if a later duplicate replaces the
// value, so diagnostics about the duplicate still point at a stable spot).
func (f *File) Order() []Symbol { return f.order }

// Items returns every top-level item, in declaration order.
func (f *File) Items() []Item {
	out := make([]Item, 0, len(f.order))
	for _, sym := range f.order {
		if it, ok := f.Get(sym); ok {
			out = append(out, it)
		}
	}
	return out
}

// Len reports the number of distinct top-level names.
func (f *File) Len() int { return f.tree.Size() }
