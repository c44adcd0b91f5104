package gosymcore

import "slices"

// ============================================================
// Dict — map keyed by structural equality
// ============================================================

// Entry is one key/value pair of a Dict.
type Entry[V any] struct {
	Key   Basic
	Value V
}

// Dict maps nodes to values using Hash and Eq. Iteration follows
// insertion order, with Delete moving the last entry into the hole, so
// it is deterministic for a given sequence of operations.
//
// A Dict is working data: it is not safe for concurrent mutation, and a
// Dict handed to a from-dict constructor belongs to the node built from it.
type Dict[V any] struct {
	entries []Entry[V]
	index   map[uint64][]int
}

// NewDict returns an empty Dict sized for n entries.
func NewDict[V any](n int) *Dict[V] {
	return &Dict[V]{
		entries: make([]Entry[V], 0, n),
		index:   make(map[uint64][]int, n),
	}
}

// Len returns the number of entries. A nil Dict is empty.
func (d *Dict[V]) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

func (d *Dict[V]) find(k Basic) (uint64, int) {
	h := k.Hash()
	for _, i := range d.index[h] {
		if Eq(d.entries[i].Key, k) {
			return h, i
		}
	}
	return h, -1
}

// Get returns the value stored under k.
func (d *Dict[V]) Get(k Basic) (V, bool) {
	if d.Len() == 0 {
		var zero V
		return zero, false
	}
	if _, i := d.find(k); i >= 0 {
		return d.entries[i].Value, true
	}
	var zero V
	return zero, false
}

// Has reports whether k is present.
func (d *Dict[V]) Has(k Basic) bool {
	_, ok := d.Get(k)
	return ok
}

// Set inserts k or overwrites its value.
func (d *Dict[V]) Set(k Basic, v V) {
	h, i := d.find(k)
	if i >= 0 {
		d.entries[i].Value = v
		return
	}
	d.entries = append(d.entries, Entry[V]{Key: k, Value: v})
	d.index[h] = append(d.index[h], len(d.entries)-1)
}

// Delete removes k if present.
func (d *Dict[V]) Delete(k Basic) {
	h, i := d.find(k)
	if i < 0 {
		return
	}
	d.unindex(h, i)
	last := len(d.entries) - 1
	if i != last {
		moved := d.entries[last]
		d.entries[i] = moved
		bucket := d.index[moved.Key.Hash()]
		for j, p := range bucket {
			if p == last {
				bucket[j] = i
				break
			}
		}
	}
	d.entries[last] = Entry[V]{}
	d.entries = d.entries[:last]
}

func (d *Dict[V]) unindex(h uint64, pos int) {
	bucket := d.index[h]
	for j, p := range bucket {
		if p == pos {
			bucket = slices.Delete(bucket, j, j+1)
			break
		}
	}
	if len(bucket) == 0 {
		delete(d.index, h)
		return
	}
	d.index[h] = bucket
}

// Range calls fn for every entry until fn returns false. fn must not
// modify d.
func (d *Dict[V]) Range(fn func(k Basic, v V) bool) {
	if d == nil {
		return
	}
	for _, e := range d.entries {
		if !fn(e.Key, e.Value) {
			return
		}
	}
}

// Entries returns a copy of the entries in iteration order.
func (d *Dict[V]) Entries() []Entry[V] {
	if d == nil {
		return nil
	}
	return slices.Clone(d.entries)
}

// Clone returns an independent copy. Keys and values are shared, which
// is safe because nodes are immutable.
func (d *Dict[V]) Clone() *Dict[V] {
	c := &Dict[V]{
		entries: make([]Entry[V], len(d.entries), len(d.entries)+1),
		index:   make(map[uint64][]int, len(d.index)),
	}
	copy(c.entries, d.entries)
	for h, b := range d.index {
		c.index[h] = slices.Clone(b)
	}
	return c
}

// Sorted returns the entries ordered by Compare on their keys.
func (d *Dict[V]) Sorted() []Entry[V] {
	out := d.Entries()
	slices.SortFunc(out, func(a, b Entry[V]) int { return Compare(a.Key, b.Key) })
	return out
}

// ============================================================
// Dictionary utilities
// ============================================================

// MapsEqual reports whether a and b hold the same keys with equal values.
func MapsEqual[V Basic](a, b *Dict[V]) bool {
	if a.Len() != b.Len() {
		return false
	}
	eq := true
	a.Range(func(k Basic, v V) bool {
		w, ok := b.Get(k)
		eq = ok && Eq(v, w)
		return eq
	})
	return eq
}

// MapsCompare orders dictionaries: smaller first, then lexicographically
// over (key, value) pairs sorted by key.
func MapsCompare[V Basic](a, b *Dict[V]) int {
	if la, lb := a.Len(), b.Len(); la != lb {
		if la < lb {
			return -1
		}
		return 1
	}
	return compareSortedEntries(a.Sorted(), b.Sorted())
}

func compareSortedEntries[V Basic](sa, sb []Entry[V]) int {
	for i := range sa {
		if c := Compare(sa[i].Key, sb[i].Key); c != 0 {
			return c
		}
		if c := Compare(sa[i].Value, sb[i].Value); c != 0 {
			return c
		}
	}
	return 0
}

// hashEntries folds the entries of d into seed. Each entry is hashed on
// its own and XORed in, so iteration order does not matter.
func hashEntries[V Basic](seed *uint64, d *Dict[V]) {
	d.Range(func(k Basic, v V) bool {
		temp := k.Hash()
		hashCombine(&temp, v.Hash())
		*seed ^= temp
		return true
	})
}
