// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"slices"
	"strings"
)

// CitedKey aggregates every citation of one key across the document. Its
// lookup result, number and unique letter are shared by all citations in
// Where; the Store keeps them in agreement by distributing through Where.
type CitedKey struct {
	Key string

	// Where lists the citations of this key in traversal order. Each path
	// appears once since every citation is visited once per traversal.
	Where []Path

	Lookup       *LookupResult
	Number       int
	UniqueLetter string

	// NormalizedMarker is the author-year marker without unique letter or
	// page info, used to detect clashes. Empty for unresolved keys.
	NormalizedMarker string
}

// IsResolved reports whether the key has a database entry.
func (k *CitedKey) IsResolved() bool { return k.Lookup != nil }

// CitedKeys is an ordered map from citation key to CitedKey. Iteration
// follows insertion order; adding a path to an existing key never moves it.
type CitedKeys struct {
	order []string
	byKey map[string]*CitedKey
}

func newCitedKeys() *CitedKeys {
	return &CitedKeys{byKey: make(map[string]*CitedKey)}
}

func (c *CitedKeys) add(p Path, cit Citation) {
	if ck, ok := c.byKey[cit.key]; ok {
		ck.Where = append(ck.Where, p)
		return
	}
	c.byKey[cit.key] = &CitedKey{
		Key:          cit.key,
		Where:        []Path{p},
		Lookup:       cit.lookup,
		Number:       cit.number,
		UniqueLetter: cit.uniqueLetter,
	}
	c.order = append(c.order, cit.key)
}

// Len returns the number of distinct keys.
func (c *CitedKeys) Len() int { return len(c.order) }

// Keys returns the citation keys in order.
func (c *CitedKeys) Keys() []string { return slices.Clone(c.order) }

// Get returns the CitedKey for key.
func (c *CitedKeys) Get(key string) (*CitedKey, bool) {
	ck, ok := c.byKey[key]
	return ck, ok
}

// Values returns the CitedKeys in order.
func (c *CitedKeys) Values() []*CitedKey {
	out := make([]*CitedKey, len(c.order))
	for i, k := range c.order {
		out[i] = c.byKey[k]
	}
	return out
}

// SortByComparator reorders the keys: resolved entries by cmp, then
// unresolved keys by key. Equal entries keep their current order.
func (c *CitedKeys) SortByComparator(cmp EntryComparator) {
	slices.SortStableFunc(c.order, func(a, b string) int {
		ka, kb := c.byKey[a], c.byKey[b]
		switch {
		case ka.Lookup == nil && kb.Lookup == nil:
			return strings.Compare(a, b)
		case ka.Lookup == nil:
			return 1
		case kb.Lookup == nil:
			return -1
		}
		return cmp(ka.Lookup.Entry, kb.Lookup.Entry)
	})
}

// numberInCurrentOrder assigns 1..N to resolved keys in order. Unresolved
// keys get no number.
func (c *CitedKeys) numberInCurrentOrder() {
	n := 1
	for _, k := range c.order {
		ck := c.byKey[k]
		if ck.Lookup == nil {
			ck.Number = 0
			continue
		}
		ck.Number = n
		n++
	}
}
