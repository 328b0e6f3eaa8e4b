/*
Copyright 2015 Workiva, LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

 http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package ctrie

import (
	"fmt"
	"iter"
	"reflect"
	"strings"
	"sync/atomic"
)

// Trie is a concurrent, lock-free, ordered hash-array-mapped trie. The
// zero value is not usable; construct one with New, NewWithHasher,
// NewString or NewBytes.
//
// Every exported method is safe for concurrent use by multiple
// goroutines, including concurrently with Snapshot and with operations
// on any snapshot it returns.
type Trie[K, V any] struct {
	root atomic.Pointer[iNode[K, V]]
	size atomic.Int64

	hasher     Hasher[K]
	valueEqual func(a, b V) bool
	readOnly   bool
}

// New returns an empty Trie keyed on a comparable type, hashing keys
// with a ComparableHasher.
func New[K comparable, V any]() *Trie[K, V] {
	return NewWithHasher[K, V](NewComparableHasher[K]())
}

// NewWithHasher returns an empty Trie using the supplied Hasher, for key
// types that are not comparable, or for which a faster or
// collision-resistant hash than ComparableHasher's is available.
func NewWithHasher[K, V any](hasher Hasher[K]) *Trie[K, V] {
	t := &Trie[K, V]{
		hasher: hasher,
		valueEqual: func(a, b V) bool {
			return reflect.DeepEqual(a, b)
		},
	}
	t.root.Store(newINode[K, V](&mainNode[K, V]{branch: &cNode[K, V]{}}, newGeneration()))
	return t
}

// NewString returns an empty Trie keyed on string, hashing keys with
// StringHasher.
func NewString[V any]() *Trie[string, V] {
	return NewWithHasher[string, V](StringHasher{})
}

// NewBytes returns an empty Trie keyed on []byte, hashing keys with
// BytesHasher.
func NewBytes[V any]() *Trie[[]byte, V] {
	return NewWithHasher[[]byte, V](BytesHasher{})
}

func (t *Trie[K, V]) assertReadWrite() {
	if t.readOnly {
		panic(ErrReadOnly)
	}
}

// safeHash rejects a nil interface key with an *InvalidKeyError, and
// converts a panic raised while hashing key (the only way a user-supplied
// Hasher can fail, e.g. on an interface key whose dynamic type is not
// actually comparable) into an *InvalidKeyError.
func (t *Trie[K, V]) safeHash(key K) (h uint32, err error) {
	if any(key) == nil {
		return 0, &InvalidKeyError{Reason: "nil key"}
	}
	defer func() {
		if r := recover(); r != nil {
			err = &InvalidKeyError{Reason: fmt.Sprint(r)}
		}
	}()
	h = t.hasher.Hash(key)
	return h, nil
}

// Lookup returns the value associated with key, if any. It never blocks
// on other goroutines' Insert or Remove calls.
func (t *Trie[K, V]) Lookup(key K) (Optional[V], error) {
	hash, err := t.safeHash(key)
	if err != nil {
		return Optional[V]{}, err
	}
	for {
		root := readRoot(t, false)
		result, ok := lookupRec(root, hash, key, 0, nil, root.gen, t)
		if ok {
			return result, nil
		}
	}
}

func lookupRec[K, V any](i *iNode[K, V], hash uint32, key K, level uint, parent *iNode[K, V], startGen *generation, t *Trie[K, V]) (Optional[V], bool) {
	m := gcasRead(i, t)
	switch {
	case m.branch != nil:
		cn := m.branch
		flag, pos := flagPos(hash, level, cn.bitmap)
		if cn.bitmap&flag == 0 {
			return absent[V](), true
		}
		switch br := cn.array[pos].(type) {
		case *iNode[K, V]:
			if t.readOnly || br.gen == startGen {
				return lookupRec(br, hash, key, level+w, i, startGen, t)
			}
			if gcas(i, m, &mainNode[K, V]{branch: cn.renewed(startGen, t)}, t) {
				return lookupRec(i, hash, key, level, parent, startGen, t)
			}
			return absent[V](), false
		case *singleton[K, V]:
			if br.hash == hash && t.hasher.Equal(br.key, key) {
				return present(br.value), true
			}
			return absent[V](), true
		}
		return absent[V](), true
	case m.tomb != nil:
		return cleanReadOnly(m.tomb, hash, key, level, parent, t)
	case m.collision != nil:
		if e, ok := m.collision.find(t.hasher, key); ok {
			return present(e.value), true
		}
		return absent[V](), true
	}
	return absent[V](), true
}

// cleanReadOnly resolves a Tomb encountered by a lookup. On a read-write
// trie, a reachable Tomb means a previous remove finished its GCAS but the
// eager cleanParent folding it into the grandparent has not (yet) run;
// clean the parent and have the caller restart. On a read-only snapshot,
// cleanParent must never run (it would mutate the frozen structure through
// a GCAS that is doomed to roll back anyway, since gcasComplete never
// commits on a read-only trie), so the Tomb's own entry is compared
// directly against the sought key instead.
func cleanReadOnly[K, V any](tomb *tombNode[K, V], hash uint32, key K, level uint, parent *iNode[K, V], t *Trie[K, V]) (Optional[V], bool) {
	if !t.readOnly {
		if parent != nil {
			clean(parent, t, level-w)
		}
		return absent[V](), false
	}
	entry := tomb.entry
	if entry.hash == hash && t.hasher.Equal(entry.key, key) {
		return present(entry.value), true
	}
	return absent[V](), true
}

// Insert associates key with value. If an entry already exists for key
// and onlyIfAbsent is true, the trie is left unmodified and the existing
// value is returned as InsertResult.Previous with Existed set. If
// onlyIfAbsent is false, any existing value is overwritten and returned
// the same way.
func (t *Trie[K, V]) Insert(key K, value V, onlyIfAbsent bool) (InsertResult[V], error) {
	t.assertReadWrite()
	hash, err := t.safeHash(key)
	if err != nil {
		return InsertResult[V]{}, err
	}
	for {
		root := readRoot(t, false)
		result, ok := insertRec(root, hash, key, value, onlyIfAbsent, 0, nil, root.gen, t)
		if ok {
			if !result.Existed {
				t.size.Add(1)
			}
			return result, nil
		}
	}
}

func insertRec[K, V any](i *iNode[K, V], hash uint32, key K, value V, onlyIfAbsent bool, level uint, parent *iNode[K, V], startGen *generation, t *Trie[K, V]) (InsertResult[V], bool) {
	m := gcasRead(i, t)
	switch {
	case m.branch != nil:
		cn := m.branch
		flag, pos := flagPos(hash, level, cn.bitmap)
		if cn.bitmap&flag == 0 {
			sn := &singleton[K, V]{hash: hash, key: key, value: value}
			if gcas(i, m, &mainNode[K, V]{branch: cn.inserted(flag, pos, sn)}, t) {
				return InsertResult[V]{}, true
			}
			return InsertResult[V]{}, false
		}
		switch br := cn.array[pos].(type) {
		case *iNode[K, V]:
			if br.gen == startGen {
				return insertRec(br, hash, key, value, onlyIfAbsent, level+w, i, startGen, t)
			}
			if gcas(i, m, &mainNode[K, V]{branch: cn.renewed(startGen, t)}, t) {
				return insertRec(i, hash, key, value, onlyIfAbsent, level, parent, startGen, t)
			}
			return InsertResult[V]{}, false
		case *singleton[K, V]:
			if br.hash == hash && t.hasher.Equal(br.key, key) {
				if onlyIfAbsent {
					return InsertResult[V]{Previous: br.value, Existed: true}, true
				}
				nsn := &singleton[K, V]{hash: hash, key: key, value: value}
				if gcas(i, m, &mainNode[K, V]{branch: cn.updated(pos, nsn)}, t) {
					return InsertResult[V]{Previous: br.value, Existed: true}, true
				}
				return InsertResult[V]{}, false
			}
			nsn := &singleton[K, V]{hash: hash, key: key, value: value}
			sub := dualCNode[K, V](br, nsn, level+w, i.gen)
			if gcas(i, m, &mainNode[K, V]{branch: cn.updated(pos, sub)}, t) {
				return InsertResult[V]{}, true
			}
			return InsertResult[V]{}, false
		}
		return InsertResult[V]{}, false
	case m.tomb != nil:
		if parent != nil {
			clean(parent, t, level-w)
		}
		return InsertResult[V]{}, false
	case m.collision != nil:
		if existing, ok := m.collision.find(t.hasher, key); ok && onlyIfAbsent {
			return InsertResult[V]{Previous: existing.value, Existed: true}, true
		}
		ncoll, prev, existed := m.collision.inserted(t.hasher, key, value)
		if gcas(i, m, &mainNode[K, V]{collision: ncoll}, t) {
			return InsertResult[V]{Previous: prev, Existed: existed}, true
		}
		return InsertResult[V]{}, false
	}
	return InsertResult[V]{}, false
}

// Remove deletes the entry for key. If a witness value is supplied, the
// entry is only removed if its current value equals witness[0] (compared
// with reflect.DeepEqual), giving a compare-and-remove primitive; at
// most one witness value is meaningful and any beyond the first are
// ignored.
func (t *Trie[K, V]) Remove(key K, witness ...V) (RemoveResult[V], error) {
	t.assertReadWrite()
	hash, err := t.safeHash(key)
	if err != nil {
		return RemoveResult[V]{}, err
	}
	var w V
	hasWitness := len(witness) > 0
	if hasWitness {
		w = witness[0]
	}
	for {
		root := readRoot(t, false)
		result, ok := removeRec(root, hash, key, w, hasWitness, 0, nil, root.gen, t)
		if ok {
			if result.Removed {
				t.size.Add(-1)
			}
			return result, nil
		}
	}
}

func removeRec[K, V any](i *iNode[K, V], hash uint32, key K, witness V, hasWitness bool, level uint, parent *iNode[K, V], startGen *generation, t *Trie[K, V]) (RemoveResult[V], bool) {
	m := gcasRead(i, t)
	switch {
	case m.branch != nil:
		cn := m.branch
		flag, pos := flagPos(hash, level, cn.bitmap)
		if cn.bitmap&flag == 0 {
			return RemoveResult[V]{}, true
		}
		switch br := cn.array[pos].(type) {
		case *iNode[K, V]:
			if br.gen != startGen {
				if gcas(i, m, &mainNode[K, V]{branch: cn.renewed(startGen, t)}, t) {
					return removeRec(i, hash, key, witness, hasWitness, level, parent, startGen, t)
				}
				return RemoveResult[V]{}, false
			}
			return removeRec(br, hash, key, witness, hasWitness, level+w, i, startGen, t)
		case *singleton[K, V]:
			if br.hash != hash || !t.hasher.Equal(br.key, key) {
				return RemoveResult[V]{}, true
			}
			if hasWitness && !t.valueEqual(br.value, witness) {
				return RemoveResult[V]{}, true
			}
			newMain := contract(cn.removed(flag, pos), level)
			if !gcas(i, m, newMain, t) {
				return RemoveResult[V]{}, false
			}
			if parent != nil {
				if after := gcasRead(i, t); after.tomb != nil {
					cleanParent(parent, i, hash, level-w, t, startGen)
				}
			}
			return RemoveResult[V]{Value: br.value, Removed: true}, true
		}
		return RemoveResult[V]{}, false
	case m.tomb != nil:
		if parent != nil {
			clean(parent, t, level-w)
		}
		return RemoveResult[V]{}, false
	case m.collision != nil:
		existing, ok := m.collision.find(t.hasher, key)
		if !ok {
			return RemoveResult[V]{}, true
		}
		if hasWitness && !t.valueEqual(existing.value, witness) {
			return RemoveResult[V]{}, true
		}
		ncoll, val, removed := m.collision.removed(t.hasher, key)
		var newMain *mainNode[K, V]
		if len(ncoll.entries) == 1 {
			// A collision leaf with a single entry left is no longer
			// distinguishing anything; fold it into a Tomb so cleanParent
			// resurrects it into the parent as a plain Singleton, exactly
			// as it would for an ordinary single-entry cNode.
			newMain = &mainNode[K, V]{tomb: &tombNode[K, V]{entry: ncoll.entries[0]}}
		} else {
			newMain = &mainNode[K, V]{collision: ncoll}
		}
		if !gcas(i, m, newMain, t) {
			return RemoveResult[V]{}, false
		}
		if parent != nil {
			if after := gcasRead(i, t); after.tomb != nil {
				cleanParent(parent, i, hash, level-w, t, startGen)
			}
		}
		return RemoveResult[V]{Value: val, Removed: removed}, true
	}
	return RemoveResult[V]{}, false
}

// Snapshot returns a new, independent Trie holding the same entries as t
// at the instant Snapshot returns, in O(1) time and space regardless of
// t's size. Subsequent mutation of either t or the returned trie is
// invisible to the other; both lazily copy shared substructure the first
// time a write needs to descend through it.
func (t *Trie[K, V]) Snapshot() *Trie[K, V] {
	return t.snapshot(false)
}

// ReadOnlySnapshot is like Snapshot, but the returned Trie panics with
// ErrReadOnly on any call to Insert or Remove. Because it can never be
// written to, it never needs to copy substructure on first write either,
// making it strictly cheaper to operate on than a read-write snapshot.
func (t *Trie[K, V]) ReadOnlySnapshot() *Trie[K, V] {
	return t.snapshot(true)
}

func (t *Trie[K, V]) snapshot(readOnly bool) *Trie[K, V] {
	for {
		r := readRoot(t, false)
		expMain := gcasRead(r, t)
		if rdcssRoot(t, r, expMain, r.copyToGen(newGeneration(), t)) {
			snap := &Trie[K, V]{hasher: t.hasher, valueEqual: t.valueEqual, readOnly: readOnly}
			snap.root.Store(r.copyToGen(newGeneration(), t))
			snap.size.Store(t.size.Load())
			return snap
		}
	}
}

// Clear removes every entry from t, resetting it to an empty trie in a
// fresh generation.
func (t *Trie[K, V]) Clear() {
	t.assertReadWrite()
	t.root.Store(newINode[K, V](&mainNode[K, V]{branch: &cNode[K, V]{}}, newGeneration()))
	t.size.Store(0)
}

// Size returns the number of entries currently in t. It is tracked by an
// atomic counter maintained alongside Insert and Remove, so it is O(1)
// rather than requiring a traversal.
func (t *Trie[K, V]) Size() int {
	return int(t.size.Load())
}

// IsEmpty reports whether t currently has no entries.
func (t *Trie[K, V]) IsEmpty() bool {
	return t.size.Load() == 0
}

// Traverse returns a Cursor that walks every entry in t once, in an
// unspecified order, over a stable point-in-time view. If t is not
// already read-only, Traverse first takes a ReadOnlySnapshot of it (an
// O(1) clone) and walks that instead, so the cursor is never perturbed
// by concurrent mutation of t; taking that snapshot is a no-op when t is
// already read-only.
func (t *Trie[K, V]) Traverse() *Cursor[K, V] {
	if !t.readOnly {
		t = t.ReadOnlySnapshot()
	}
	return newCursor(t)
}

// Keys returns an iterator over every key in t, in an unspecified order.
func (t *Trie[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		c := t.Traverse()
		for c.Next() {
			if !yield(c.Key()) {
				return
			}
		}
	}
}

// Values returns an iterator over every value in t, in an unspecified
// order.
func (t *Trie[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		c := t.Traverse()
		for c.Next() {
			if !yield(c.Value()) {
				return
			}
		}
	}
}

// All returns an iterator over every key/value pair in t, in an
// unspecified order.
func (t *Trie[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		c := t.Traverse()
		for c.Next() {
			if !yield(c.Key(), c.Value()) {
				return
			}
		}
	}
}

func (t *Trie[K, V]) String() string {
	var b strings.Builder
	b.WriteString("ctrie.Trie{")
	c := t.Traverse()
	first := true
	for c.Next() {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%v: %v", c.Key(), c.Value())
	}
	b.WriteString("}")
	return b.String()
}
