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
	"sort"
	"strconv"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"
)

func TestInsertLookupEmpty(t *testing.T) {
	c := qt.New(t)
	trie := New[string, int]()
	c.Assert(trie.Size(), qt.Equals, 0)
	c.Assert(trie.IsEmpty(), qt.IsTrue)

	res, err := trie.Insert("a", 1, false)
	c.Assert(err, qt.IsNil)
	c.Assert(res.Existed, qt.IsFalse)

	got, err := trie.Lookup("a")
	c.Assert(err, qt.IsNil)
	v, ok := got.Get()
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, 1)
	c.Assert(trie.Size(), qt.Equals, 1)
}

func TestRoundTripLaws(t *testing.T) {
	c := qt.New(t)
	trie := New[string, int]()

	// insert(k,v); lookup(k) == Present(v)
	_, err := trie.Insert("k", 42, false)
	c.Assert(err, qt.IsNil)
	got, _ := trie.Lookup("k")
	v, ok := got.Get()
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, 42)

	// insert(k,v); remove(k); lookup(k) == Absent
	rr, err := trie.Remove("k")
	c.Assert(err, qt.IsNil)
	c.Assert(rr.Removed, qt.IsTrue)
	c.Assert(rr.Value, qt.Equals, 42)
	got, _ = trie.Lookup("k")
	c.Assert(got.IsPresent(), qt.IsFalse)

	// insert(k,v); insert(k,w, onlyIfAbsent=true); lookup(k) == Present(v)
	_, err = trie.Insert("k2", 1, false)
	c.Assert(err, qt.IsNil)
	ir, err := trie.Insert("k2", 2, true)
	c.Assert(err, qt.IsNil)
	c.Assert(ir.Existed, qt.IsTrue)
	c.Assert(ir.Previous, qt.Equals, 1)
	got, _ = trie.Lookup("k2")
	v, _ = got.Get()
	c.Assert(v, qt.Equals, 1)
}

func TestOnlyIfAbsentOverwrite(t *testing.T) {
	c := qt.New(t)
	trie := New[string, int]()
	trie.Insert("k", 1, false)
	ir, err := trie.Insert("k", 2, false)
	c.Assert(err, qt.IsNil)
	c.Assert(ir.Existed, qt.IsTrue)
	c.Assert(ir.Previous, qt.Equals, 1)
	got, _ := trie.Lookup("k")
	v, _ := got.Get()
	c.Assert(v, qt.Equals, 2)
}

func TestInsertManyThenLookupAll(t *testing.T) {
	c := qt.New(t)
	trie := New[string, int]()
	const n = 20000
	for i := 0; i < n; i++ {
		_, err := trie.Insert(strconv.Itoa(i), i, false)
		c.Assert(err, qt.IsNil)
	}
	c.Assert(trie.Size(), qt.Equals, n)

	for i := 0; i < n; i++ {
		got, err := trie.Lookup(strconv.Itoa(i))
		c.Assert(err, qt.IsNil)
		v, ok := got.Get()
		c.Assert(ok, qt.IsTrue)
		c.Assert(v, qt.Equals, i)
	}

	seen := map[int]bool{}
	cur := trie.Snapshot().Traverse()
	for cur.Next() {
		key, err := strconv.Atoi(cur.Key())
		c.Assert(err, qt.IsNil)
		seen[key] = true
	}
	c.Assert(len(seen), qt.Equals, n)
}

func TestHashCollision(t *testing.T) {
	c := qt.New(t)
	trie := NewWithHasher[int, string](constantHasher{})

	_, err := trie.Insert(1, "one", false)
	c.Assert(err, qt.IsNil)
	_, err = trie.Insert(2, "two", false)
	c.Assert(err, qt.IsNil)

	got, _ := trie.Lookup(1)
	v, ok := got.Get()
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, "one")

	got, _ = trie.Lookup(2)
	v, ok = got.Get()
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, "two")

	rr, err := trie.Remove(1)
	c.Assert(err, qt.IsNil)
	c.Assert(rr.Removed, qt.IsTrue)

	got, _ = trie.Lookup(2)
	c.Assert(got.IsPresent(), qt.IsTrue)
	got, _ = trie.Lookup(1)
	c.Assert(got.IsPresent(), qt.IsFalse)
}

func TestSnapshotIsolation(t *testing.T) {
	c := qt.New(t)
	trie := New[string, int]()
	const n = 200
	for i := 0; i < n; i++ {
		trie.Insert(strconv.Itoa(i), i, false)
	}

	snap := trie.ReadOnlySnapshot()

	for i := 0; i < n/2; i++ {
		trie.Remove(strconv.Itoa(i))
	}

	var got []int
	cur := snap.Traverse()
	for cur.Next() {
		got = append(got, cur.Value())
	}
	sort.Ints(got)

	var want []int
	for i := 0; i < n; i++ {
		want = append(want, i)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("snapshot traversal mismatch (-want +got):\n%s", diff)
	}
	c.Assert(trie.Size(), qt.Equals, n-n/2)
}

func TestReadOnlySnapshotPanicsOnWrite(t *testing.T) {
	c := qt.New(t)
	trie := New[string, int]()
	trie.Insert("a", 1, false)
	snap := trie.ReadOnlySnapshot()

	c.Assert(func() { snap.Insert("b", 2, false) }, qt.PanicMatches, ".*read-only.*")
}

func TestClear(t *testing.T) {
	c := qt.New(t)
	trie := New[string, int]()
	trie.Insert("a", 1, false)
	trie.Insert("b", 2, false)
	trie.Clear()
	c.Assert(trie.Size(), qt.Equals, 0)
	got, _ := trie.Lookup("a")
	c.Assert(got.IsPresent(), qt.IsFalse)
}

func TestRemoveWithWitness(t *testing.T) {
	c := qt.New(t)
	trie := New[string, int]()
	trie.Insert("a", 1, false)

	rr, err := trie.Remove("a", 2)
	c.Assert(err, qt.IsNil)
	c.Assert(rr.Removed, qt.IsFalse)

	rr, err = trie.Remove("a", 1)
	c.Assert(err, qt.IsNil)
	c.Assert(rr.Removed, qt.IsTrue)
}

func TestKeysValuesAll(t *testing.T) {
	c := qt.New(t)
	trie := New[string, int]()
	trie.Insert("a", 1, false)
	trie.Insert("b", 2, false)
	trie.Insert("c", 3, false)

	sum := 0
	for range trie.Keys() {
		sum++
	}
	c.Assert(sum, qt.Equals, 3)

	total := 0
	for v := range trie.Values() {
		total += v
	}
	c.Assert(total, qt.Equals, 6)

	pairs := map[string]int{}
	for k, v := range trie.All() {
		pairs[k] = v
	}
	c.Assert(pairs, qt.DeepEquals, map[string]int{"a": 1, "b": 2, "c": 3})
}

func TestInvalidKeyOnUnhashableInterface(t *testing.T) {
	c := qt.New(t)
	trie := New[any, int]()

	_, err := trie.Insert([]int{1, 2, 3}, 1, false)
	c.Assert(err, qt.Not(qt.IsNil))
	var ike *InvalidKeyError
	c.Assert(err, qt.ErrorAs, &ike)
}
