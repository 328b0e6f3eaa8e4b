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

// singleton is a single key/value entry, addressed by its precomputed
// hash so branch lookups never re-hash a key already stored in the trie.
type singleton[K, V any] struct {
	hash  uint32
	key   K
	value V
}

func (*singleton[K, V]) isBranch() {}

// tombNode wraps the sole entry left under a cNode with exactly one
// branch after a remove, so that cleanup can resurrect it directly into
// the parent, keeping the trie's depth proportional to occupancy rather
// than to the number of removes ever performed.
type tombNode[K, V any] struct {
	entry *singleton[K, V]
}

// resurrect returns the branch that should replace the I-node owning tn
// once contraction reaches its parent.
func (tn *tombNode[K, V]) resurrect() *singleton[K, V] {
	return tn.entry
}

// collisionNode holds every entry whose hash is identical, once the trie
// has consumed all bits of the hash without disambiguating them. Lookup,
// insert and remove within it fall back to a linear scan using the
// Hasher's Equal.
type collisionNode[K, V any] struct {
	entries []*singleton[K, V]
}

func (cn *collisionNode[K, V]) find(hasher Hasher[K], key K) (*singleton[K, V], bool) {
	for _, e := range cn.entries {
		if hasher.Equal(e.key, key) {
			return e, true
		}
	}
	return nil, false
}

// inserted returns a new collisionNode with key/value inserted or
// updated, plus the previous value if the key was already present.
func (cn *collisionNode[K, V]) inserted(hasher Hasher[K], key K, value V) (*collisionNode[K, V], V, bool) {
	entries := make([]*singleton[K, V], 0, len(cn.entries)+1)
	var prev V
	var existed bool
	replaced := false
	for _, e := range cn.entries {
		if !replaced && hasher.Equal(e.key, key) {
			prev, existed = e.value, true
			entries = append(entries, &singleton[K, V]{hash: e.hash, key: key, value: value})
			replaced = true
			continue
		}
		entries = append(entries, e)
	}
	if !replaced {
		entries = append(entries, &singleton[K, V]{hash: cn.entries[0].hash, key: key, value: value})
	}
	return &collisionNode[K, V]{entries: entries}, prev, existed
}

// removed returns a new collisionNode without key (possibly holding a
// single entry, which the caller folds into a Tomb), plus the value that
// was removed.
func (cn *collisionNode[K, V]) removed(hasher Hasher[K], key K) (*collisionNode[K, V], V, bool) {
	for i, e := range cn.entries {
		if hasher.Equal(e.key, key) {
			rest := make([]*singleton[K, V], 0, len(cn.entries)-1)
			rest = append(rest, cn.entries[:i]...)
			rest = append(rest, cn.entries[i+1:]...)
			return &collisionNode[K, V]{entries: rest}, e.value, true
		}
	}
	var zero V
	return cn, zero, false
}
