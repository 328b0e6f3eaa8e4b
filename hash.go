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
	"bytes"
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// Hasher defines the hash function and equivalence relation a Trie needs
// over its key type. Hash need not be collision-free: two unequal keys
// that hash identically are stored together in a collisionNode (see
// leaf.go) rather than corrupting the trie.
type Hasher[K any] interface {
	Hash(key K) uint32
	Equal(a, b K) bool
}

// ComparableHasher is a Hasher for any comparable type. Equal is
// consistent with ==; Hash is derived from maphash.WriteComparable, so it
// requires no per-type boilerplate at the cost of being slower than a
// type-specific hasher such as StringHasher.
type ComparableHasher[K comparable] struct {
	seed maphash.Seed
}

// NewComparableHasher returns a ComparableHasher seeded once for the
// lifetime of the returned value; every Trie built from it must reuse the
// same Hasher so that hashes stay consistent across the trie's lifetime.
func NewComparableHasher[K comparable]() ComparableHasher[K] {
	return ComparableHasher[K]{seed: maphash.MakeSeed()}
}

func (h ComparableHasher[K]) Hash(key K) uint32 {
	var mh maphash.Hash
	mh.SetSeed(h.seed)
	maphash.WriteComparable(&mh, key)
	return uint32(mh.Sum64())
}

func (ComparableHasher[K]) Equal(a, b K) bool {
	return a == b
}

// StringHasher is a Hasher[string] backed by xxhash, which is both faster
// and more thoroughly avalanched than truncating a maphash sum. NewString
// uses it; New keys a string trie with ComparableHasher instead.
type StringHasher struct{}

func (StringHasher) Hash(key string) uint32 {
	return uint32(xxhash.Sum64String(key))
}

func (StringHasher) Equal(a, b string) bool {
	return a == b
}

// BytesHasher is a Hasher[[]byte] backed by xxhash.
type BytesHasher struct{}

func (BytesHasher) Hash(key []byte) uint32 {
	return uint32(xxhash.Sum64(key))
}

func (BytesHasher) Equal(a, b []byte) bool {
	return bytes.Equal(a, b)
}
