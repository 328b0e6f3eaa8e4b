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

import "sync/atomic"

// branchNode is either an *iNode[K, V] or a *singleton[K, V]: the two
// shapes a slot in a cNode's dense array may hold.
type branchNode interface {
	isBranch()
}

// iNode is an indirection node: the sole mutable structural element of the
// trie. It remains present as nodes above and below it change; thread
// safety is achieved by performing CAS on the I-node's main pointer
// instead of on the branch array directly.
type iNode[K, V any] struct {
	main atomic.Pointer[mainNode[K, V]]
	gen  *generation

	// rdcss holds an in-flight RDCSS descriptor when this iNode value is
	// standing in for one in the trie's root slot. A nil rdcss means the
	// value is an ordinary I-node. See rdcss.go.
	rdcss *rdcssDescriptor[K, V]
}

func (*iNode[K, V]) isBranch() {}

func newINode[K, V any](main *mainNode[K, V], gen *generation) *iNode[K, V] {
	n := &iNode[K, V]{gen: gen}
	n.main.Store(main)
	return n
}

// copyToGen returns a copy of this I-node re-anchored to gen, with its
// current (GCAS-committed) main content. This is the "renew" primitive:
// it does not copy anything below the main pointer, so renewal remains
// O(1) regardless of subtree size.
func (n *iNode[K, V]) copyToGen(gen *generation, t *Trie[K, V]) *iNode[K, V] {
	nin := &iNode[K, V]{gen: gen}
	main := gcasRead(n, t)
	nin.main.Store(main)
	return nin
}

// mainNode is the sum of CNode, Tomb, and Collision-leaf variants that an
// I-node's main pointer may reference, plus the Failed wrapper and the
// prev field used exclusively by GCAS (§4.3).
type mainNode[K, V any] struct {
	branch    *cNode[K, V]
	tomb      *tombNode[K, V]
	collision *collisionNode[K, V]
	failed    *mainNode[K, V]

	// prev is non-nil while a GCAS on the owning I-node is in flight or
	// has been rolled back. gcasRead/gcasComplete drive it to nil
	// (committed) or to a *mainNode wrapping the prior value in its
	// failed field (aborted).
	prev atomic.Pointer[mainNode[K, V]]
}
