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

import "math/bits"

const (
	// w is the number of hash bits consumed per trie level, giving each
	// cNode a branching factor of 2^w.
	w = 5

	// maxLevel is the deepest a lookup can descend before a further step
	// would consume no additional hash bits at all; beyond it, colliding
	// keys are chained in a collisionNode instead of creating further
	// levels. The 7th step (level 30) still has two meaningful bits (30
	// and 31) left to branch on, so maxLevel is the 8th step, not the
	// 7th: 32 rounded up to the next multiple of w.
	maxLevel = (32/w + 1) * w
)

// cNode is a branch node: a bitmap-compressed sparse array of up to 32
// branches, indexed by 5 bits of a key's hash at the node's level.
type cNode[K, V any] struct {
	bitmap uint32
	array  []branchNode
}

// flagPos returns the single-bit flag for hash at level and the branch's
// position within a bitmap-compressed array that already contains bmp.
func flagPos(hash uint32, level uint, bmp uint32) (flag uint32, pos int) {
	idx := (hash >> level) & 0x1f
	flag = uint32(1) << idx
	pos = bits.OnesCount32(bmp & (flag - 1))
	return flag, pos
}

func newCNode[K, V any](flag uint32, branch branchNode) *cNode[K, V] {
	return &cNode[K, V]{bitmap: flag, array: []branchNode{branch}}
}

// inserted returns a copy of cn with branch added at pos under flag. flag
// must not already be set in cn.bitmap.
func (cn *cNode[K, V]) inserted(flag uint32, pos int, branch branchNode) *cNode[K, V] {
	array := make([]branchNode, len(cn.array)+1)
	copy(array, cn.array[:pos])
	array[pos] = branch
	copy(array[pos+1:], cn.array[pos:])
	return &cNode[K, V]{bitmap: cn.bitmap | flag, array: array}
}

// updated returns a copy of cn with the branch at pos replaced.
func (cn *cNode[K, V]) updated(pos int, branch branchNode) *cNode[K, V] {
	array := make([]branchNode, len(cn.array))
	copy(array, cn.array)
	array[pos] = branch
	return &cNode[K, V]{bitmap: cn.bitmap, array: array}
}

// removed returns a copy of cn without the branch at pos under flag. flag
// must already be set in cn.bitmap.
func (cn *cNode[K, V]) removed(flag uint32, pos int) *cNode[K, V] {
	array := make([]branchNode, len(cn.array)-1)
	copy(array, cn.array[:pos])
	copy(array[pos:], cn.array[pos+1:])
	return &cNode[K, V]{bitmap: cn.bitmap &^ flag, array: array}
}

// renewed returns a copy of cn where every *iNode branch has been
// re-anchored to gen via copyToGen. This is the lazy part of snapshotting:
// it is only ever called on the single cNode a traversal actually visits,
// never eagerly across the whole trie.
func (cn *cNode[K, V]) renewed(gen *generation, t *Trie[K, V]) *cNode[K, V] {
	array := make([]branchNode, len(cn.array))
	for i, b := range cn.array {
		if in, ok := b.(*iNode[K, V]); ok {
			array[i] = in.copyToGen(gen, t)
		} else {
			array[i] = b
		}
	}
	return &cNode[K, V]{bitmap: cn.bitmap, array: array}
}

// dualCNode builds the smallest cNode chain needed to distinguish x from
// y, both of which hash to values that agree on every bit below level.
// When their hashes agree all the way to maxLevel, the two entries are
// combined into a single collisionNode branch instead of descending
// forever.
func dualCNode[K, V any](x, y *singleton[K, V], level uint, gen *generation) branchNode {
	if level >= maxLevel {
		return newINode[K, V](&mainNode[K, V]{collision: &collisionNode[K, V]{entries: []*singleton[K, V]{x, y}}}, gen)
	}
	xIdx := (x.hash >> level) & 0x1f
	yIdx := (y.hash >> level) & 0x1f
	if xIdx == yIdx {
		flag := uint32(1) << xIdx
		sub := dualCNode[K, V](x, y, level+w, gen)
		return newINode[K, V](&mainNode[K, V]{branch: newCNode[K, V](flag, sub)}, gen)
	}
	bmp := (uint32(1) << xIdx) | (uint32(1) << yIdx)
	array := make([]branchNode, 2)
	if xIdx < yIdx {
		array[0], array[1] = branchNode(x), branchNode(y)
	} else {
		array[0], array[1] = branchNode(y), branchNode(x)
	}
	return newINode[K, V](&mainNode[K, V]{branch: &cNode[K, V]{bitmap: bmp, array: array}}, gen)
}
