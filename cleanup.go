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

// contract collapses cn to a tombNode when exactly one entry remains
// below the trie's root level, so that a long run of removes leaves the
// trie no deeper than its occupancy warrants. At level 0 (the root) a
// single-entry cNode is left as is: the root has no parent to resurrect
// into.
func contract[K, V any](cn *cNode[K, V], level uint) *mainNode[K, V] {
	if level > 0 && len(cn.array) == 1 {
		if sn, ok := cn.array[0].(*singleton[K, V]); ok {
			return &mainNode[K, V]{tomb: &tombNode[K, V]{entry: sn}}
		}
	}
	return &mainNode[K, V]{branch: cn}
}

// compress rebuilds cn with every tombed child I-node resurrected into
// its parent's array directly, then applies contract to the result.
func compress[K, V any](cn *cNode[K, V], level uint, t *Trie[K, V]) *mainNode[K, V] {
	array := make([]branchNode, len(cn.array))
	for idx, b := range cn.array {
		if in, ok := b.(*iNode[K, V]); ok {
			m := gcasRead(in, t)
			if m.tomb != nil {
				array[idx] = m.tomb.resurrect()
				continue
			}
		}
		array[idx] = b
	}
	return contract(&cNode[K, V]{bitmap: cn.bitmap, array: array}, level)
}

// clean asks i to replace its own main node with a compressed copy of
// itself, folding away any tombed children immediately below it. It is
// invoked by lookup, insert and remove when they reach a tombed I-node
// whose parent is i, and its failure (a concurrent GCAS beat it to i) is not itself an error:
// the next removal or lookup to pass through i will retry compression.
func clean[K, V any](i *iNode[K, V], t *Trie[K, V], level uint) {
	m := gcasRead(i, t)
	if m.branch != nil {
		gcas(i, m, compress(m.branch, level, t), t)
	}
}

// cleanParent folds a tombed I-node i directly into parent's array,
// retrying against parent's latest main node if a concurrent operation
// changes it in between, as long as the trie's generation has not moved
// on underneath the caller. A generation change means a snapshot made i
// unreachable through parent already, so giving up is correct rather
// than merely convenient.
func cleanParent[K, V any](parent, i *iNode[K, V], hash uint32, level uint, t *Trie[K, V], startGen *generation) {
	for {
		m := gcasRead(parent, t)
		if m.branch == nil {
			return
		}
		cn := m.branch
		flag, pos := flagPos(hash, level, cn.bitmap)
		if cn.bitmap&flag == 0 {
			return
		}
		branch := cn.array[pos]
		in, ok := branch.(*iNode[K, V])
		if !ok || in != i {
			return
		}
		sub := gcasRead(i, t)
		if sub.tomb == nil {
			return
		}
		ncn := cn.updated(pos, sub.tomb.resurrect())
		if gcas(parent, m, contract(ncn, level), t) {
			return
		}
		if t.rootGeneration() != startGen {
			return
		}
		// parent's main changed underneath us; retry against the fresh value.
	}
}
