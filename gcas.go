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

// gcas performs a generation-aware compare-and-swap of i's main pointer
// from old to n. It succeeds only if the CAS itself succeeds and the
// generation embedded in i is still the trie's current generation at
// commit time; a stale generation means a snapshot was taken concurrently
// and the operation must be retried by the caller against a freshly
// renewed I-node.
func gcas[K, V any](i *iNode[K, V], old, n *mainNode[K, V], t *Trie[K, V]) bool {
	n.prev.Store(old)
	if !i.main.CompareAndSwap(old, n) {
		return false
	}
	gcasComplete(i, n, t)
	return n.prev.Load() == nil
}

// gcasComplete drives m's prev field to a terminal state (nil for
// committed, or rolled back to the value m.prev.failed contains) and
// returns the main node that i.main should now be treated as holding.
// It is called both by gcas itself and by any reader that finds an
// I-node's main pointer mid-transition, per the paper's cooperative
// "helping" requirement: a GCAS is never left half-finished for another
// goroutine to observe.
func gcasComplete[K, V any](i *iNode[K, V], m *mainNode[K, V], t *Trie[K, V]) *mainNode[K, V] {
	for {
		prev := m.prev.Load()
		if prev == nil {
			return m
		}
		if prev.failed != nil {
			old := prev.failed
			if i.main.CompareAndSwap(m, old) {
				return old
			}
			m = i.main.Load()
			continue
		}
		if i.gen == t.rootGeneration() && !t.readOnly {
			if m.prev.CompareAndSwap(prev, nil) {
				return m
			}
			continue
		}
		m.prev.CompareAndSwap(prev, &mainNode[K, V]{failed: prev})
		m = i.main.Load()
	}
}

// gcasRead returns i's current main node, helping to complete any GCAS
// still in flight on it.
func gcasRead[K, V any](i *iNode[K, V], t *Trie[K, V]) *mainNode[K, V] {
	m := i.main.Load()
	if m.prev.Load() == nil {
		return m
	}
	return gcasComplete(i, m, t)
}
