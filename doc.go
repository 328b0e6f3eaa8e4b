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

/*
Package ctrie provides a concurrent, lock-free, ordered hash-array-mapped
trie: a thread-safe mutable key-value map with O(1) atomic lock-free
snapshots. It was originally presented in the paper "Concurrent Tries with
Efficient Non-Blocking Snapshots" (Prokopec, Bagwell, Odersky).

Every read and write descends the trie from a root obtained through RDCSS
(restricted double-compare-single-swap) and mutates indirection nodes via
GCAS (generation-aware compare-and-set). No lock is ever taken; a thread
that loses a race either helps complete the operation it collided with or
restarts from the root. Snapshot is O(1): it installs a new root at a fresh
generation and defers copying of subtrees to whichever writer next needs to
mutate them.
*/
package ctrie
