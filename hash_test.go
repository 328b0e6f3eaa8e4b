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

// constantHasher is a Hasher[int] that reports the same hash for every
// key, used to force every entry into the same branch chain down to a
// collisionNode regardless of how many keys are inserted.
type constantHasher struct{}

func (constantHasher) Hash(int) uint32 {
	return 0xdeadbeef
}

func (constantHasher) Equal(a, b int) bool {
	return a == b
}
