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

// generation demarcates trie snapshots. A heap-allocated reference is used
// instead of an integer counter to avoid integer overflow and so that two
// generations compare equal only when they are the same identity. The
// boolean field exists so that two distinct zero-size generation values
// can never share the same address.
type generation struct{ _ bool }

func newGeneration() *generation {
	return &generation{}
}
