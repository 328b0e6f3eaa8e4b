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

import "errors"

// ErrReadOnly would be the error a mutation on a read-only snapshot could
// return; instead, following the same convention as
// rogpeppe-generic/ctrie.Map and jadeallenx-matchbox/ctrie.ctrie, mutating
// a read-only snapshot panics via assertReadWrite, since that is a caller
// contract violation rather than a runtime condition. ErrReadOnly is kept
// as a sentinel so callers that do recover a panic can classify it with
// errors.Is against the panic value.
var ErrReadOnly = errors.New("ctrie: cannot modify a read-only snapshot")

// InvalidKeyError reports that a key could not be used with the trie,
// e.g. a nil interface-typed key, or one whose dynamic type is not
// comparable.
type InvalidKeyError struct {
	Reason string
}

func (e *InvalidKeyError) Error() string {
	return "ctrie: invalid key: " + e.Reason
}
