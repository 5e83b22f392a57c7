/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package assembler

// Assembler cuts a stream of samples into windows of a fixed size.
// It is owned by one stream worker and is not safe for concurrent use.
type Assembler[T any] struct {
	size   int
	buffer []T
}

func New[T any](size int) *Assembler[T] {
	if size <= 0 {
		size = 1
	}
	return &Assembler[T]{size: size}
}

// Append buffers the samples and returns every complete window.
// Windows are fresh slices, the caller may keep them.
func (a *Assembler[T]) Append(samples ...T) [][]T {
	a.buffer = append(a.buffer, samples...)
	var windows [][]T
	for len(a.buffer) >= a.size {
		w := make([]T, a.size)
		copy(w, a.buffer[:a.size])
		windows = append(windows, w)
		a.buffer = a.buffer[a.size:]
	}
	if len(a.buffer) == 0 {
		a.buffer = nil
	}
	return windows
}

// Len is the number of samples waiting for a window
func (a *Assembler[T]) Len() int {
	return len(a.buffer)
}

// Size is the window size
func (a *Assembler[T]) Size() int {
	return a.size
}

// Clear drops the buffered samples
func (a *Assembler[T]) Clear() {
	a.buffer = nil
}
