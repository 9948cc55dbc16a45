/*
 * Copyright 2026 The Colophon Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *       http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package countingreader wraps a reader to count the bytes flowing through
// it, so long-running passes over snapshots and downloads can report
// progress.
package countingreader

import (
	"io"
	"sync/atomic"
)

// Reader counts the bytes read through it. The count is safe to read from a
// goroutine other than the one reading.
type Reader struct {
	ioReader  io.Reader
	bytesRead int64
}

// New makes a new Reader that counts the bytes read through it.
func New(r io.Reader) *Reader {
	return &Reader{ioReader: r}
}

func (r *Reader) Read(p []byte) (n int, err error) {
	n, err = r.ioReader.Read(p)
	atomic.AddInt64(&r.bytesRead, int64(n))
	return
}

// N gets the number of bytes read so far.
func (r *Reader) N() int64 {
	return atomic.LoadInt64(&r.bytesRead)
}
