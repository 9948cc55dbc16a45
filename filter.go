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

package colophon

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Stats holds the counters reported at the end of a filtering pass.
type Stats struct {
	Scanned   int64 // source lines consumed
	Matched   int64 // rows emitted
	Malformed int64 // lines skipped because they failed to parse
}

// Filter streams a line-delimited metadata snapshot and yields the projection
// of every record whose title matches the pattern set. The source is consumed
// in a single forward pass holding one line at a time, so memory use does not
// grow with the size of the snapshot. A Filter is not restartable; rerunning
// requires a fresh input stream.
type Filter struct {
	b           *bufio.Reader
	patterns    *PatternSet
	maxLineSize int
	stats       Stats
}

// NewFilter creates a Filter over an already-decompressed line stream.
func NewFilter(r io.Reader, patterns *PatternSet, opts ...Option) *Filter {
	o := newOptions(opts...)
	return &Filter{
		b:           bufio.NewReaderSize(r, 64*1024),
		patterns:    patterns,
		maxLineSize: o.maxLineSize,
	}
}

// Next returns the next matching row in source encounter order. Malformed
// lines, including lines exceeding the configured maximum size, are counted
// and skipped, never aborting the pass. Next returns io.EOF when the source
// is exhausted.
func (f *Filter) Next() (*FilteredRow, error) {
	for {
		line, tooLong, err := f.readLine()
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("colophon: reading snapshot: %w", err)
		}
		if err == io.EOF && len(line) == 0 && !tooLong {
			return nil, io.EOF
		}

		f.stats.Scanned++
		if tooLong {
			f.stats.Malformed++
			continue
		}

		var record SourceRecord
		if err := json.Unmarshal(line, &record); err != nil {
			f.stats.Malformed++
			continue
		}
		if !record.matchable() {
			continue
		}
		if !f.patterns.Matches(*record.Title) {
			continue
		}

		f.stats.Matched++
		return record.project(), nil
	}
}

// readLine reads one line without its terminator. tooLong reports that the
// line exceeded maxLineSize and was discarded rather than returned. A final
// unterminated line is returned together with io.EOF.
func (f *Filter) readLine() (line []byte, tooLong bool, err error) {
	var buf []byte
	for {
		frag, err := f.b.ReadSlice('\n')
		buf = append(buf, frag...)
		switch err {
		case bufio.ErrBufferFull:
			if len(buf) > f.maxLineSize {
				return nil, true, f.discardLine()
			}
		case io.EOF:
			if len(buf) == 0 {
				return nil, false, io.EOF
			}
			if len(buf) > f.maxLineSize {
				return nil, true, io.EOF
			}
			return buf, false, io.EOF
		case nil:
			buf = bytes.TrimSuffix(buf, []byte{'\n'})
			buf = bytes.TrimSuffix(buf, []byte{'\r'})
			if len(buf) > f.maxLineSize {
				return nil, true, nil
			}
			return buf, false, nil
		default:
			return nil, false, err
		}
	}
}

// discardLine consumes the remainder of an oversized line.
func (f *Filter) discardLine() error {
	for {
		_, err := f.b.ReadSlice('\n')
		switch err {
		case bufio.ErrBufferFull:
			continue
		case nil, io.EOF:
			return err
		default:
			return err
		}
	}
}

// Stats returns the counters accumulated so far. After Next has returned
// io.EOF they cover the whole pass.
func (f *Filter) Stats() Stats {
	return f.stats
}
