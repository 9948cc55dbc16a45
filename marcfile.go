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
	"io"
)

// FileWriter appends marshalled records to an output stream. The output is a
// plain concatenation of records, each self-delimited by the length declared
// in its leader. Every record is written in a single operation, so output
// interrupted between records contains only complete records.
type FileWriter struct {
	w         io.Writer
	marshaler Marshaler
	records   int64
	size      int64
}

func NewFileWriter(w io.Writer) *FileWriter {
	return &FileWriter{
		w:         w,
		marshaler: NewMarshaler(),
	}
}

// WriteRecord marshals the record and appends it to the output. It returns
// the number of bytes written.
func (fw *FileWriter) WriteRecord(record *Record) (int64, error) {
	n, err := fw.marshaler.Marshal(fw.w, record)
	fw.size += n
	if err != nil {
		return n, err
	}
	fw.records++
	return n, nil
}

// Records returns the number of complete records written.
func (fw *FileWriter) Records() int64 {
	return fw.records
}

// Size returns the number of bytes written.
func (fw *FileWriter) Size() int64 {
	return fw.size
}

// FileReader reads records sequentially from a concatenated record stream.
type FileReader struct {
	b           *bufio.Reader
	unmarshaler Unmarshaler
	offset      int64
}

func NewFileReader(r io.Reader, opts ...Option) *FileReader {
	return &FileReader{
		b:           bufio.NewReaderSize(r, 64*1024),
		unmarshaler: NewUnmarshaler(opts...),
	}
}

// Next returns the next record and the offset it starts at. It returns io.EOF
// at end of input.
func (fr *FileReader) Next() (*Record, int64, error) {
	offset := fr.offset
	record, err := fr.unmarshaler.Unmarshal(fr.b)
	if err != nil {
		return nil, offset, err
	}
	fr.offset += int64(record.Leader.RecordLength)
	return record, offset, nil
}
