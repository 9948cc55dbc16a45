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
	"encoding/csv"
	"fmt"
	"io"
)

// FilteredRow is the projection of a matching source record handed from the
// filter stage to the encoder. Empty strings mark absent optional values.
type FilteredRow struct {
	Identifier      string
	Title           string
	Venue           string
	Date            string
	AccessURL       string
	DOIURL          string
	Publisher       string
	Author          string
	AuthorStatement string
}

// rowHeader fixes the column order of the intermediate file. The first five
// columns are the stable interface; the remaining columns extend it.
var rowHeader = []string{"identifier", "title", "venue", "date", "access_url", "doi_url", "publisher", "primary_author", "author_statement"}

// RowWriter writes filtered rows to a delimited intermediate file, emitting
// the header before the first row.
type RowWriter struct {
	w             *csv.Writer
	headerWritten bool
	rows          int64
}

func NewRowWriter(w io.Writer) *RowWriter {
	return &RowWriter{w: csv.NewWriter(w)}
}

func (rw *RowWriter) Write(row *FilteredRow) error {
	if !rw.headerWritten {
		if err := rw.w.Write(rowHeader); err != nil {
			return err
		}
		rw.headerWritten = true
	}
	record := []string{row.Identifier, row.Title, row.Venue, row.Date, row.AccessURL, row.DOIURL, row.Publisher, row.Author, row.AuthorStatement}
	if err := rw.w.Write(record); err != nil {
		return err
	}
	rw.rows++
	return nil
}

// Rows returns the number of rows written, excluding the header.
func (rw *RowWriter) Rows() int64 {
	return rw.rows
}

// Flush writes buffered rows to the underlying writer and reports any write
// error encountered.
func (rw *RowWriter) Flush() error {
	if !rw.headerWritten {
		// A run with zero matches still produces a header-only file.
		if err := rw.w.Write(rowHeader); err != nil {
			return err
		}
		rw.headerWritten = true
	}
	rw.w.Flush()
	return rw.w.Error()
}

// RowReader reads filtered rows back from an intermediate file. The header row
// is consumed at construction and decides the column positions, so files
// written without the author columns remain readable.
type RowReader struct {
	r        *csv.Reader
	index    map[string]int
	position int64
}

func NewRowReader(r io.Reader) (*RowReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("colophon: intermediate file is empty")
		}
		return nil, fmt.Errorf("colophon: reading intermediate file header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, required := range rowHeader[:5] {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("colophon: intermediate file is missing column %q", required)
		}
	}
	return &RowReader{r: cr, index: index}, nil
}

// Next reads the next row. It returns io.EOF at end of input.
func (rr *RowReader) Next() (*FilteredRow, error) {
	record, err := rr.r.Read()
	if err != nil {
		return nil, err
	}
	rr.position++
	column := func(name string) string {
		i, ok := rr.index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}
	return &FilteredRow{
		Identifier:      column("identifier"),
		Title:           column("title"),
		Venue:           column("venue"),
		Date:            column("date"),
		AccessURL:       column("access_url"),
		DOIURL:          column("doi_url"),
		Publisher:       column("publisher"),
		Author:          column("primary_author"),
		AuthorStatement: column("author_statement"),
	}, nil
}

// Position returns the number of rows read so far, excluding the header.
func (rr *RowReader) Position() int64 {
	return rr.position
}
