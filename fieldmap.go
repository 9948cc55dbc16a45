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
	"github.com/nlnwa/whatwg-url/url"
)

// The mapping from a filtered row to the fields of a bibliographic record is
// a fixed table, not branching code: adding a field is a data change. Entries
// are emitted in table order. A data field is only emitted when at least one
// of its subfields has a value; a control field only when its value is
// non-empty.
type fieldMapping struct {
	tag       string
	ind1      byte
	ind2      byte
	control   func(*FilteredRow) string
	subfields []subfieldMapping
	// link marks an electronic location field: the URL is normalized once
	// and the field is dropped entirely when it does not parse.
	link func(*FilteredRow) (rawURL, label string)
}

type subfieldMapping struct {
	code  byte
	value func(*FilteredRow) string
}

var bibliographicFields = []fieldMapping{
	{tag: "001", control: func(r *FilteredRow) string { return r.Identifier }},
	{tag: "100", ind1: '0', ind2: ' ', subfields: []subfieldMapping{
		{'a', func(r *FilteredRow) string { return r.Author }},
	}},
	// Non-filing indicator is a fixed 0: no article/determiner stripping is
	// performed on titles.
	{tag: "245", ind1: '0', ind2: '0', subfields: []subfieldMapping{
		{'a', func(r *FilteredRow) string { return r.Title }},
		{'c', func(r *FilteredRow) string { return r.AuthorStatement }},
	}},
	{tag: "260", ind1: ' ', ind2: ' ', subfields: []subfieldMapping{
		{'b', func(r *FilteredRow) string {
			if r.Venue != "" {
				return r.Venue
			}
			return r.Publisher
		}},
		{'c', func(r *FilteredRow) string { return r.Date }},
	}},
	{tag: "500", ind1: ' ', ind2: ' ', subfields: []subfieldMapping{
		{'a', func(r *FilteredRow) string {
			if r.Venue == "" {
				return ""
			}
			return "Article from " + r.Venue + "."
		}},
	}},
	{tag: "856", ind1: '4', ind2: '0', link: func(r *FilteredRow) (string, string) {
		return r.AccessURL, "View article"
	}},
	{tag: "856", ind1: ' ', ind2: ' ', link: func(r *FilteredRow) (string, string) {
		return r.DOIURL, "DOI"
	}},
}

// NewRecord builds exactly one bibliographic record from a filtered row using
// the fixed field mapping. A row without an identifier or title fails with a
// *MissingFieldError; all other values are optional and their fields are
// simply omitted. The position is used to identify the row in errors when the
// identifier itself is missing.
func NewRecord(row *FilteredRow, position int64) (*Record, error) {
	if row.Identifier == "" {
		return nil, newMissingFieldError("identifier", "", position)
	}
	if row.Title == "" {
		return nil, newMissingFieldError("title", row.Identifier, position)
	}

	record := &Record{Leader: defaultLeader()}
	for _, mapping := range bibliographicFields {
		if mapping.link != nil {
			rawURL, label := mapping.link(row)
			if href := normalizeURL(rawURL); href != "" {
				record.Fields.Add(NewDataField(mapping.tag, mapping.ind1, mapping.ind2,
					Subfield{'u', href}, Subfield{'y', label}))
			}
			continue
		}
		if mapping.control != nil {
			if value := mapping.control(row); value != "" {
				record.Fields.Add(NewControlField(mapping.tag, value))
			}
			continue
		}
		var subfields []Subfield
		for _, sm := range mapping.subfields {
			if value := sm.value(row); value != "" {
				subfields = append(subfields, Subfield{Code: sm.code, Value: value})
			}
		}
		if len(subfields) > 0 {
			record.Fields.Add(NewDataField(mapping.tag, mapping.ind1, mapping.ind2, subfields...))
		}
	}
	return record, nil
}

// normalizeURL runs an access URL through a WHATWG-conformant parser before it
// is written into an electronic location field. An unparsable URL drops the
// field, never the record.
func normalizeURL(s string) string {
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	return u.Href(false)
}
