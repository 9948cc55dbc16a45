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
	"strconv"
	"strings"
)

// SourceRecord is one entry of the open-access metadata snapshot. The JSON
// field names follow the Unpaywall data format. Records are read once during
// the filtering pass and never retained.
type SourceRecord struct {
	DOI            string      `json:"doi"`
	DOIURL         string      `json:"doi_url"`
	Title          *string     `json:"title"`
	JournalName    string      `json:"journal_name"`
	Publisher      string      `json:"publisher"`
	Year           *int        `json:"year"`
	IsOA           bool        `json:"is_oa"`
	BestOALocation *OALocation `json:"best_oa_location"`
	Authors        []Author    `json:"z_authors"`
}

// OALocation is the best open-access host known for an article.
type OALocation struct {
	URL       string `json:"url"`
	URLForPDF string `json:"url_for_pdf"`
}

// Author is one entry of a source record's author list.
type Author struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

// Name formats a single author. The primary author is conventionally reversed
// ("Family, Given"); the rest are written in reading order.
func (a Author) Name(reverse bool) string {
	if a.Given == "" {
		if a.Family == "" {
			return "Unknown"
		}
		return a.Family
	}
	if a.Family == "" {
		return a.Given
	}
	if reverse {
		return a.Family + ", " + a.Given
	}
	return strings.TrimSpace(a.Given + " " + a.Family)
}

// Identifier returns the record's persistent identifier: the DOI when present,
// otherwise the DOI URL.
func (sr *SourceRecord) Identifier() string {
	if sr.DOI != "" {
		return sr.DOI
	}
	return sr.DOIURL
}

// matchable reports whether a record can be evaluated against a pattern set at
// all. Entries with no title or no open-access location are scanned but never
// matched; they are not malformed.
func (sr *SourceRecord) matchable() bool {
	return sr.Title != nil && sr.BestOALocation != nil
}

// authorStatement joins the full author list into a statement of
// responsibility: "Family, Given, B C, and D E".
func authorStatement(authors []Author) string {
	if len(authors) == 0 {
		return ""
	}
	first := authors[0].Name(true)
	rest := make([]string, 0, len(authors)-1)
	for _, a := range authors[1:] {
		rest = append(rest, a.Name(false))
	}
	switch len(rest) {
	case 0:
		return first
	case 1:
		return first + " and " + rest[0]
	default:
		return first + ", " + strings.Join(rest[:len(rest)-1], ", ") + ", and " + rest[len(rest)-1]
	}
}

// project reduces a matching source record to the row handed downstream.
func (sr *SourceRecord) project() *FilteredRow {
	row := &FilteredRow{
		Identifier: sr.Identifier(),
		Venue:      sr.JournalName,
		Publisher:  sr.Publisher,
		DOIURL:     sr.DOIURL,
	}
	if sr.Title != nil {
		row.Title = *sr.Title
	}
	if sr.Year != nil {
		row.Date = strconv.Itoa(*sr.Year)
	}
	if sr.BestOALocation != nil {
		row.AccessURL = sr.BestOALocation.URL
	}
	if len(sr.Authors) > 0 {
		row.Author = sr.Authors[0].Name(true)
		row.AuthorStatement = authorStatement(sr.Authors)
	}
	return row
}
