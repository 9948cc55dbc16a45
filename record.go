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
	"fmt"
	"strings"
)

const (
	// MARC 21 structural control bytes
	SubfieldDelimiter byte = 0x1f // separates subfields within a data field
	FieldTerminator   byte = 0x1e // ends the directory and every field
	RecordTerminator  byte = 0x1d // ends a record

	// LeaderLength is the size of the fixed leader at the start of every record.
	LeaderLength = 24

	// Directory entries are fixed width: 3-digit tag, 4-digit length, 5-digit offset.
	dirTagLength    = 3
	dirLengthDigits = 4
	dirOffsetDigits = 5
	dirEntryLength  = dirTagLength + dirLengthDigits + dirOffsetDigits

	maxFieldLength  = 9999  // largest length expressible in a directory entry
	maxFieldOffset  = 99999 // largest offset expressible in a directory entry
	maxRecordLength = 99999 // largest length expressible in the leader
)

// Leader is the fixed 24-byte header of a MARC 21 record. RecordLength and
// BaseAddress are computed during marshalling; the remaining positions carry
// constant structural codes for a minimal bibliographic record.
type Leader struct {
	RecordLength       int  // positions 00-04
	Status             byte // position 05
	TypeOfRecord       byte // position 06
	BibliographicLevel byte // position 07
	CodingScheme       byte // position 09
	BaseAddress        int  // positions 12-16
	EncodingLevel      byte // position 17
	CatalogingForm     byte // position 18
}

// defaultLeader returns the leader for a new minimal bibliographic record:
// status 'n' (new), type 'a' (language material), level 'm' (monograph),
// coding scheme 'a' (UCS/Unicode), cataloging form 'a'.
func defaultLeader() Leader {
	return Leader{
		Status:             'n',
		TypeOfRecord:       'a',
		BibliographicLevel: 'm',
		CodingScheme:       'a',
		EncodingLevel:      ' ',
		CatalogingForm:     'a',
	}
}

// Bytes renders the leader as its 24-byte serialized form.
func (l Leader) Bytes() []byte {
	return []byte(fmt.Sprintf("%05d%c%c%c %c22%05d%c%c 4500",
		l.RecordLength,
		l.Status,
		l.TypeOfRecord,
		l.BibliographicLevel,
		l.CodingScheme,
		l.BaseAddress,
		l.EncodingLevel,
		l.CatalogingForm))
}

func (l Leader) String() string {
	return string(l.Bytes())
}

// Subfield is a single coded value within a data field.
type Subfield struct {
	Code  byte
	Value string
}

// Field is one variable field of a record. Control fields (tags 001-009) carry
// their content in Value and have no indicators or subfields. Data fields carry
// two indicator bytes and one or more subfields.
type Field struct {
	Tag       string
	Ind1      byte
	Ind2      byte
	Value     string
	Subfields []Subfield
}

// NewControlField creates a control field (tag 001-009).
func NewControlField(tag, value string) *Field {
	return &Field{Tag: tag, Value: value}
}

// NewDataField creates a data field with the given indicators and subfields.
func NewDataField(tag string, ind1, ind2 byte, subfields ...Subfield) *Field {
	return &Field{Tag: tag, Ind1: ind1, Ind2: ind2, Subfields: subfields}
}

// IsControl reports whether the field is a control field. Control fields have
// tags below 010.
func (f *Field) IsControl() bool {
	return f.Tag < "010"
}

// Subfield gets the value of the first subfield with the given code.
// It returns "" if no such subfield exists.
func (f *Field) Subfield(code byte) string {
	for _, sf := range f.Subfields {
		if sf.Code == code {
			return sf.Value
		}
	}
	return ""
}

func (f *Field) String() string {
	sb := &strings.Builder{}
	sb.WriteString(f.Tag)
	if f.IsControl() {
		sb.WriteString("    ")
		sb.WriteString(f.Value)
		return sb.String()
	}
	sb.WriteByte(' ')
	writeIndicator(sb, f.Ind1)
	writeIndicator(sb, f.Ind2)
	for _, sf := range f.Subfields {
		fmt.Fprintf(sb, " $%c %s", sf.Code, sf.Value)
	}
	return sb.String()
}

func writeIndicator(sb *strings.Builder, ind byte) {
	if ind == ' ' || ind == 0 {
		sb.WriteByte('_')
	} else {
		sb.WriteByte(ind)
	}
}

// Fields is the ordered list of variable fields of a record.
type Fields []*Field

// Get gets the first field with the given tag or nil if the record has none.
func (fs Fields) Get(tag string) *Field {
	for _, f := range fs {
		if f.Tag == tag {
			return f
		}
	}
	return nil
}

// GetAll gets every field with the given tag in record order.
func (fs Fields) GetAll(tag string) []*Field {
	var result []*Field
	for _, f := range fs {
		if f.Tag == tag {
			result = append(result, f)
		}
	}
	return result
}

func (fs Fields) Has(tag string) bool {
	return fs.Get(tag) != nil
}

func (fs *Fields) Add(f *Field) {
	*fs = append(*fs, f)
}

// Record is a single MARC 21 bibliographic record. Create records from
// filtered rows with NewRecord or read them back with an Unmarshaler.
type Record struct {
	Leader Leader
	Fields Fields
}

// ControlNumber returns the record's 001 control number or "" if absent.
func (r *Record) ControlNumber() string {
	if f := r.Fields.Get("001"); f != nil {
		return f.Value
	}
	return ""
}

// Title returns the title proper (245 $a) or "" if absent.
func (r *Record) Title() string {
	if f := r.Fields.Get("245"); f != nil {
		return f.Subfield('a')
	}
	return ""
}

func (r *Record) String() string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "LDR %s\n", r.Leader)
	for _, f := range r.Fields {
		fmt.Fprintf(sb, "%s\n", f)
	}
	return sb.String()
}
