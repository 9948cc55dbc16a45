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
	"io"
	"strconv"
)

// Unmarshaler is the interface that wraps the Unmarshal function.
//
// Unmarshal reads one serialized MARC 21 record from the reader. Records are
// self-delimited by the length declared in their leader, so no outer framing
// is needed to read a concatenated record file sequentially. At end of input
// Unmarshal returns io.EOF.
type Unmarshaler interface {
	Unmarshal(b *bufio.Reader) (*Record, error)
}

type defaultUnmarshaler struct {
	opts *options
}

func NewUnmarshaler(opts ...Option) Unmarshaler {
	return &defaultUnmarshaler{opts: newOptions(opts...)}
}

func (u *defaultUnmarshaler) Unmarshal(b *bufio.Reader) (*Record, error) {
	raw := make([]byte, LeaderLength)
	if _, err := io.ReadFull(b, raw); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, newWrappedSyntaxError("truncated leader", 0, err)
		}
		return nil, err
	}

	leader, err := parseLeader(raw)
	if err != nil {
		return nil, err
	}
	if leader.RecordLength <= LeaderLength || leader.BaseAddress <= LeaderLength {
		return nil, newSyntaxError("leader declares impossible record geometry", 0)
	}

	rest := make([]byte, leader.RecordLength-LeaderLength)
	if _, err := io.ReadFull(b, rest); err != nil {
		return nil, newWrappedSyntaxError("record shorter than declared length", 0, err)
	}
	if rest[len(rest)-1] != RecordTerminator {
		return nil, newSyntaxError("missing record terminator", int64(leader.RecordLength))
	}

	dirEnd := leader.BaseAddress - LeaderLength
	if dirEnd > len(rest) || rest[dirEnd-1] != FieldTerminator {
		return nil, newSyntaxError("directory not terminated at base address", int64(LeaderLength+dirEnd))
	}
	directory := rest[:dirEnd-1]
	data := rest[dirEnd : len(rest)-1]

	if len(directory)%dirEntryLength != 0 {
		return nil, newSyntaxError("directory length is not a multiple of the entry size", LeaderLength)
	}

	record := &Record{Leader: leader}
	for i := 0; i < len(directory); i += dirEntryLength {
		entry := directory[i : i+dirEntryLength]
		field, err := u.parseField(entry, data)
		if err != nil {
			return nil, err
		}
		record.Fields.Add(field)
	}
	return record, nil
}

func (u *defaultUnmarshaler) parseField(entry, data []byte) (*Field, error) {
	tag := string(entry[:dirTagLength])
	length, err := strconv.Atoi(string(entry[dirTagLength : dirTagLength+dirLengthDigits]))
	if err != nil {
		return nil, newWrappedSyntaxError("invalid length in directory entry for field "+tag, 0, err)
	}
	offset, err := strconv.Atoi(string(entry[dirTagLength+dirLengthDigits:]))
	if err != nil {
		return nil, newWrappedSyntaxError("invalid offset in directory entry for field "+tag, 0, err)
	}
	if offset+length > len(data) {
		return nil, newSyntaxError("directory entry for field "+tag+" points outside field data", int64(offset))
	}

	content := data[offset : offset+length]
	if len(content) == 0 || content[len(content)-1] != FieldTerminator {
		if u.opts.strict {
			return nil, newSyntaxError("field "+tag+" not terminated", int64(offset))
		}
	} else {
		content = content[:len(content)-1]
	}

	if tag < "010" {
		return NewControlField(tag, string(content)), nil
	}

	if len(content) < 2 {
		return nil, newSyntaxError("field "+tag+" too short for indicators", int64(offset))
	}
	field := &Field{Tag: tag, Ind1: content[0], Ind2: content[1]}
	for _, sub := range bytes.Split(content[2:], []byte{SubfieldDelimiter}) {
		if len(sub) == 0 {
			continue
		}
		field.Subfields = append(field.Subfields, Subfield{Code: sub[0], Value: string(sub[1:])})
	}
	return field, nil
}

// parseLeader reads the computed lengths and structural codes out of a
// serialized 24-byte leader.
func parseLeader(raw []byte) (Leader, error) {
	recordLength, err := strconv.Atoi(string(raw[0:5]))
	if err != nil {
		return Leader{}, newWrappedSyntaxError("invalid record length in leader", 0, err)
	}
	baseAddress, err := strconv.Atoi(string(raw[12:17]))
	if err != nil {
		return Leader{}, newWrappedSyntaxError("invalid base address in leader", 0, err)
	}
	return Leader{
		RecordLength:       recordLength,
		Status:             raw[5],
		TypeOfRecord:       raw[6],
		BibliographicLevel: raw[7],
		CodingScheme:       raw[9],
		BaseAddress:        baseAddress,
		EncodingLevel:      raw[17],
		CatalogingForm:     raw[18],
	}, nil
}
