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
	"bytes"
	"fmt"
	"io"
)

// Marshaler is the interface that wraps the Marshal function.
//
// Marshal converts a bibliographic record to its serialized MARC 21 form and
// returns the size of the marshalled record or any error encountered.
//
// The record is assembled completely in memory and handed to the writer in a
// single Write call, so an interrupted pipeline never leaves a partial record
// in the output.
type Marshaler interface {
	Marshal(w io.Writer, record *Record) (int64, error)
}

type defaultMarshaler struct {
}

func NewMarshaler() Marshaler {
	return &defaultMarshaler{}
}

func (m *defaultMarshaler) Marshal(w io.Writer, record *Record) (int64, error) {
	serialized, err := m.serialize(record)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(serialized)
	return int64(n), err
}

// serialize assembles leader + directory + field data + record terminator.
// The leader's record length, the base address and every directory entry are
// computed from the bytes actually produced, never estimated.
func (m *defaultMarshaler) serialize(record *Record) ([]byte, error) {
	var directory bytes.Buffer
	var data bytes.Buffer

	for _, field := range record.Fields {
		offset := data.Len()
		n, err := writeFieldData(&data, field)
		if err != nil {
			return nil, err
		}
		if n > maxFieldLength {
			return nil, &RecordTooLongError{Tag: field.Tag, Length: n, Limit: maxFieldLength}
		}
		if offset > maxFieldOffset {
			return nil, &RecordTooLongError{Tag: field.Tag, Length: offset, Limit: maxFieldOffset}
		}
		fmt.Fprintf(&directory, "%s%0*d%0*d", field.Tag, dirLengthDigits, n, dirOffsetDigits, offset)
	}
	directory.WriteByte(FieldTerminator)

	leader := record.Leader
	leader.BaseAddress = LeaderLength + directory.Len()
	leader.RecordLength = leader.BaseAddress + data.Len() + 1
	if leader.RecordLength > maxRecordLength {
		return nil, &RecordTooLongError{Length: leader.RecordLength, Limit: maxRecordLength}
	}

	serialized := make([]byte, 0, leader.RecordLength)
	serialized = append(serialized, leader.Bytes()...)
	serialized = append(serialized, directory.Bytes()...)
	serialized = append(serialized, data.Bytes()...)
	serialized = append(serialized, RecordTerminator)
	return serialized, nil
}

// writeFieldData serializes one field's content, including its terminator,
// and returns the number of bytes written.
func writeFieldData(buf *bytes.Buffer, field *Field) (int, error) {
	start := buf.Len()
	if field.IsControl() {
		buf.WriteString(field.Value)
	} else {
		writeIndicatorByte(buf, field.Ind1)
		writeIndicatorByte(buf, field.Ind2)
		for _, sf := range field.Subfields {
			buf.WriteByte(SubfieldDelimiter)
			buf.WriteByte(sf.Code)
			buf.WriteString(sf.Value)
		}
	}
	buf.WriteByte(FieldTerminator)
	return buf.Len() - start, nil
}

func writeIndicatorByte(buf *bytes.Buffer, ind byte) {
	if ind == 0 {
		ind = ' '
	}
	buf.WriteByte(ind)
}
