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
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() *Record {
	r := &Record{Leader: defaultLeader()}
	r.Fields.Add(NewControlField("001", "tst1"))
	r.Fields.Add(NewDataField("245", '0', '0', Subfield{'a', "Hi"}))
	return r
}

func TestMarshal_ExactLayout(t *testing.T) {
	var buf bytes.Buffer
	n, err := NewMarshaler().Marshal(&buf, testRecord())
	require.NoError(t, err)

	// field data: "tst1" + FT = 5 bytes at offset 0,
	// then "00" + 0x1f + "aHi" + FT = 7 bytes at offset 5.
	// directory: two 12-byte entries + FT = 25 bytes, base address 49,
	// record length 49 + 12 + 1 = 62.
	want := "00062nam a2200049 a 4500" +
		"001000500000" + "245000700005" + string(FieldTerminator) +
		"tst1" + string(FieldTerminator) +
		"00" + string(SubfieldDelimiter) + "aHi" + string(FieldTerminator) +
		string(RecordTerminator)

	assert.Equal(t, want, buf.String())
	assert.Equal(t, int64(len(want)), n)
}

func TestMarshal_StructuralLaw(t *testing.T) {
	r := &Record{Leader: defaultLeader()}
	r.Fields.Add(NewControlField("001", "10.1234/law"))
	r.Fields.Add(NewDataField("100", '0', ' ', Subfield{'a', "Curie, Marie"}))
	r.Fields.Add(NewDataField("245", '0', '0',
		Subfield{'a', "Recherches sur les substances radioactives"},
		Subfield{'c', "Curie, Marie"}))
	r.Fields.Add(NewDataField("260", ' ', ' ', Subfield{'b', "Annales"}, Subfield{'c', "1903"}))
	r.Fields.Add(NewDataField("856", '4', '0', Subfield{'u', "https://example.com/curie.pdf"}))

	var buf bytes.Buffer
	n, err := NewMarshaler().Marshal(&buf, r)
	require.NoError(t, err)

	serialized := buf.Bytes()
	require.Equal(t, int64(len(serialized)), n)

	// The leader's declared total length equals the actual byte length.
	declared, err := strconv.Atoi(string(serialized[0:5]))
	require.NoError(t, err)
	assert.Equal(t, len(serialized), declared)

	base, err := strconv.Atoi(string(serialized[12:17]))
	require.NoError(t, err)
	assert.Equal(t, byte(FieldTerminator), serialized[base-1], "directory must end with a field terminator")
	assert.Equal(t, byte(RecordTerminator), serialized[len(serialized)-1])

	// The sum of directory-declared field lengths plus base address plus the
	// record terminator equals the declared total length, and each entry's
	// offset/length window ends with a field terminator.
	directory := serialized[LeaderLength : base-1]
	require.Zero(t, len(directory)%dirEntryLength)
	data := serialized[base : len(serialized)-1]
	sum := 0
	for i := 0; i < len(directory); i += dirEntryLength {
		entry := directory[i : i+dirEntryLength]
		length, err := strconv.Atoi(string(entry[3:7]))
		require.NoError(t, err)
		offset, err := strconv.Atoi(string(entry[7:12]))
		require.NoError(t, err)
		assert.Equal(t, sum, offset, "offsets are 0-based from the start of field data")
		assert.Equal(t, byte(FieldTerminator), data[offset+length-1])
		sum += length
	}
	assert.Equal(t, declared, base+sum+1)
}

func TestMarshal_FieldTooLong(t *testing.T) {
	r := &Record{Leader: defaultLeader()}
	r.Fields.Add(NewControlField("001", "10.1234/long"))
	r.Fields.Add(NewDataField("245", '0', '0', Subfield{'a', strings.Repeat("x", 10000)}))

	var buf bytes.Buffer
	_, err := NewMarshaler().Marshal(&buf, r)
	require.Error(t, err)
	var tooLong *RecordTooLongError
	require.ErrorAs(t, err, &tooLong)
	assert.Equal(t, "245", tooLong.Tag)
	assert.Zero(t, buf.Len(), "no bytes may be written for a failed record")
}

func TestMarshal_WritesRecordInOneOperation(t *testing.T) {
	w := &writeCounter{}
	_, err := NewMarshaler().Marshal(w, testRecord())
	require.NoError(t, err)
	assert.Equal(t, 1, w.calls)
}

type writeCounter struct {
	calls int
}

func (w *writeCounter) Write(p []byte) (int, error) {
	w.calls++
	return len(p), nil
}
