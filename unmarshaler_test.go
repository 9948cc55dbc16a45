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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshal_RoundTrip(t *testing.T) {
	r := &Record{Leader: defaultLeader()}
	r.Fields.Add(NewControlField("001", "10.1234/roundtrip"))
	r.Fields.Add(NewDataField("100", '0', ' ', Subfield{'a', "Doe, Jane"}))
	r.Fields.Add(NewDataField("245", '0', '0',
		Subfield{'a', "Advances in Quantum Computing"},
		Subfield{'c', "Doe, Jane and John Smith"}))
	r.Fields.Add(NewDataField("260", ' ', ' ', Subfield{'b', "Quantum Review"}, Subfield{'c', "2019"}))
	r.Fields.Add(NewDataField("856", '4', '0',
		Subfield{'u', "https://example.com/qc.pdf"},
		Subfield{'y', "View article"}))

	var buf bytes.Buffer
	n, err := NewMarshaler().Marshal(&buf, r)
	require.NoError(t, err)

	got, err := NewUnmarshaler(WithStrictValidation()).Unmarshal(bufio.NewReader(&buf))
	require.NoError(t, err)

	assert.Equal(t, int(n), got.Leader.RecordLength)
	assert.Equal(t, byte('n'), got.Leader.Status)
	assert.Equal(t, byte('a'), got.Leader.TypeOfRecord)
	assert.Equal(t, byte('m'), got.Leader.BibliographicLevel)

	require.Len(t, got.Fields, len(r.Fields))
	assert.Equal(t, "10.1234/roundtrip", got.ControlNumber())
	assert.Equal(t, "Advances in Quantum Computing", got.Title())
	assert.Equal(t, r.Fields.Get("245").Subfields, got.Fields.Get("245").Subfields)
	assert.Equal(t, byte('4'), got.Fields.Get("856").Ind1)
	assert.Equal(t, byte('0'), got.Fields.Get("856").Ind2)
	assert.Equal(t, "2019", got.Fields.Get("260").Subfield('c'))
}

func TestUnmarshal_EOFAtEndOfInput(t *testing.T) {
	_, err := NewUnmarshaler().Unmarshal(bufio.NewReader(strings.NewReader("")))
	assert.Equal(t, io.EOF, err)
}

func TestUnmarshal_TruncatedLeader(t *testing.T) {
	_, err := NewUnmarshaler().Unmarshal(bufio.NewReader(strings.NewReader("00062nam")))
	require.Error(t, err)
	var syntaxErr *SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
}

func TestUnmarshal_MissingRecordTerminator(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewMarshaler().Marshal(&buf, testRecord())
	require.NoError(t, err)

	corrupted := buf.Bytes()
	corrupted[len(corrupted)-1] = 'X'

	_, err = NewUnmarshaler().Unmarshal(bufio.NewReader(bytes.NewReader(corrupted)))
	require.Error(t, err)
	var syntaxErr *SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
}

func TestUnmarshal_DirectoryPointsOutsideData(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewMarshaler().Marshal(&buf, testRecord())
	require.NoError(t, err)

	// Inflate the first directory entry's declared length.
	corrupted := buf.Bytes()
	copy(corrupted[LeaderLength+3:], []byte("9000"))

	_, err = NewUnmarshaler().Unmarshal(bufio.NewReader(bytes.NewReader(corrupted)))
	require.Error(t, err)
	var syntaxErr *SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
}
