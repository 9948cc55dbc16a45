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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeader_Bytes(t *testing.T) {
	l := defaultLeader()
	l.RecordLength = 62
	l.BaseAddress = 49

	b := l.Bytes()
	assert.Len(t, b, LeaderLength)
	assert.Equal(t, "00062nam a2200049 a 4500", string(b))
}

func TestField_IsControl(t *testing.T) {
	tests := []struct {
		tag  string
		want bool
	}{
		{"001", true},
		{"009", true},
		{"010", false},
		{"245", false},
		{"856", false},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			f := &Field{Tag: tt.tag}
			assert.Equal(t, tt.want, f.IsControl())
		})
	}
}

func TestField_Subfield(t *testing.T) {
	f := NewDataField("245", '0', '0',
		Subfield{'a', "Advances in Quantum Computing"},
		Subfield{'c', "Doe, Jane"})

	assert.Equal(t, "Advances in Quantum Computing", f.Subfield('a'))
	assert.Equal(t, "Doe, Jane", f.Subfield('c'))
	assert.Equal(t, "", f.Subfield('b'))
}

func TestField_String(t *testing.T) {
	tests := []struct {
		name  string
		field *Field
		want  string
	}{
		{"control field",
			NewControlField("001", "10.1234/example"),
			"001    10.1234/example"},
		{"data field",
			NewDataField("245", '0', '0', Subfield{'a', "A Title"}),
			"245 00 $a A Title"},
		{"blank indicators",
			NewDataField("260", ' ', ' ', Subfield{'b', "Nature"}),
			"260 __ $b Nature"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.field.String())
		})
	}
}

func TestFields_GetAll(t *testing.T) {
	var fs Fields
	fs.Add(NewControlField("001", "id"))
	fs.Add(NewDataField("856", '4', '0', Subfield{'u', "https://example.com/a.pdf"}))
	fs.Add(NewDataField("856", ' ', ' ', Subfield{'u', "https://doi.org/10.1234/example"}))

	assert.Nil(t, fs.Get("245"))
	assert.False(t, fs.Has("245"))
	assert.True(t, fs.Has("001"))
	assert.Len(t, fs.GetAll("856"), 2)
	assert.Equal(t, "https://example.com/a.pdf", fs.Get("856").Subfield('u'))
}

func TestRecord_Accessors(t *testing.T) {
	r := &Record{Leader: defaultLeader()}
	r.Fields.Add(NewControlField("001", "10.1234/example"))
	r.Fields.Add(NewDataField("245", '0', '0', Subfield{'a', "A Title"}))

	assert.Equal(t, "10.1234/example", r.ControlNumber())
	assert.Equal(t, "A Title", r.Title())
}
