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
)

// PatternSyntaxError is returned when a pattern file contains a regular
// expression that does not compile. It identifies the offending pattern and
// where it was read from.
type PatternSyntaxError struct {
	Pattern string
	Source  string
	Line    int
	wrapped error
}

func newPatternSyntaxError(pattern, source string, line int, wrapped error) *PatternSyntaxError {
	return &PatternSyntaxError{Pattern: pattern, Source: source, Line: line, wrapped: wrapped}
}

func (e *PatternSyntaxError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("colophon: invalid pattern %q at %s:%d: %v", e.Pattern, e.Source, e.Line, e.wrapped)
	}
	return fmt.Sprintf("colophon: invalid pattern %q: %v", e.Pattern, e.wrapped)
}

func (e *PatternSyntaxError) Unwrap() error {
	return e.wrapped
}

// MissingFieldError is returned when a filtered row lacks data required to
// build a bibliographic record. The row is identified by its identifier, or by
// its position in the input when the identifier itself is missing.
type MissingFieldError struct {
	Field      string
	Identifier string
	Position   int64
}

func newMissingFieldError(field, identifier string, position int64) *MissingFieldError {
	return &MissingFieldError{Field: field, Identifier: identifier, Position: position}
}

func (e *MissingFieldError) Error() string {
	if e.Identifier != "" {
		return fmt.Sprintf("colophon: missing required field %s for record %s", e.Field, e.Identifier)
	}
	return fmt.Sprintf("colophon: missing required field %s for row %d", e.Field, e.Position)
}

// SyntaxError is used for structural errors found while parsing a serialized
// record, like a directory entry pointing outside the field data area.
type SyntaxError struct {
	msg     string
	offset  int64
	wrapped error
}

func newSyntaxError(msg string, offset int64) *SyntaxError {
	return &SyntaxError{msg: msg, offset: offset}
}

func newWrappedSyntaxError(msg string, offset int64, wrapped error) *SyntaxError {
	return &SyntaxError{msg: msg, offset: offset, wrapped: wrapped}
}

func (e *SyntaxError) Error() string {
	if e.offset > 0 {
		return fmt.Sprintf("colophon: %s at offset %d", e.msg, e.offset)
	}
	return fmt.Sprintf("colophon: %s", e.msg)
}

func (e *SyntaxError) Unwrap() error {
	return e.wrapped
}

// RecordTooLongError is returned when a record or one of its fields exceeds
// the lengths expressible in the leader or a directory entry.
type RecordTooLongError struct {
	Tag    string
	Length int
	Limit  int
}

func (e *RecordTooLongError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("colophon: field %s is %d bytes, exceeds directory limit of %d", e.Tag, e.Length, e.Limit)
	}
	return fmt.Sprintf("colophon: record is %d bytes, exceeds leader limit of %d", e.Length, e.Limit)
}
