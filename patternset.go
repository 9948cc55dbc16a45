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
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/openbiblio/colophon/internal/normalize"
)

// PatternSet is an ordered collection of compiled, case-insensitive regular
// expressions. A title matches the set if any single pattern finds a match
// anywhere within it. A PatternSet is immutable once built and safe for reuse
// across an entire run.
type PatternSet struct {
	patterns  []*pattern
	normalize bool
}

type pattern struct {
	expr   *regexp.Regexp
	source string
	line   int
}

// CompilePatternFiles builds one PatternSet from the union of the given
// pattern files. Each file holds one regular expression per non-empty line.
// Compilation is all-or-nothing: the first invalid pattern fails the whole
// construction with a *PatternSyntaxError.
func CompilePatternFiles(paths []string, opts ...Option) (*PatternSet, error) {
	o := newOptions(opts...)
	ps := &PatternSet{normalize: o.normalize}
	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("colophon: opening pattern file: %w", err)
		}
		err = ps.compile(path, file)
		_ = file.Close()
		if err != nil {
			return nil, err
		}
	}
	return ps, nil
}

// CompilePatterns builds a PatternSet from a single pattern source. The source
// name is only used in error messages.
func CompilePatterns(source string, r io.Reader, opts ...Option) (*PatternSet, error) {
	o := newOptions(opts...)
	ps := &PatternSet{normalize: o.normalize}
	if err := ps.compile(source, r); err != nil {
		return nil, err
	}
	return ps, nil
}

func (ps *PatternSet) compile(source string, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		expr := strings.TrimSpace(scanner.Text())
		if expr == "" {
			continue
		}
		// Matching is case-insensitive by default; pattern authors can still
		// anchor or group explicitly within their own expression.
		compiled, err := regexp.Compile("(?i)" + expr)
		if err != nil {
			return newPatternSyntaxError(expr, source, line, err)
		}
		ps.patterns = append(ps.patterns, &pattern{expr: compiled, source: source, line: line})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("colophon: reading pattern file %s: %w", source, err)
	}
	return nil
}

// Matches reports whether at least one pattern in the set finds a match
// anywhere within the title.
func (ps *PatternSet) Matches(title string) bool {
	if ps.normalize {
		title = normalize.Fold(title)
	}
	for _, p := range ps.patterns {
		if p.expr.MatchString(title) {
			return true
		}
	}
	return false
}

// Len returns the number of compiled patterns in the set.
func (ps *PatternSet) Len() int {
	return len(ps.patterns)
}
