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

type options struct {
	normalize   bool // fold diacritics and case before matching titles
	strict      bool // fail on structural inconsistencies when reading records
	maxLineSize int  // largest source line the filter will accept
}

func defaultOptions() options {
	return options{
		normalize:   true,
		strict:      false,
		maxLineSize: 16 * 1024 * 1024,
	}
}

// Option configures matching, filtering and record parsing.
type Option interface {
	apply(*options)
}

// funcOption wraps a function that modifies options into an
// implementation of the Option interface.
type funcOption struct {
	f func(*options)
}

func (fo *funcOption) apply(o *options) {
	fo.f(o)
}

func newFuncOption(f func(*options)) *funcOption {
	return &funcOption{f: f}
}

func newOptions(opts ...Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}
	return &o
}

// WithNormalization decides if titles are Unicode-folded (diacritics stripped,
// lowercased) before pattern matching.
// defaults to true
func WithNormalization(normalize bool) Option {
	return newFuncOption(func(o *options) {
		o.normalize = normalize
	})
}

// WithStrictValidation makes the Unmarshaler fail on any structural
// inconsistency between the leader, the directory and the field data.
// defaults to false
func WithStrictValidation() Option {
	return newFuncOption(func(o *options) {
		o.strict = true
	})
}

// WithMaxLineSize sets the largest source line, in bytes, the filter will
// accept before treating the line as malformed.
// defaults to 16 MiB
func WithMaxLineSize(size int) Option {
	return newFuncOption(func(o *options) {
		o.maxLineSize = size
	})
}
