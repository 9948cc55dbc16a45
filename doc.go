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

/*
Package colophon filters open-access article metadata snapshots and encodes
the matches as MARC 21 bibliographic records for import into library catalog
systems.

# Filtering

A [PatternSet] is compiled from plain-text files holding one regular
expression per line with [CompilePatternFiles]. The [Filter] streams a
line-delimited snapshot in a single pass, yielding a [FilteredRow] for every
record whose title matches any pattern. Rows are written to and read back from
a delimited intermediate file with [RowWriter] and [RowReader].

# Encoding

[NewRecord] maps a filtered row to a [Record] through a fixed field table.
The [Marshaler] serializes records with a computed leader and directory; the
[Unmarshaler] reads them back. [FileWriter] and [FileReader] handle
concatenated record files.

The colophon command under cmd/colophon drives the download → filter → encode
pipeline.
*/
package colophon
