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

package filter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/klauspost/compress/gzip"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/openbiblio/colophon"
	"github.com/openbiblio/colophon/internal/countingreader"
)

type conf struct {
	patternFiles []string
	dataset      string
	output       string
	noNormalize  bool
	maxLineSize  int
}

func NewCommand() *cobra.Command {
	c := &conf{}
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter the snapshot against title patterns",
		Long: `Stream the compressed metadata snapshot and write every record whose title
matches any of the given patterns to an intermediate CSV file. Pattern files
hold one regular expression per line; repeating -p unions the files into a
single set. Matching is case-insensitive and ignores diacritics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(c.patternFiles) == 0 {
				return errors.New("at least one pattern file is required")
			}
			return runE(c)
		},
	}

	cmd.Flags().StringArrayVarP(&c.patternFiles, "pattern", "p", nil, "pattern file with one title regex per line (repeat for OR)")
	cmd.Flags().StringVarP(&c.dataset, "dataset", "d", "data/unpaywall_snapshot.jsonl.gz", "path to the snapshot in GZIP format")
	cmd.Flags().StringVarP(&c.output, "output", "o", "-", "output CSV file, - for stdout")
	cmd.Flags().BoolVar(&c.noNormalize, "no-normalize", false, "match titles without diacritic and case folding")
	cmd.Flags().IntVar(&c.maxLineSize, "max-line-size", 16*1024*1024, "largest snapshot line accepted, in bytes")

	return cmd
}

func runE(c *conf) error {
	opts := []colophon.Option{
		colophon.WithNormalization(!c.noNormalize),
		colophon.WithMaxLineSize(c.maxLineSize),
	}

	patterns, err := colophon.CompilePatternFiles(c.patternFiles, opts...)
	if err != nil {
		return err
	}
	log.Debugf("Compiled %d patterns", patterns.Len())

	file, err := os.Open(c.dataset)
	if err != nil {
		return fmt.Errorf("opening dataset: %w", err)
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return err
	}

	compressed := countingreader.New(file)
	stream, err := gzip.NewReader(compressed)
	if err != nil {
		return fmt.Errorf("opening dataset: %w", err)
	}
	defer stream.Close()

	out := os.Stdout
	if c.output != "" && c.output != "-" {
		out, err = os.Create(c.output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer out.Close()
	}

	done := make(chan struct{})
	go reportProgress(compressed, info.Size(), done)
	defer close(done)

	writer := colophon.NewRowWriter(out)
	f := colophon.NewFilter(stream, patterns, opts...)
	for {
		row, err := f.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	printSummary(f.Stats())
	return nil
}

func reportProgress(compressed *countingreader.Reader, total int64, done <-chan struct{}) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if total > 0 {
				log.Infof("Scanned %.0f%% of the snapshot", 100*float64(compressed.N())/float64(total))
			}
		}
	}
}

func printSummary(stats colophon.Stats) {
	bold := color.New(color.Bold)
	_, _ = bold.Fprintf(os.Stderr, "%d records scanned, %d matched, %d malformed lines skipped\n",
		stats.Scanned, stats.Matched, stats.Malformed)
}
