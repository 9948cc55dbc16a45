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

package marc

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/openbiblio/colophon"
)

type conf struct {
	input  string
	output string
}

func NewCommand() *cobra.Command {
	c := &conf{}
	cmd := &cobra.Command{
		Use:   "marc <input.csv>",
		Short: "Encode filtered rows as MARC 21 records",
		Long: `Read an intermediate CSV produced by the filter stage and append one
MARC 21 bibliographic record per row to the output. Rows missing an
identifier or title are skipped and counted, never aborting the run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("missing input file name")
			}
			c.input = args[0]
			return runE(c)
		},
	}

	cmd.Flags().StringVarP(&c.output, "output", "o", "-", "output MARC file, - for stdout")

	return cmd
}

func runE(c *conf) error {
	in, err := os.Open(c.input)
	if err != nil {
		return fmt.Errorf("opening input file: %w", err)
	}
	defer in.Close()

	reader, err := colophon.NewRowReader(in)
	if err != nil {
		return err
	}

	out := os.Stdout
	if c.output != "" && c.output != "-" {
		out, err = os.Create(c.output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer out.Close()
	}
	writer := colophon.NewFileWriter(out)

	var skipped int64
	for {
		row, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading input row: %w", err)
		}

		record, err := colophon.NewRecord(row, reader.Position())
		if err != nil {
			var missing *colophon.MissingFieldError
			if errors.As(err, &missing) {
				log.Warnf("Skipping row: %v", err)
				skipped++
				continue
			}
			return err
		}
		if _, err := writer.WriteRecord(record); err != nil {
			var tooLong *colophon.RecordTooLongError
			if errors.As(err, &tooLong) {
				log.Warnf("Skipping record %s: %v", record.ControlNumber(), err)
				skipped++
				continue
			}
			return fmt.Errorf("writing output: %w", err)
		}
	}

	bold := color.New(color.Bold)
	_, _ = bold.Fprintf(os.Stderr, "%d records encoded (%d bytes), %d rows skipped\n",
		writer.Records(), writer.Size(), skipped)
	return nil
}
