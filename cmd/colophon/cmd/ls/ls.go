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

package ls

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/openbiblio/colophon"
)

type conf struct {
	fileName    string
	recordCount int
	full        bool
	strict      bool
}

func NewCommand() *cobra.Command {
	c := &conf{}
	cmd := &cobra.Command{
		Use:   "ls <file.mrc>",
		Short: "List records from a MARC output file",
		Long:  ``,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("missing file name")
			}
			c.fileName = args[0]
			return runE(c)
		},
	}

	cmd.Flags().IntVarP(&c.recordCount, "record-count", "c", 0, "the maximum number of records to show")
	cmd.Flags().BoolVar(&c.full, "full", false, "show every field of each record")
	cmd.Flags().BoolVarP(&c.strict, "strict", "s", false, "fail on structural inconsistencies")

	return cmd
}

func runE(c *conf) error {
	file, err := os.Open(c.fileName)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	var opts []colophon.Option
	if c.strict {
		opts = append(opts, colophon.WithStrictValidation())
	}
	reader := colophon.NewFileReader(file, opts...)

	tag := color.New(color.FgCyan)
	count := 0
	for {
		record, offset, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("record %d: %w", count+1, err)
		}
		count++

		if c.full {
			printFull(record, offset, tag)
		} else {
			fmt.Printf("%8d\t%s\t%s\n", offset, record.ControlNumber(), record.Title())
		}

		if c.recordCount > 0 && count >= c.recordCount {
			break
		}
	}
	fmt.Fprintln(os.Stderr, "Count:", count)
	return nil
}

func printFull(record *colophon.Record, offset int64, tag *color.Color) {
	fmt.Printf("=== offset %d, %d bytes\n", offset, record.Leader.RecordLength)
	fmt.Printf("%s %s\n", tag.Sprint("LDR"), record.Leader)
	for _, f := range record.Fields {
		fmt.Printf("%s %s\n", tag.Sprint(f.Tag), fieldBody(f))
	}
}

func fieldBody(f *colophon.Field) string {
	// Field.String already includes the tag; trim it for aligned output.
	return strings.TrimLeft(strings.TrimPrefix(f.String(), f.Tag), " ")
}
