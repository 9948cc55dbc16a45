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

package cmd

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openbiblio/colophon/cmd/colophon/cmd/download"
	"github.com/openbiblio/colophon/cmd/colophon/cmd/filter"
	"github.com/openbiblio/colophon/cmd/colophon/cmd/ls"
	"github.com/openbiblio/colophon/cmd/colophon/cmd/marc"
)

type conf struct {
	cfgFile  string
	logLevel string
}

// NewCommand returns a new cobra.Command implementing the root command for
// colophon.
func NewCommand() *cobra.Command {
	c := &conf{}
	cmd := &cobra.Command{
		Use:   "colophon",
		Short: "Filter open-access article metadata into MARC records",
		Long: `Colophon extracts bibliographic metadata for articles matching topic
patterns from an open-access metadata snapshot and emits the matches as
MARC 21 records for import into library catalog systems.

A typical run downloads the snapshot, filters it against one or more pattern
files into an intermediate CSV, and encodes the CSV into a MARC file:

    colophon download
    colophon filter -p patterns/quantum -d data/snapshot.jsonl.gz -o matches.csv
    colophon marc matches.csv -o matches.mrc`,
		SilenceUsage: true,
	}

	cobra.OnInitialize(func() { c.init() })

	// Flags
	cmd.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.colophon.yaml)")
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	// Subcommands
	cmd.AddCommand(download.NewCommand())
	cmd.AddCommand(filter.NewCommand())
	cmd.AddCommand(marc.NewCommand())
	cmd.AddCommand(ls.NewCommand())

	return cmd
}

// init reads in config file and environment variables if set, and configures
// logging.
func (c *conf) init() {
	if c.cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(c.cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".colophon" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".colophon")
	}

	viper.SetEnvPrefix("colophon")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
	}

	level, err := log.ParseLevel(c.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unknown log level %q\n", c.logLevel)
		os.Exit(1)
	}
	log.SetLevel(level)
}
