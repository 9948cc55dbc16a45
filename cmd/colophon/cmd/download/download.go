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

package download

import (
	"fmt"
	"net/http"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/openbiblio/colophon/internal/fetch"
)

type conf struct {
	path  string
	force bool
}

func NewCommand() *cobra.Command {
	c := &conf{}
	cmd := &cobra.Command{
		Use:     "download",
		Aliases: []string{"dl"},
		Short:   "Download the latest metadata snapshot",
		Long: `Look up the most recent open-access metadata snapshot and download it.
The snapshot is tens of gigabytes; the transfer goes to a temporary file and
is renamed into place only when complete.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runE(cmd, c)
		},
	}

	cmd.Flags().StringVarP(&c.path, "output", "o", "data/unpaywall_snapshot.jsonl.gz", "where to store the snapshot")
	cmd.Flags().BoolVarP(&c.force, "force", "f", false, "replace an existing snapshot file")

	return cmd
}

func runE(cmd *cobra.Command, c *conf) error {
	if _, err := os.Stat(c.path); err == nil && !c.force {
		return fmt.Errorf("snapshot file %s exists, use --force to replace it", c.path)
	}

	ctx := cmd.Context()
	client := http.DefaultClient

	snapshot, err := fetch.LatestSnapshot(ctx, client)
	if err != nil {
		return err
	}
	log.Infof("Snapshot found: %s, last update %s, %.1f GiB",
		snapshot.Key, snapshot.LastModified.Format("2 Jan 2006"), float64(snapshot.Size)/(1<<30))

	if err := fetch.Download(ctx, client, snapshot, c.path); err != nil {
		return err
	}
	log.Infof("Snapshot stored at %s", c.path)
	return nil
}
