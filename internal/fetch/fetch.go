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

// Package fetch discovers and downloads open-access metadata snapshots.
package fetch

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/tsdb/fileutil"
	log "github.com/sirupsen/logrus"

	"github.com/openbiblio/colophon/internal/countingreader"
	"github.com/openbiblio/colophon/internal/httputil"
)

// URLBase is the bucket listing endpoint publishing the snapshots.
var URLBase = "https://unpaywall-data-snapshots.s3-us-west-2.amazonaws.com/"

// Snapshot describes one published snapshot of the metadata dataset.
type Snapshot struct {
	Key          string
	URL          string
	LastModified time.Time
	Size         int64
}

// listBucketResult is the S3 bucket-listing document. Only the fields needed
// to pick a snapshot are mapped.
type listBucketResult struct {
	Contents []struct {
		Key          string `xml:"Key"`
		LastModified string `xml:"LastModified"`
		Size         int64  `xml:"Size"`
	} `xml:"Contents"`
}

// LatestSnapshot fetches the bucket listing and returns the most recently
// modified snapshot, or an error when the listing is empty or unreachable.
func LatestSnapshot(ctx context.Context, client *http.Client) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, URLBase, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching snapshot listing: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snapshot listing returned status %s", resp.Status)
	}

	var listing listBucketResult
	if err := xml.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("parsing snapshot listing: %w", err)
	}

	var latest *Snapshot
	for _, entry := range listing.Contents {
		modified, err := time.Parse(time.RFC3339, entry.LastModified)
		if err != nil {
			log.Warnf("Skipping listing entry %s with unparsable timestamp %q", entry.Key, entry.LastModified)
			continue
		}
		if latest == nil || modified.After(latest.LastModified) {
			latest = &Snapshot{
				Key:          entry.Key,
				URL:          URLBase + entry.Key,
				LastModified: modified,
				Size:         entry.Size,
			}
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("no snapshot found in listing")
	}
	return latest, nil
}

// Download streams the snapshot to path. The transfer goes to a uniquely
// named temporary file next to the destination and is renamed into place only
// when complete, so an interrupted download never leaves a half-written
// snapshot at the expected path.
func Download(ctx context.Context, client *http.Client, snapshot *Snapshot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, snapshot.URL, nil)
	if err != nil {
		return err
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return fmt.Errorf("downloading snapshot: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("snapshot download returned status %s", resp.Status)
	}

	tmp := fmt.Sprintf("%s.%s.open", path, uuid.New())
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	body := countingreader.New(resp.Body)
	done := make(chan struct{})
	go reportProgress(body, snapshot.Size, done)

	_, err = io.Copy(out, body)
	close(done)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("downloading snapshot: %w", err)
	}

	return fileutil.Rename(tmp, path)
}

func reportProgress(body *countingreader.Reader, total int64, done <-chan struct{}) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			read := body.N()
			if total > 0 {
				log.Infof("Downloaded %.1f of %.1f GiB (%.0f%%)",
					gib(read), gib(total), 100*float64(read)/float64(total))
			} else {
				log.Infof("Downloaded %.1f GiB", gib(read))
			}
		}
	}
}

func gib(n int64) float64 {
	return float64(n) / (1 << 30)
}
