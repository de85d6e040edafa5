package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newEnzymesFetchCmd() *cobra.Command {
	var (
		outputDir string
		force     bool
	)
	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Download an enzyme list and import it",
		Long: `Download a name<TAB>notation enzyme list (for example a lab's shared
catalog) into ~/.biotools/ and import it into the custom enzyme database.
An already downloaded file is reused unless --force is given.`,
		Example: `  biotools enzymes fetch https://example.org/lab/enzymes.tsv`,
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := outputDir
			if dir == "" {
				dir = filepath.Dir(enzymeDBPath())
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("cannot create directory %s: %w", dir, err)
			}

			dest := filepath.Join(dir, fetchFileName(args[0]))
			if force {
				os.Remove(dest)
			}
			if err := downloadFile(cmd.Context(), cmd.ErrOrStderr(), args[0], dest); err != nil {
				return fmt.Errorf("downloading enzyme list: %w", err)
			}
			return importEnzymes(cmd, dest)
		},
	}
	cmd.Flags().StringVar(&outputDir, "dir", "", "Download directory (default: directory of enzymes.db)")
	cmd.Flags().BoolVar(&force, "force", false, "Download again even if the file exists")
	return cmd
}

// fetchFileName derives a local file name from the URL path.
func fetchFileName(rawURL string) string {
	name := "enzymes.tsv"
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" && base != "" {
			name = base
		}
	}
	return name
}

// maxFetchSize caps the size of a downloaded enzyme list.
var maxFetchSize int64 = 10 << 20

// downloadFile downloads url to destPath through a temporary file, reporting
// the transfer on w. Responses larger than maxFetchSize are rejected.
func downloadFile(ctx context.Context, w io.Writer, url, destPath string) error {
	if info, err := os.Stat(destPath); err == nil {
		fmt.Fprintf(w, "  %s already exists (%s), skipping\n", filepath.Base(destPath), formatSize(info.Size()))
		return nil
	}

	fmt.Fprintf(w, "  Downloading %s...\n", filepath.Base(destPath))
	logger.Debug("downloading", zap.String("url", url), zap.String("dest", destPath))

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %s", resp.Status)
	}
	if resp.ContentLength > maxFetchSize {
		return fmt.Errorf("enzyme list is %s, limit is %s", formatSize(resp.ContentLength), formatSize(maxFetchSize))
	}

	tmpPath := destPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(resp.Body, maxFetchSize+1))
	f.Close()
	if err == nil && n > maxFetchSize {
		err = fmt.Errorf("enzyme list exceeds %s", formatSize(maxFetchSize))
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("download failed: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename file: %w", err)
	}

	fmt.Fprintf(w, "    Done: %s\n", formatSize(n))
	return nil
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
