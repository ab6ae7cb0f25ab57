package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sagarc03/privmedia"
	"github.com/sagarc03/privmedia/config"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [flags] <file1> [file2] ...",
	Short: "Copy files into private storage",
	Long: `Copy files from external paths into the private storage directory.

Each file is written atomically and its URL under the configured prefix is
printed. Files are identified by their destination path in storage.

Examples:
  # Upload a single file
  privmedia upload /path/to/report.csv

  # Upload into a user's directory
  privmedia upload --dest cars/42/ /path/to/photo.jpg

  # Upload a directory recursively
  privmedia upload -r /path/to/media

  # Skip existing files
  privmedia upload --no-clobber /path/to/file.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

var (
	uploadDest      string
	uploadRecursive bool
	uploadNoClobber bool
	uploadQuiet     bool
)

func init() {
	uploadCmd.Flags().StringVarP(&uploadDest, "dest", "d", "", "destination path prefix in storage")
	uploadCmd.Flags().BoolVarP(&uploadRecursive, "recursive", "r", false, "recursively upload directories")
	uploadCmd.Flags().BoolVarP(&uploadNoClobber, "no-clobber", "n", false, "skip existing files instead of overwriting")
	uploadCmd.Flags().BoolVarP(&uploadQuiet, "quiet", "q", false, "suppress per-file output")
	rootCmd.AddCommand(uploadCmd)
}

// fileEntry represents a file to be uploaded with its source and destination paths.
type fileEntry struct {
	sourcePath string
	destPath   string
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	store, closeStore, err := openStore(cfg, true)
	if err != nil {
		return err
	}
	defer closeStore()

	var files []fileEntry
	for _, arg := range args {
		entries, collectErr := collectFiles(arg, uploadRecursive, uploadDest)
		if collectErr != nil {
			return fmt.Errorf("collect files from %s: %w", arg, collectErr)
		}
		files = append(files, entries...)
	}

	if len(files) == 0 {
		slog.Info("no files to upload")
		return nil
	}

	uploaded := 0
	skipped := 0

	for _, entry := range files {
		if !privmedia.IsValidUploadPath(entry.destPath) {
			return fmt.Errorf("upload %s: %w: invalid destination %q", entry.sourcePath, privmedia.ErrInvalidInput, entry.destPath)
		}

		if uploadNoClobber {
			exists, existsErr := store.Exists(ctx, entry.destPath)
			if existsErr != nil {
				return fmt.Errorf("check %s: %w", entry.destPath, existsErr)
			}
			if exists {
				skipped++
				if !uploadQuiet {
					slog.Info("skipped (exists)", "path", entry.destPath)
				}
				continue
			}
		}

		f, openErr := os.Open(entry.sourcePath)
		if openErr != nil {
			return fmt.Errorf("open %s: %w", entry.sourcePath, openErr)
		}

		res, writeErr := store.Write(ctx, entry.destPath, f)
		_ = f.Close()

		if writeErr != nil {
			return fmt.Errorf("upload %s: %w", entry.destPath, writeErr)
		}

		uploaded++
		if !uploadQuiet {
			slog.Info("uploaded",
				"path", entry.destPath,
				"bytes", res.BytesWritten,
				"etag", res.Etag,
				"content_type", privmedia.ContentType(entry.destPath),
			)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), store.URL(entry.destPath))
		}
	}

	slog.Info("upload complete", "uploaded", uploaded, "skipped", skipped)
	return nil
}

// collectFiles gathers files from a path, optionally recursively.
func collectFiles(path string, recursive bool, destPrefix string) ([]fileEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	// Normalize dest prefix - ensure it ends with / if non-empty
	destPrefix = strings.TrimPrefix(destPrefix, "/")
	if destPrefix != "" && !strings.HasSuffix(destPrefix, "/") {
		destPrefix += "/"
	}

	if !info.IsDir() {
		return []fileEntry{{sourcePath: path, destPath: destPrefix + filepath.Base(path)}}, nil
	}

	if !recursive {
		return nil, fmt.Errorf("%s is a directory (use -r to upload recursively)", path)
	}

	var entries []fileEntry
	walkErr := filepath.WalkDir(path, func(walkPath string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if d.IsDir() {
			return nil
		}

		relPath, relErr := filepath.Rel(path, walkPath)
		if relErr != nil {
			return relErr
		}

		entries = append(entries, fileEntry{
			sourcePath: walkPath,
			destPath:   destPrefix + filepath.ToSlash(relPath),
		})
		return nil
	})

	if walkErr != nil {
		return nil, walkErr
	}

	return entries, nil
}
