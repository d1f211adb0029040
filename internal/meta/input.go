// Package meta holds the handlers behind the meta commands: each one parses
// its flags, runs the external tools, and reports the post-processed results.
package meta

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var (
	// stderr is for logging to Stderr (without an annoying timestamp)
	stderr = log.New(os.Stderr, "", 0)
)

// inputFiles returns path if it's a file, or the files in it ending with ext
// (sorted) if it's a directory.
func inputFiles(path, ext string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to find input %s: %v", path, err)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	files, err := filepath.Glob(filepath.Join(path, "*"+ext))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s files in %s: %v", ext, path, err)
	}
	sort.Strings(files)
	return files, nil
}

// inputDir returns the files in dir ending with ext, sorted, or an error if
// dir is not a directory.
func inputDir(dir, ext string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to find input directory %s: %v", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return inputFiles(dir, ext)
}

// prepareDir creates dir. If it already exists it's removed first when
// overwrite is set, and is an error otherwise.
func prepareDir(dir string, overwrite bool) error {
	if _, err := os.Stat(dir); err == nil {
		if !overwrite {
			return fmt.Errorf("output directory %s exists, use --overwrite to replace it", dir)
		}
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to remove output directory %s: %v", dir, err)
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %v", dir, err)
	}
	return nil
}

// baseName is the file name of path without suffix.
func baseName(path, suffix string) string {
	return strings.TrimSuffix(filepath.Base(path), suffix)
}

// mustString returns the string flag called name, or exits.
func mustString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		stderr.Fatalf("failed to parse %s flag: %v", name, err)
	}
	return v
}

// mustBool returns the bool flag called name, or exits.
func mustBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		stderr.Fatalf("failed to parse %s flag: %v", name, err)
	}
	return v
}

// mustInt returns the int flag called name, or exits.
func mustInt(cmd *cobra.Command, name string) int {
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		stderr.Fatalf("failed to parse %s flag: %v", name, err)
	}
	return v
}
