package meta

import (
	"bytes"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func Test_inputFiles(t *testing.T) {
	dir := path.Join("..", "..", "test", "psl")

	tests := []struct {
		name    string
		path    string
		ext     string
		want    []string
		wantErr bool
	}{
		{"directory", dir, ".psl", []string{path.Join(dir, "plot-1.psl"), path.Join(dir, "plot-2.psl")}, false},
		{"file", path.Join(dir, "plot-2.psl"), ".fasta", []string{path.Join(dir, "plot-2.psl")}, false},
		{"no matches", dir, ".fasta", nil, false},
		{"missing", path.Join(dir, "nope"), ".psl", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := inputFiles(tt.path, tt.ext)
			if (err != nil) != tt.wantErr {
				t.Fatalf("inputFiles() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != len(tt.want) || (len(got) > 0 && !reflect.DeepEqual(got, tt.want)) {
				t.Errorf("inputFiles() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := inputDir(path.Join(dir, "plot-1.psl"), ".psl"); err == nil {
		t.Error("inputDir() accepted a file")
	}
}

func Test_prepareDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	if err := prepareDir(dir, false); err != nil {
		t.Fatal(err)
	}
	old := filepath.Join(dir, "old.txt")
	if err := os.WriteFile(old, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := prepareDir(dir, false); err == nil || !strings.Contains(err.Error(), dir) {
		t.Errorf("prepareDir() error = %v, want one naming %s", err, dir)
	}
	if _, err := os.Stat(old); err != nil {
		t.Errorf("prepareDir() removed %s without overwrite", old)
	}

	if err := prepareDir(dir, true); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Errorf("prepareDir() kept %s with overwrite", old)
	}
}

func Test_banner(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"abc", 11, "--- abc ---"},
		{"ab", 11, "--- ab ----"},
		{"much too long", 5, " much too long "},
	}
	for _, tt := range tests {
		if got := banner(tt.text, tt.width, "-"); got != tt.want {
			t.Errorf("banner(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func Test_parseLevel(t *testing.T) {
	if l, err := parseLevel("warn"); err != nil || l != levelWarn {
		t.Errorf("parseLevel(warn) = %v, %v", l, err)
	}
	if _, err := parseLevel("DEBUG"); err == nil {
		t.Error("parseLevel(DEBUG) found a level")
	}
}

func Test_batchLog(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	l, err := newBatchLog(dir, "batch", levelWarn, &console)
	if err != nil {
		t.Fatal(err)
	}
	l.clock = func() time.Time { return time.Date(2012, 3, 10, 17, 3, 0, 0, time.UTC) }

	l.Info("hidden")
	l.Warn("sample %s is small", "s1")
	l.Critical("sample %s failed", "s2")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	want := "2012-03-10 17:03:00,000 - batch - WARN - sample s1 is small\n" +
		"2012-03-10 17:03:00,000 - batch - CRITICAL - sample s2 failed\n"
	if console.String() != want {
		t.Errorf("console = %q, want %q", console.String(), want)
	}

	file, err := os.ReadFile(filepath.Join(dir, "batch.log"))
	if err != nil {
		t.Fatal(err)
	}
	if string(file) != want {
		t.Errorf("batch.log = %q, want %q", file, want)
	}
}
