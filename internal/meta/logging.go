package meta

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// level is the severity of a batch log message
type level int

const (
	levelInfo level = iota
	levelWarn
	levelCritical
)

var levelNames = map[level]string{
	levelInfo:     "INFO",
	levelWarn:     "WARN",
	levelCritical: "CRITICAL",
}

// parseLevel reads a level from its name
func parseLevel(name string) (level, error) {
	for l, n := range levelNames {
		if strings.EqualFold(n, name) {
			return l, nil
		}
	}
	return levelInfo, fmt.Errorf("failed to parse log level %q, expected one of: INFO, WARN, CRITICAL", name)
}

// batchLog writes "time - name - LEVEL - message" lines to the console and to
// <name>.log, dropping messages below its level.
type batchLog struct {
	name  string
	min   level
	out   *log.Logger
	file  *os.File
	clock func() time.Time
}

// newBatchLog creates dir/<name>.log and returns a batchLog writing to it and w.
func newBatchLog(dir, name string, min level, w io.Writer) (*batchLog, error) {
	path := filepath.Join(dir, name+".log")
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file %s: %v", path, err)
	}

	return &batchLog{
		name:  name,
		min:   min,
		out:   log.New(io.MultiWriter(w, f), "", 0),
		file:  f,
		clock: time.Now,
	}, nil
}

func (l *batchLog) Close() error {
	return l.file.Close()
}

func (l *batchLog) Info(format string, v ...interface{}) {
	l.print(levelInfo, format, v...)
}

func (l *batchLog) Warn(format string, v ...interface{}) {
	l.print(levelWarn, format, v...)
}

func (l *batchLog) Critical(format string, v ...interface{}) {
	l.print(levelCritical, format, v...)
}

func (l *batchLog) print(lvl level, format string, v ...interface{}) {
	if lvl < l.min {
		return
	}
	l.out.Printf(
		"%s - %s - %s - %s",
		l.clock().Format("2006-01-02 15:04:05,000"),
		l.name,
		levelNames[lvl],
		fmt.Sprintf(format, v...),
	)
}

// banner centers text in a line of width fill characters
func banner(text string, width int, fill string) string {
	text = " " + text + " "
	pad := width - len(text)
	if pad <= 0 {
		return text
	}
	left := pad / 2
	return strings.Repeat(fill, left) + text + strings.Repeat(fill, pad-left)
}
