// Package logging sets up ktc's per-session log files. Every fatal,
// client-scoped and transient error is reported through the logger
// returned by Init; nothing is propagated as an exception across
// component boundaries.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/ktcwm/ktc/internal/paths"
)

// Session bundles the four leveled sinks a session writes to, plus a
// zerolog.Logger that fans out to all of them and to stderr.
type Session struct {
	Logger zerolog.Logger
	Number int

	errFile, warnFile, infoFile, debugFile *os.File
}

var sessionPattern = regexp.MustCompile(`^session-(\d+)\.`)

// nextSessionNumber returns one more than the highest existing
// session-N.*.log number under dir, or 1 if dir is empty/missing.
func nextSessionNumber(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 1
	}
	max := 0
	for _, e := range entries {
		m := sessionPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}
	return max + 1
}

// singleLevelWriter wraps a writer so it only ever receives records of
// one specific level, mirroring get_file_for_level in the original
// logger: each record lands in exactly one of the four files.
type singleLevelWriter struct {
	level zerolog.Level
	out   io.Writer
}

func (w singleLevelWriter) Write(p []byte) (int, error) { return w.out.Write(p) }

func (w singleLevelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level != w.level {
		return len(p), nil
	}
	return w.out.Write(p)
}

// debugWriter additionally catches Trace, matching the Rust logger's
// Level::Debug | Level::Trace arm.
type debugWriter struct{ out io.Writer }

func (w debugWriter) Write(p []byte) (int, error) { return w.out.Write(p) }

func (w debugWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level != zerolog.DebugLevel && level != zerolog.TraceLevel {
		return len(p), nil
	}
	return w.out.Write(p)
}

// Init creates $XDG_DATA_HOME/ktc/logs/session-N.{err,war,inf,dbg}.log,
// installs a console-mirrored zerolog.Logger across all four, and
// returns the Session so the caller can Close it on shutdown.
func Init() (*Session, error) {
	dir := paths.KtcLogDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	n := nextSessionNumber(dir)

	open := func(suffix string) (*os.File, error) {
		p := filepath.Join(dir, fmt.Sprintf("session-%d.%s.log", n, suffix))
		return os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	}

	errF, err := open("err")
	if err != nil {
		return nil, err
	}
	warnF, err := open("war")
	if err != nil {
		return nil, err
	}
	infoF, err := open("inf")
	if err != nil {
		return nil, err
	}
	debugF, err := open("dbg")
	if err != nil {
		return nil, err
	}

	plain := func(out io.Writer) zerolog.ConsoleWriter {
		return zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05.000", NoColor: true}
	}
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}

	multi := zerolog.MultiLevelWriter(
		singleLevelWriter{level: zerolog.ErrorLevel, out: plain(errF)},
		singleLevelWriter{level: zerolog.WarnLevel, out: plain(warnF)},
		singleLevelWriter{level: zerolog.InfoLevel, out: plain(infoF)},
		debugWriter{out: plain(debugF)},
		console,
	)
	logger := zerolog.New(multi).Level(zerolog.DebugLevel).With().Timestamp().Logger()

	s := &Session{
		Logger:    logger,
		Number:    n,
		errFile:   errF,
		warnFile:  warnF,
		infoFile:  infoF,
		debugFile: debugF,
	}
	s.Logger.Info().Str("dir", dir).Time("started", time.Now()).Msgf("=== ktc session %d ===", n)
	return s, nil
}

// Close flushes and closes every session log file.
func (s *Session) Close() {
	for _, f := range []*os.File{s.errFile, s.warnFile, s.infoFile, s.debugFile} {
		if f != nil {
			_ = f.Sync()
			_ = f.Close()
		}
	}
}
