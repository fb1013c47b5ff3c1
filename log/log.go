package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const diagFileName = "diagnostics_log.txt"

var (
	diagLog  zerolog.Logger
	diagFile *os.File
	logMu    sync.Mutex
	logReady atomic.Bool
	session  string
)

// Init opens diagnostics_log.txt in the configured directory. Until Init
// succeeds every logging call is a no-op.
func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, diagFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	diagFile = f

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	session = uuid.NewString()
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", os.Getpid()).Str("session", session).Logger()

	logReady.Store(true)
	return nil
}

// Session identifies this process's lines in the shared log file. It is
// empty until Init succeeds.
func Session() string {
	logMu.Lock()
	defer logMu.Unlock()
	return session
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	logReady.Store(false)
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
}

func Info(msg string) {
	if logReady.Load() {
		diagLog.Info().Msg(msg)
	}
}

func Warn(msg string) {
	if logReady.Load() {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady.Load() {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func Error(msg string) {
	if logReady.Load() {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady.Load() {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func SessionStart(version, addr string) {
	if !logReady.Load() {
		return
	}
	diagLog.Info().
		Str("version", version).
		Str("addr", addr).
		Msg("session_start")
}

func SessionEnd(notes int) {
	if !logReady.Load() {
		return
	}
	diagLog.Info().
		Int("notes", notes).
		Msg("session_end")
}

// The recording events below carry sizes only. Captured text never
// reaches the log files.

func RecordingStarted() {
	if logReady.Load() {
		diagLog.Info().Msg("recording_start")
	}
}

func NoteCommitted(runes, total int) {
	if !logReady.Load() {
		return
	}
	diagLog.Info().
		Int("runes", runes).
		Int("total", total).
		Msg("note_committed")
}

func RecordingDiscarded() {
	if logReady.Load() {
		diagLog.Info().Msg("recording_discarded")
	}
}

func RecordingCancelled() {
	if logReady.Load() {
		diagLog.Info().Msg("recording_cancelled")
	}
}

func NotesCleared(remote string) {
	if !logReady.Load() {
		return
	}
	diagLog.Info().
		Str("remote", remote).
		Msg("notes_cleared")
}

func HTTPRequest(method, path string, status int, elapsed time.Duration) {
	if !logReady.Load() {
		return
	}
	ev := diagLog.Info()
	if status >= 500 {
		ev = diagLog.Error()
	}
	ev.Str("method", method).
		Str("path", path).
		Int("status", status).
		Float64("ms", float64(elapsed.Microseconds())/1000).
		Msg("http_request")
}
