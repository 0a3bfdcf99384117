// Package log is the process-wide logger. It wraps logrus with a compact
// single-line layout.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	easy "github.com/t-tomalak/logrus-easy-formatter"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	return &logrus.Logger{
		Out:   os.Stderr,
		Level: logrus.InfoLevel,
		Hooks: make(logrus.LevelHooks),
		Formatter: &easy.Formatter{
			TimestampFormat: "01-02 15:04:05.000",
			LogFormat:       "[%lvl%]   [%time%]   -   %msg%\n",
		},
	}
}

// SetLevel sets the level by name (debug, info, warn, error). Unknown names
// fall back to info.
func SetLevel(name string) {
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", name)
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
}

// SetOutput redirects log output, mostly for tests.
func SetOutput(w io.Writer) { logger.SetOutput(w) }

// Logger exposes the underlying logrus logger.
func Logger() *logrus.Logger { return logger }

func Debugf(format string, args ...any) { logger.Debug(fmt.Sprintf(format, args...)) }

func Infof(format string, args ...any) { logger.Info(fmt.Sprintf(format, args...)) }

func Warnf(format string, args ...any) { logger.Warn(fmt.Sprintf(format, args...)) }

func Errorf(format string, args ...any) { logger.Error(fmt.Sprintf(format, args...)) }

// Truncate shortens s for logging URLs and tokens.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Redact strips the query from a redirect or request URL.
func Redact(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i] + "?…"
	}
	return rawURL
}
