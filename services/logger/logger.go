package logsvc

import (
	"io"
	"log"
	"os"

	"github.com/simtahfidz/backend/core"
)

// New returns a RollbarLogger printing to stdout with `prefix` ("API", "DB", "ADMIN").
// Rollbar reporting is disabled in debug and test mode.
func New(prefix string, conf *core.Config, flags ...int) *RollbarLogger {
	flag := log.LstdFlags
	if len(flags) > 0 {
		flag = flags[0]
	}
	var out io.Writer = os.Stdout
	if conf.TestMode {
		out = io.Discard
	}

	logger := NewRollbarLogger(log.New(out, prefix+" : ", flag), conf)
	logger.Enable(!conf.Debug && !conf.TestMode && conf.RollbarToken != "")
	return logger
}

// NewNopLogger discards every message.
func NewNopLogger() core.Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(msg string, _ ...interface{}) {
	log.Fatal(msg)
}
