package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/whatisthe411/the411/backend/internal/logging"
)

func TestNewLevels(t *testing.T) {
	testCases := []struct {
		level       string
		expectDebug bool
		expectInfo  bool
		expectWarn  bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{"WARN", false, false, true},
		{"", false, true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := logging.New(tc.level, buf)

			logger.Debug("debug message")
			logger.Info("info message")
			logger.Warn("warn message")

			output := buf.String()
			if tc.expectDebug {
				gt.S(t, output).Contains("debug message")
			} else {
				gt.S(t, output).NotContains("debug message")
			}
			if tc.expectInfo {
				gt.S(t, output).Contains("info message")
			} else {
				gt.S(t, output).NotContains("info message")
			}
			if tc.expectWarn {
				gt.S(t, output).Contains("warn message")
			}
		})
	}
}

func TestNewInvalidLevelWarns(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.New("loud", buf)
	gt.S(t, buf.String()).Contains("invalid log level")

	logger.Info("still logging")
	gt.S(t, buf.String()).Contains("still logging")
}

func TestWithAndFrom(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.New("debug", buf).With("component", "fetch")
	ctx := logging.With(context.Background(), logger)

	got := logging.From(ctx)
	gt.Equal(t, got, logger)

	got.Info("context message")
	gt.S(t, buf.String()).Contains("context message")
	gt.S(t, buf.String()).Contains("fetch")
}

func TestFromFallsBackToDefault(t *testing.T) {
	original := logging.Default()
	defer logging.SetDefault(original)

	buf := &bytes.Buffer{}
	custom := logging.New("info", buf)
	logging.SetDefault(custom)

	gt.Equal(t, logging.From(context.Background()), custom)
}
