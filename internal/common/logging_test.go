package common

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLoggerWithOutput_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("warn", &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info event passed warn filter: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn event missing: %q", out)
	}
}

func TestNewLoggerWithOutput_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("verbose", &buf)

	logger.Debug().Msg("debug-event")
	logger.Info().Msg("info-event")

	out := buf.String()
	if strings.Contains(out, "debug-event") {
		t.Errorf("debug event logged at default info level")
	}
	if !strings.Contains(out, "info-event") {
		t.Errorf("info event missing")
	}
}

func TestPrintBanner_IncludesAsset(t *testing.T) {
	var buf bytes.Buffer
	printBanner(&buf, NewDefaultConfig())
	out := buf.String()
	if !strings.Contains(out, "BTC/USD") {
		t.Errorf("banner missing asset line: %s", out)
	}
	if !strings.Contains(out, "http://0.0.0.0:8080") {
		t.Errorf("banner missing service url")
	}
}
