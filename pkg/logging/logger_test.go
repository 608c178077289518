package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{"Info", InfoLevel},
		{"WARN", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"invalid", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Failed to unmarshal log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestJSONLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Info("pass complete", Iteration(3), NodeID(42), Variant("mass"))

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	entry := entries[0]

	if entry.Level != "INFO" {
		t.Errorf("Level = %v, want INFO", entry.Level)
	}
	if entry.Message != "pass complete" {
		t.Errorf("Message = %v, want 'pass complete'", entry.Message)
	}
	// JSON numbers decode as float64.
	if entry.Fields["iteration"] != float64(3) {
		t.Errorf("Fields[iteration] = %v, want 3", entry.Fields["iteration"])
	}
	if entry.Fields["node_id"] != float64(42) {
		t.Errorf("Fields[node_id] = %v, want 42", entry.Fields["node_id"])
	}
	if entry.Fields["variant"] != "mass" {
		t.Errorf("Fields[variant] = %v, want mass", entry.Fields["variant"])
	}
	if entry.Time == "" {
		t.Error("Time field is empty")
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Level != "WARN" || entries[1].Level != "ERROR" {
		t.Errorf("levels = %s,%s, want WARN,ERROR", entries[0].Level, entries[1].Level)
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("runner"), RunID("abc"))
	child.Info("started", Partition(2))
	logger.Info("parent")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Fields["component"] != "runner" || entries[0].Fields["run_id"] != "abc" {
		t.Errorf("child fields = %v", entries[0].Fields)
	}
	if entries[0].Fields["partition"] != float64(2) {
		t.Errorf("partition field = %v, want 2", entries[0].Fields["partition"])
	}
	if entries[1].Fields != nil {
		t.Errorf("parent picked up child fields: %v", entries[1].Fields)
	}
}

func TestJSONLogger_SetLevelSharedWithChildren(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)
	child := logger.With(Component("x"))

	logger.SetLevel(ErrorLevel)
	child.Info("hidden")
	child.Error("shown")

	entries := decodeLines(t, &buf)
	if len(entries) != 1 || entries[0].Message != "shown" {
		t.Errorf("entries = %+v, want only 'shown'", entries)
	}
	if child.GetLevel() != ErrorLevel {
		t.Errorf("child level = %v, want ERROR", child.GetLevel())
	}
}

func TestErrorField(t *testing.T) {
	if f := Error(errors.New("boom")); f.Key != "error" || f.Value != "boom" {
		t.Errorf("Error() = %+v", f)
	}
	if f := Error(nil); f.Value != nil {
		t.Errorf("Error(nil) = %+v", f)
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	timer := StartTimer(logger, "pass", Iteration(1))
	time.Sleep(time.Millisecond)
	timer.End(Count(10))
	timer.EndError(errors.New("failed"))

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if _, ok := entries[0].Fields["latency"]; !ok {
		t.Error("End() did not log latency")
	}
	if entries[0].Fields["count"] != float64(10) {
		t.Errorf("count field = %v, want 10", entries[0].Fields["count"])
	}
	if entries[1].Level != "ERROR" || entries[1].Fields["error"] != "failed" {
		t.Errorf("EndError entry = %+v", entries[1])
	}
}

func TestDefaultLogger(t *testing.T) {
	prev := DefaultLogger()
	defer SetDefaultLogger(prev)

	nop := NewNopLogger()
	SetDefaultLogger(nop)
	if DefaultLogger() != nop {
		t.Error("SetDefaultLogger did not replace the default")
	}
}
