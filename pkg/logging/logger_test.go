package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/nodeflow/engine/pkg/types"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{name: "default config", config: DefaultConfig()},
		{name: "debug level", config: Config{Level: "debug", Output: &bytes.Buffer{}, Pretty: false}},
		{name: "pretty output", config: Config{Level: "info", Output: &bytes.Buffer{}, Pretty: true}},
		{name: "with caller", config: Config{Level: "info", Output: &bytes.Buffer{}, Pretty: false, IncludeCaller: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.config)
			if logger == nil {
				t.Error("Expected logger to be created, got nil")
			}
		})
	}
}

func TestLogger_Info(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: "info", Output: buf, Pretty: false})

	logger.Info("test message")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("Expected log to contain 'test message', got: %s", output)
	}
	if !strings.Contains(output, `"level":"INFO"`) {
		t.Errorf("Expected log to contain level INFO, got: %s", output)
	}
}

func TestLogger_Debug(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: "debug", Output: buf, Pretty: false})

	logger.Debug("debug message")

	output := buf.String()
	if !strings.Contains(output, "debug message") {
		t.Errorf("Expected log to contain 'debug message', got: %s", output)
	}
}

func TestLogger_DebugNotLogged(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: "info", Output: buf, Pretty: false})

	logger.Debug("debug message")

	if buf.String() != "" {
		t.Errorf("Expected no log output for debug when level is info, got: %s", buf.String())
	}
}

func TestLogger_Warn(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: "warn", Output: buf, Pretty: false})

	logger.Warn("warning message")

	if !strings.Contains(buf.String(), `"level":"WARN"`) {
		t.Errorf("Expected log to contain level WARN, got: %s", buf.String())
	}
}

func TestLogger_Error(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: "error", Output: buf, Pretty: false})

	logger.Error("error message")

	if !strings.Contains(buf.String(), `"level":"ERROR"`) {
		t.Errorf("Expected log to contain level ERROR, got: %s", buf.String())
	}
}

func TestLogger_WithLoadID(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: "info", Output: buf, Pretty: false})

	id := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	logger = logger.WithLoadID(id)
	logger.Info("test")

	if !strings.Contains(buf.String(), `"load_id":"00000000-0000-0000-0000-000000000001"`) {
		t.Errorf("Expected log to contain load_id, got: %s", buf.String())
	}
}

func TestLogger_WithGeneration(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: "info", Output: buf, Pretty: false})

	logger = logger.WithGeneration(7)
	logger.Info("test")

	if !strings.Contains(buf.String(), `"evaluation_generation":7`) {
		t.Errorf("Expected log to contain evaluation_generation, got: %s", buf.String())
	}
}

func TestLogger_WithNodeID(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: "info", Output: buf, Pretty: false})

	logger = logger.WithNodeID("node-789")
	logger.Info("test")

	if !strings.Contains(buf.String(), `"node_id":"node-789"`) {
		t.Errorf("Expected log to contain node_id, got: %s", buf.String())
	}
}

func TestLogger_WithNodeKind(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: "info", Output: buf, Pretty: false})

	logger = logger.WithNodeKind(types.KindCounter)
	logger.Info("test")

	if !strings.Contains(buf.String(), `"node_kind":"Counter"`) {
		t.Errorf("Expected log to contain node_kind, got: %s", buf.String())
	}
}

func TestLogger_WithField(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: "info", Output: buf, Pretty: false})

	logger = logger.WithField("custom_field", "custom_value")
	logger.Info("test")

	if !strings.Contains(buf.String(), `"custom_field":"custom_value"`) {
		t.Errorf("Expected log to contain custom_field, got: %s", buf.String())
	}
}

func TestLogger_WithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: "info", Output: buf, Pretty: false})

	logger = logger.WithFields(map[string]interface{}{
		"field1": "value1",
		"field2": 42,
	})
	logger.Info("test")

	output := buf.String()
	if !strings.Contains(output, `"field1":"value1"`) {
		t.Errorf("Expected log to contain field1, got: %s", output)
	}
	if !strings.Contains(output, `"field2":42`) {
		t.Errorf("Expected log to contain field2, got: %s", output)
	}
}

func TestLogger_WithError(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: "error", Output: buf, Pretty: false})

	err := &testError{"test error"}
	logger = logger.WithError(err)
	logger.Error("error occurred")

	if !strings.Contains(buf.String(), "test error") {
		t.Errorf("Expected log to contain error message, got: %s", buf.String())
	}
}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }

func TestLogger_ChainedContext(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: "info", Output: buf, Pretty: false})

	id := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	logger = logger.
		WithLoadID(id).
		WithGeneration(3).
		WithNodeID("node-789").
		WithNodeKind(types.KindTimer)

	logger.Info("test")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}

	expectedFields := map[string]string{
		"load_id":  id.String(),
		"node_id":  "node-789",
		"node_kind": "Timer",
		"level":    "INFO",
		"msg":      "test",
	}

	for key, expectedValue := range expectedFields {
		if value, ok := logEntry[key]; !ok {
			t.Errorf("Expected field %s in log, got: %v", key, logEntry)
		} else if value != expectedValue {
			t.Errorf("Expected %s=%s, got %s=%v", key, expectedValue, key, value)
		}
	}

	if logEntry["evaluation_generation"] != float64(3) {
		t.Errorf("Expected evaluation_generation=3, got %v", logEntry["evaluation_generation"])
	}
}

func TestLogger_WithContext(t *testing.T) {
	logger := New(DefaultConfig())
	ctx := context.Background()

	ctx = logger.WithContext(ctx)

	if FromContext(ctx) == nil {
		t.Error("Expected logger from context, got nil")
	}
}

func TestLogger_FromContextDefault(t *testing.T) {
	ctx := context.Background()

	if FromContext(ctx) == nil {
		t.Error("Expected default logger, got nil")
	}
}

func TestLogger_Infof(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: "info", Output: buf, Pretty: false})

	logger.Infof("formatted message: %s %d", "test", 42)

	if !strings.Contains(buf.String(), "formatted message: test 42") {
		t.Errorf("Expected formatted message, got: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"invalid", "INFO"},
		{"", "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level := parseLevel(tt.input)
			if level.String() != tt.expected {
				t.Errorf("parseLevel(%s) = %s, want %s", tt.input, level.String(), tt.expected)
			}
		})
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: "info", Output: buf, Pretty: false})

	logger.Info("test message")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Errorf("Log output is not valid JSON: %v", err)
	}
}
