package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		format string
	}{
		{
			name:   "default config",
			cfg:    DefaultConfig(),
			format: "json",
		},
		{
			name: "text format",
			cfg: Config{
				Level:  "debug",
				Format: "text",
			},
			format: "text",
		},
		{
			name: "console format",
			cfg: Config{
				Level:  "info",
				Format: "console",
			},
			format: "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.cfg.Output = &buf

			l, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			l.Info("hello", "component", "test")

			out := buf.String()
			if out == "" {
				t.Fatal("no log output")
			}

			if tt.format == "json" {
				var entry map[string]any
				if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
					t.Errorf("output is not JSON: %v", err)
				}
			} else if !strings.Contains(out, "msg=hello") {
				t.Errorf("text output missing message: %s", out)
			}
		})
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Debug("should be filtered")
	if buf.Len() != 0 {
		t.Errorf("debug message logged at info level: %s", buf.String())
	}

	SetLevel("debug")
	defer SetLevel("info")

	l.Debug("now visible")
	if buf.Len() == 0 {
		t.Error("debug message filtered after SetLevel(debug)")
	}
	if GetLevel() != "debug" {
		t.Errorf("GetLevel() = %q, want debug", GetLevel())
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.With("component", "storage").Info("opened")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("parse log: %v", err)
	}
	if entry["component"] != "storage" {
		t.Errorf("component = %v, want storage", entry["component"])
	}
}

func TestL_EnrichesRequestID(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := WithLogger(context.Background(), l)
	ctx = WithRequestID(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV")

	L(ctx).Info("handling request")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("parse log: %v", err)
	}
	if entry["request_id"] != "01ARZ3NDEKTSV4RRFFQ69G5FAV" {
		t.Errorf("request_id = %v, want the context value", entry["request_id"])
	}
}
