package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}

	tc := []struct {
		name string
		path string
		want string
	}{
		{name: "plain relative path", path: "music/out", want: "music/out"},
		{name: "absolute path", path: "/tmp/spx.db", want: "/tmp/spx.db"},
		{name: "home directory", path: "~", want: home},
		{name: "path under home", path: "~/.spx/spx.db", want: filepath.Join(home, ".spx", "spx.db")},
		{name: "tilde not followed by separator", path: "~other/file", want: "~other/file"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestMarshalJSON(t *testing.T) {
	v := map[string]int{"total": 2}

	t.Run("compact", func(t *testing.T) {
		data, err := MarshalJSON(v, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `{"total":2}` {
			t.Errorf("unexpected output %s", data)
		}
	})

	t.Run("pretty", func(t *testing.T) {
		data, err := MarshalJSON(v, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(data), "\n  \"total\": 2") {
			t.Errorf("expected indented output, got %s", data)
		}
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := WithLogger(NewLogger(&buf), "run", "abc")
	SetLogLevel(logger, log.WarnLevel)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("expected info message to be filtered")
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "run=abc") {
		t.Errorf("expected warning with context, got %q", out)
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected unique IDs")
	}
	if len(a) != 36 {
		t.Errorf("expected UUID string, got %q", a)
	}
}
