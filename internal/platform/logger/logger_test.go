package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevelAndFormat(t *testing.T) {
	cases := map[string]Level{"": Info, "DEBUG": Debug, "warning": Warn, "error": Error, "nope": Info}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if ParseFormat(" JSON ") != FormatJSON || ParseFormat("") != FormatText {
		t.Fatalf("unexpected format parsing")
	}
}

func TestJSONOutput_FieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: Warn, Format: FormatJSON, App: "pettrack", Output: &buf})

	log.Info("dropped", map[string]any{"k": "v"})
	log.With(map[string]any{"component": "intake"}).Warn("kept", map[string]any{"found_id": "f1", "": "ignored"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected a single line below Warn filtered out, got %q", buf.String())
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if rec["msg"] != "kept" || rec["app"] != "pettrack" || rec["component"] != "intake" || rec["found_id"] != "f1" {
		t.Fatalf("unexpected record: %v", rec)
	}
	if _, ok := rec[""]; ok {
		t.Fatalf("empty keys must be skipped: %v", rec)
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing", map[string]any{"x": 1})
}
