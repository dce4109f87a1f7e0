package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestWriteVersion(t *testing.T) {
	b := buildInfo{Version: "1.2.0", Commit: "abc123", Date: "2026-01-02", Go: "go1.24", Platform: "linux/amd64", MaxUpdateCount: 100}

	var out bytes.Buffer
	if err := writeVersion(&out, b, true, false); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "1.2.0\n" {
		t.Errorf("short: got %q, want %q", got, "1.2.0\n")
	}

	out.Reset()
	if err := writeVersion(&out, b, false, true); err != nil {
		t.Fatal(err)
	}
	var decoded buildInfo
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("json: %v", err)
	}
	if decoded != b {
		t.Errorf("json: got %+v, want %+v", decoded, b)
	}

	out.Reset()
	if err := writeVersion(&out, b, false, false); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"reactor 1.2.0 (abc123, built 2026-01-02)", "linux/amd64", "update limit 100"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("missing %q in %q", want, out.String())
		}
	}
}
