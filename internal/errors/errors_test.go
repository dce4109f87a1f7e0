package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "circular update",
			code:    "R001",
			wantMsg: "Circular update detected",
			wantCat: CategoryScheduler,
		},
		{
			name:    "root mutation",
			code:    "R002",
			wantMsg: "Reactive property added to root data",
			wantCat: CategoryMutation,
		},
		{
			name:    "hook failure",
			code:    "R008",
			wantMsg: "Lifecycle hook failed",
			wantCat: CategoryLifecycle,
		},
		{
			name:    "unknown error code",
			code:    "R999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	err := New("R009")
	if got, want := err.Error(), "R009: Render failed"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := New("R009").Wrap(stderrors.New("boom"))
	if got, want := wrapped.Error(), "R009: Render failed: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &Error{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestError_WrapKeepsChain(t *testing.T) {
	sentinel := stderrors.New("sentinel")
	err := New("R001").Wrap(sentinel)

	if !stderrors.Is(err, sentinel) {
		t.Error("errors.Is should find the wrapped sentinel")
	}
	if CodeOf(err) != "R001" {
		t.Errorf("CodeOf = %q, want R001", CodeOf(err))
	}
	if CodeOf(sentinel) != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", CodeOf(sentinel))
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "R005") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	re := New("R005")
	if FromError(re, "R006") != re {
		t.Error("FromError should return *Error as-is")
	}

	std := stderrors.New("plain")
	result := FromError(std, "R006")
	if result.Wrapped != std {
		t.Error("standard error should be wrapped")
	}
	if result.Code != "R006" {
		t.Errorf("Code = %q, want R006", result.Code)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("R008").
		WithComponent("Counter").
		WithInfo("mounted hook").
		WithSuggestion("Return an error instead of panicking").
		Wrap(stderrors.New("boom"))

	out := err.Format()
	for _, want := range []string{
		"ERROR R008: Lifecycle hook failed",
		"in <Counter> during mounted hook",
		"Cause: boom",
		"Hint: Return an error instead of panicking",
		"Learn more: https://vango.dev/docs/reactor/errors/R008",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("R009").WithComponent("App").WithInfo("render")
	if got, want := err.FormatCompact(), "in <App> during render: R009: Render failed"; got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("R001").WithInfo("scheduler flush").Wrap(stderrors.New("loop"))

	var decoded map[string]any
	if jerr := json.Unmarshal([]byte(err.FormatJSON()), &decoded); jerr != nil {
		t.Fatalf("FormatJSON produced invalid JSON: %v", jerr)
	}
	if decoded["code"] != "R001" {
		t.Errorf("code = %v, want R001", decoded["code"])
	}
	if decoded["cause"] != "loop" {
		t.Errorf("cause = %v, want loop", decoded["cause"])
	}
	if decoded["info"] != "scheduler flush" {
		t.Errorf("info = %v, want scheduler flush", decoded["info"])
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 10)
	for _, line := range lines {
		if len(line) > 10 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six" {
		t.Errorf("wrapText lost words: %v", lines)
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should produce no lines")
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, New("R010"))
	if !strings.Contains(buf.String(), "R010") {
		t.Errorf("Fprint(coded) = %q", buf.String())
	}

	buf.Reset()
	Fprint(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("Fprint(plain) = %q", buf.String())
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup("R011"); !ok {
		t.Error("R011 should be registered")
	}
	if _, ok := Lookup("E001"); ok {
		t.Error("E001 should not be registered")
	}
}
