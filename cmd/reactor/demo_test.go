package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/vango-dev/reactor/pkg/reactive"
)

func TestRunDemo(t *testing.T) {
	var out bytes.Buffer
	var errs []error
	rt := reactive.New(reactive.WithErrorHandler(func(err error, _ reactive.Owner, _ string) {
		errs = append(errs, err)
	}))

	if err := runDemo(rt, &out); err != nil {
		t.Fatalf("runDemo: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	got := out.String()
	for _, want := range []string{
		"<h1>reactor (3)</h1>3 items",
		"Item0 sees 3",
		hookLine("Panel", "deactivated"),
		hookLine("Item1", "deactivated"),
		hookLine("Item1", "activated"),
		hookLine("Item1", "destroyed"),
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if n := strings.Count(got, hookLine("App", "updated")); n != 1 {
		t.Errorf("batched increments should update App once, got %d:\n%s", n, got)
	}
}

func hookLine(name, hook string) string {
	return fmt.Sprintf("  %-10s %s\n", name, hook)
}
