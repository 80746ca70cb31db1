package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionInfo(t *testing.T) {
	t.Parallel()

	// Each falls back to a placeholder, so none may be empty.
	for name, got := range map[string]string{
		"version": getVersion(),
		"commit":  getCommit(),
		"date":    getDate(),
	} {
		if got == "" {
			t.Errorf("%s is empty", name)
		}
	}

	if len(getCommit()) > 7 && commit == "" {
		t.Errorf("expected a short commit hash, got %q", getCommit())
	}
}

func TestOrUnknown(t *testing.T) {
	t.Parallel()

	if got := orUnknown(""); got != "unknown" {
		t.Errorf("expected 'unknown', got %q", got)
	}
	if got := orUnknown("abc1234"); got != "abc1234" {
		t.Errorf("expected 'abc1234', got %q", got)
	}
}

func TestNewVersionCmd(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cmd := NewVersionCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"edureport version", "commit:", "built:"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got %q", want, output)
		}
	}
}
