package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/labelkit/internal/ghs"
)

func TestCodesCmd(t *testing.T) {
	t.Parallel()

	t.Run("lists catalog", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		cmd := NewCodesCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		if len(lines) != 9 {
			t.Fatalf("expected 9 lines, got %d:\n%s", len(lines), out.String())
		}
		if lines[0] != "GHS01  Explosive" {
			t.Errorf("first line = %q", lines[0])
		}
		if lines[8] != "GHS09  Environment hazard" {
			t.Errorf("last line = %q", lines[8])
		}
	})

	t.Run("single code accepts lowercase", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		cmd := NewCodesCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"ghs06"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := out.String(); got != "GHS06  Toxic\n" {
			t.Errorf("output = %q", got)
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		cmd := NewCodesCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--json"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var hazards []ghs.Hazard
		if err := json.Unmarshal(out.Bytes(), &hazards); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(hazards) != 9 || hazards[1].Code != ghs.Flammable {
			t.Errorf("unexpected hazards: %+v", hazards)
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		t.Parallel()

		cmd := NewCodesCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"GHS10"})

		err := cmd.Execute()
		if !errors.Is(err, ghs.ErrUnknownCode) {
			t.Errorf("expected ErrUnknownCode, got %v", err)
		}
	})
}
