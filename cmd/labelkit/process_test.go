package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/labelkit/internal/config"
	"github.com/nao1215/labelkit/internal/database"
	"github.com/nao1215/labelkit/internal/report"
)

const testManifest = `reagents:
  - name: acetone
    labelFile: labels/acetone.html
    hazards:
      - Highly flammable liquid and vapour
      - Causes serious eye irritation
  - name: water
    label: "<b>Water</b>"
`

// writeTestManifest writes testManifest and its label file into a new
// temporary directory and returns the manifest path.
func writeTestManifest(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "labels"), 0750); err != nil {
		t.Fatal(err)
	}
	label := `<html><body><p style="font-family:Arial;">Acetone</p></body></html>`
	if err := os.WriteFile(filepath.Join(dir, "labels", "acetone.html"), []byte(label), 0600); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "reagents.yaml")
	if err := os.WriteFile(path, []byte(testManifest), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeJSONReport(t *testing.T, data []byte) *report.JSONReport {
	t.Helper()

	var r report.JSONReport
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatalf("invalid JSON report: %v\n%s", err, data)
	}
	if r.Summary == nil {
		t.Fatal("expected summary in JSON report")
	}
	return &r
}

func TestNewProcessCmd(t *testing.T) {
	t.Parallel()

	cmd := NewProcessCmd()

	if cmd.Use != "process <manifest>" {
		t.Errorf("unexpected use %q", cmd.Use)
	}

	flags := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"batch-size", "b", "4"},
		{"config", "c", ""},
		{"json", "j", "false"},
		{"markdown", "m", "false"},
		{"output", "o", ""},
		{"no-save", "", "false"},
		{"fail-fast", "", "false"},
		{"elide", "", "32"},
		{"log-json", "", "false"},
		{"progress", "p", "false"},
	}
	for _, f := range flags {
		t.Run(f.name, func(t *testing.T) {
			t.Parallel()
			flag := cmd.Flags().Lookup(f.name)
			if flag == nil {
				t.Fatalf("expected %s flag", f.name)
			}
			if flag.Shorthand != f.shorthand {
				t.Errorf("expected shorthand %q, got %q", f.shorthand, flag.Shorthand)
			}
			if flag.DefValue != f.defValue {
				t.Errorf("expected default %q, got %q", f.defValue, flag.DefValue)
			}
		})
	}
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("flags", func(t *testing.T) {
		t.Parallel()

		settings := filepath.Join(t.TempDir(), "settings.yaml")
		if err := os.WriteFile(settings, []byte("batchSize: 2\n"), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewProcessCmd()
		if err := cmd.ParseFlags([]string{"-c", settings, "--json", "--no-save", "--fail-fast", "--elide", "16"}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, []string{"reagents.yaml"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ManifestPath != "reagents.yaml" {
			t.Errorf("ManifestPath = %q", cfg.ManifestPath)
		}
		if !cfg.JSONReport || cfg.SaveToDB || cfg.ContinueOnError {
			t.Errorf("unexpected flags: json=%v save=%v continue=%v", cfg.JSONReport, cfg.SaveToDB, cfg.ContinueOnError)
		}
		if cfg.ElideLength != 16 {
			t.Errorf("ElideLength = %d", cfg.ElideLength)
		}
		if cfg.BatchSize != 2 {
			t.Errorf("expected batch size from settings file, got %d", cfg.BatchSize)
		}
	})

	t.Run("flag overrides settings file", func(t *testing.T) {
		t.Parallel()

		settings := filepath.Join(t.TempDir(), "settings.yaml")
		if err := os.WriteFile(settings, []byte("batchSize: 2\n"), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewProcessCmd()
		if err := cmd.ParseFlags([]string{"-c", settings, "-b", "6"}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, []string{"reagents.yaml"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.BatchSize != 6 {
			t.Errorf("expected batch size 6, got %d", cfg.BatchSize)
		}
	})

	t.Run("missing explicit settings file", func(t *testing.T) {
		t.Parallel()

		cmd := NewProcessCmd()
		if err := cmd.ParseFlags([]string{"-c", filepath.Join(t.TempDir(), "missing.yaml")}); err != nil {
			t.Fatal(err)
		}

		_, err := buildConfig(cmd, []string{"reagents.yaml"})
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid settings file", func(t *testing.T) {
		t.Parallel()

		settings := filepath.Join(t.TempDir(), "settings.yaml")
		if err := os.WriteFile(settings, []byte("batchSize: [\n"), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewProcessCmd()
		if err := cmd.ParseFlags([]string{"-c", settings}); err != nil {
			t.Fatal(err)
		}

		if _, err := buildConfig(cmd, []string{"reagents.yaml"}); err == nil {
			t.Error("expected error for malformed settings file")
		}
	})
}

func TestRunProcess(t *testing.T) {
	t.Parallel()

	t.Run("json report without database", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.ManifestPath = writeTestManifest(t)
		cfg.SaveToDB = false
		cfg.JSONReport = true

		var out bytes.Buffer
		if err := runProcess(context.Background(), cfg, &out, io.Discard, discardLogger()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		r := decodeJSONReport(t, out.Bytes())
		s := r.Summary
		if s.Total != 2 || s.Labeled != 2 || s.Unclassified != 1 || s.Failed != 0 {
			t.Errorf("unexpected counts: %+v", s)
		}
		if len(s.Codes) != 1 || s.Codes[0].Code != "GHS02" || s.Codes[0].Name != "Flammable" {
			t.Errorf("unexpected codes: %+v", s.Codes)
		}
		if len(s.Reports) != 2 || s.Reports[0].Reagent != "acetone" || s.Reports[1].Reagent != "water" {
			t.Fatalf("reports not in manifest order: %+v", s.Reports)
		}
		if got := s.Reports[0].Label; got != `<p style="">Acetone</p>` {
			t.Errorf("acetone label = %q", got)
		}
		if got := s.Reports[1].PlainText; got != "Water" {
			t.Errorf("water text = %q", got)
		}
	})

	t.Run("stores results and detects unchanged labels", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.ManifestPath = writeTestManifest(t)
		cfg.DBDir = t.TempDir()
		cfg.JSONReport = true

		var first bytes.Buffer
		if err := runProcess(context.Background(), cfg, &first, io.Discard, discardLogger()); err != nil {
			t.Fatalf("first run: %v", err)
		}
		for _, r := range decodeJSONReport(t, first.Bytes()).Summary.Reports {
			if r.Unchanged {
				t.Errorf("%s: expected changed label on first run", r.Reagent)
			}
		}

		var second bytes.Buffer
		if err := runProcess(context.Background(), cfg, &second, io.Discard, discardLogger()); err != nil {
			t.Fatalf("second run: %v", err)
		}
		for _, r := range decodeJSONReport(t, second.Bytes()).Summary.Reports {
			if !r.Unchanged {
				t.Errorf("%s: expected unchanged label on second run", r.Reagent)
			}
		}

		db, err := database.Open(cfg.DBDir, database.Options{})
		if err != nil {
			t.Fatal(err)
		}
		defer db.Close()

		ctx := context.Background()
		names, err := db.FindByCode(ctx, "GHS02")
		if err != nil {
			t.Fatal(err)
		}
		if len(names) != 1 || names[0] != "acetone" {
			t.Errorf("FindByCode(GHS02) = %v", names)
		}

		runs, err := db.ListRuns(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(runs) != 2 {
			t.Errorf("expected 2 runs, got %d", len(runs))
		}
	})

	t.Run("settings add hazards and skip reagents", func(t *testing.T) {
		t.Parallel()

		settings := &config.File{
			Reagents: map[string]config.ReagentConfig{
				"water": {Skip: true},
			},
			Defaults: config.ReagentConfig{Hazards: []string{"Harmful if swallowed"}},
		}

		cfg := config.NewConfig()
		cfg.ManifestPath = writeTestManifest(t)
		cfg.SaveToDB = false
		cfg.JSONReport = true
		cfg.Settings = settings

		var out bytes.Buffer
		if err := runProcess(context.Background(), cfg, &out, io.Discard, discardLogger()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		s := decodeJSONReport(t, out.Bytes()).Summary
		if s.Total != 1 {
			t.Fatalf("expected skipped reagent to be left out, got %d reports", s.Total)
		}
		if got := strings.Join(s.Reports[0].Hazards, ","); got != "GHS02,GHS07" {
			t.Errorf("hazards = %s", got)
		}
	})

	t.Run("report file", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.ManifestPath = writeTestManifest(t)
		cfg.SaveToDB = false
		cfg.MarkdownReport = true
		cfg.ReportFile = filepath.Join(t.TempDir(), "out", "labels.md")

		var out bytes.Buffer
		if err := runProcess(context.Background(), cfg, &out, io.Discard, discardLogger()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Len() != 0 {
			t.Errorf("expected nothing on stdout, got %q", out.String())
		}

		content, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("report file not written: %v", err)
		}
		if !strings.Contains(string(content), "# Label Report") {
			t.Errorf("unexpected markdown report:\n%s", content)
		}
	})

	t.Run("progress lines", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.ManifestPath = writeTestManifest(t)
		cfg.SaveToDB = false
		cfg.Progress = true

		var stderr bytes.Buffer
		if err := runProcess(context.Background(), cfg, io.Discard, &stderr, discardLogger()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(stderr.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected 2 progress lines, got %q", stderr.String())
		}
		for _, want := range []string{"acetone: ok", "water: ok"} {
			if !strings.Contains(stderr.String(), want) {
				t.Errorf("expected progress to contain %q, got %q", want, stderr.String())
			}
		}
		if !strings.HasPrefix(lines[0], "[1/2] ") || !strings.HasPrefix(lines[1], "[2/2] ") {
			t.Errorf("unexpected counters: %q", lines)
		}
	})

	t.Run("cancelled run is not stored", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.ManifestPath = writeTestManifest(t)
		cfg.DBDir = t.TempDir()
		cfg.JSONReport = true

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var out bytes.Buffer
		err := runProcess(ctx, cfg, &out, io.Discard, discardLogger())
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}

		s := decodeJSONReport(t, out.Bytes()).Summary
		if s.Cancelled != 2 || s.Empty != 0 {
			t.Errorf("unexpected counts: %+v", s)
		}

		db, err := database.Open(cfg.DBDir, database.Options{})
		if err != nil {
			t.Fatal(err)
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if len(runs) != 0 {
			t.Errorf("expected no stored run, got %d", len(runs))
		}
	})

	t.Run("missing manifest", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.ManifestPath = filepath.Join(t.TempDir(), "missing.yaml")
		cfg.SaveToDB = false

		if err := runProcess(context.Background(), cfg, io.Discard, io.Discard, discardLogger()); err == nil {
			t.Error("expected error for missing manifest")
		}
	})
}

// TestProcessCmdExecute runs the command end to end. It is not parallel
// because the command replaces the default logger.
func TestProcessCmdExecute(t *testing.T) {
	manifest := writeTestManifest(t)

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"process", "--no-save", manifest})

	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v\nstderr: %s", err, errOut.String())
	}

	for _, want := range []string{"LABELKIT REPORT", "acetone", "water", "GHS02"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out.String())
		}
	}

	t.Run("json logs", func(t *testing.T) {
		var out, errOut bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&out)
		root.SetErr(&errOut)
		root.SetArgs([]string{"process", "--no-save", "--log-json", "-v", manifest})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		first := strings.SplitN(strings.TrimSpace(errOut.String()), "\n", 2)[0]
		var record map[string]any
		if err := json.Unmarshal([]byte(first), &record); err != nil {
			t.Fatalf("expected JSON log line, got %q: %v", first, err)
		}
		if _, ok := record["msg"]; !ok {
			t.Errorf("expected msg key in %v", record)
		}
	})

	t.Run("conflicting formats", func(t *testing.T) {
		root := NewRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs([]string{"process", "--no-save", "--json", "--markdown", manifest})

		err := root.Execute()
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})
}
