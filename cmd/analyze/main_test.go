package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cashpulse/internal/config"
	"cashpulse/internal/models"
	"cashpulse/internal/sample"
	"cashpulse/internal/services/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDirectory = t.TempDir()
	cfg.LogLevel = "error"
	return cfg
}

func writeLedger(t *testing.T, cfg *config.Config, name string, seal bool) {
	t.Helper()
	data, err := json.Marshal(sample.Ledger(time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	store := storage.New(cfg.DataDirectory)
	if seal {
		if err := store.Unlock("correct horse"); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.WriteFile(name, data, 0600, seal); err != nil {
		t.Fatalf("Failed to write ledger: %v", err)
	}
}

func withPassphrase(t *testing.T, passphrase string) {
	t.Helper()
	orig := readPassphrase
	readPassphrase = func(io.Writer) (string, error) { return passphrase, nil }
	t.Cleanup(func() { readPassphrase = orig })
}

func decodeReport(t *testing.T, data []byte) models.Report {
	t.Helper()
	var report models.Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("Invalid report JSON: %v", err)
	}
	return report
}

func TestRunPlainLedger(t *testing.T) {
	cfg := testConfig(t)
	writeLedger(t, cfg, "ledger.json", false)

	var stdout bytes.Buffer
	if err := run([]string{"-in", "ledger.json"}, cfg, &stdout, io.Discard); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	report := decodeReport(t, stdout.Bytes())
	if !report.Success || len(report.Patterns) != len(sample.OutflowCategories) {
		t.Errorf("Unexpected report: success=%v patterns=%d", report.Success, len(report.Patterns))
	}
}

func TestRunOverrides(t *testing.T) {
	cfg := testConfig(t)

	var withDebt, noDebt bytes.Buffer
	if err := run([]string{"-sample", "-balance", "100", "-debt", "50000"}, cfg, &withDebt, io.Discard); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if err := run([]string{"-sample", "-balance", "100", "-debt", "0"}, cfg, &noDebt, io.Discard); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if decodeReport(t, withDebt.Bytes()).HealthScore >= decodeReport(t, noDebt.Bytes()).HealthScore {
		t.Error("Expected a large debt override to lower the health score")
	}
}

func TestRunLogsConfigWarnings(t *testing.T) {
	cfg := testConfig(t)
	cfg.LogLevel = "warn"
	cfg.Warnings = []string{`ignoring invalid CASHPULSE_READ_TIMEOUT "soon"`}

	var stderr bytes.Buffer
	if err := run([]string{"-sample"}, cfg, io.Discard, &stderr); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(stderr.String(), "CASHPULSE_READ_TIMEOUT") {
		t.Errorf("Expected the config warning on stderr, got %q", stderr.String())
	}
}

func TestRunCSV(t *testing.T) {
	cfg := testConfig(t)
	csvData := "Data,Histórico,Valor,Categoria\n" +
		"2024-01-05,SALARIO ACME,5000.00,Receitas\n" +
		"2024-01-06,Mercado,-250.40,Alimentação\n" +
		"2024-02-06,Mercado,-310.00,Alimentação\n"
	if err := os.WriteFile(filepath.Join(cfg.DataDirectory, "export.csv"), []byte(csvData), 0600); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	if err := run([]string{"-csv", "export.csv", "-balance", "4439.60"}, cfg, &stdout, io.Discard); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	report := decodeReport(t, stdout.Bytes())
	if len(report.Patterns) != 1 || report.Patterns[0].Category != "Alimentação" {
		t.Errorf("Expected one Alimentação pattern, got %+v", report.Patterns)
	}
}

func TestRunSealedRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	writeLedger(t, cfg, "ledger.age", true)
	withPassphrase(t, "correct horse")

	if err := run([]string{"-in", "ledger.age", "-out", "report.age", "-seal"}, cfg, io.Discard, io.Discard); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	store := storage.New(cfg.DataDirectory)
	if sealed, err := store.IsSealedFile("report.age"); err != nil || !sealed {
		t.Fatalf("Expected sealed report, sealed=%v err=%v", sealed, err)
	}
	if _, err := store.ReadFile("report.age"); !errors.Is(err, storage.ErrLocked) {
		t.Errorf("Expected ErrLocked without passphrase, got %v", err)
	}

	if err := store.Unlock("correct horse"); err != nil {
		t.Fatal(err)
	}
	data, err := store.ReadFile("report.age")
	if err != nil {
		t.Fatalf("Failed to read sealed report: %v", err)
	}
	if !decodeReport(t, data).Success {
		t.Error("Expected a successful report")
	}
}

func TestRunWrongPassphrase(t *testing.T) {
	cfg := testConfig(t)
	writeLedger(t, cfg, "ledger.age", true)
	withPassphrase(t, "wrong")

	if err := run([]string{"-in", "ledger.age"}, cfg, io.Discard, io.Discard); err == nil {
		t.Error("Expected error with wrong passphrase")
	}
}

func TestRunUsageErrors(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name string
		args []string
	}{
		{"no input", []string{}},
		{"seal without out", []string{"-sample", "-seal"}},
		{"missing file", []string{"-in", "absent.json"}},
		{"unknown flag", []string{"-frobnicate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(tt.args, cfg, io.Discard, io.Discard); err == nil {
				t.Error("Expected error")
			}
		})
	}
}
