// Package main provides an offline CLI that analyzes a ledger file and
// writes the report to stdout or a (optionally sealed) file.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"cashpulse/internal/config"
	"cashpulse/internal/logging"
	"cashpulse/internal/models"
	"cashpulse/internal/sample"
	"cashpulse/internal/services/analysis"
	"cashpulse/internal/services/dataloader"
	"cashpulse/internal/services/storage"
)

// readPassphrase returns the passphrase for sealed files, from
// CASHPULSE_PASSPHRASE or an interactive prompt
var readPassphrase = func(stderr io.Writer) (string, error) {
	if p := os.Getenv("CASHPULSE_PASSPHRASE"); p != "" {
		return p, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("a passphrase is required: set CASHPULSE_PASSPHRASE or run interactively")
	}
	fmt.Fprint(stderr, "Passphrase: ")
	p, err := term.ReadPassword(fd)
	fmt.Fprintln(stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return strings.TrimSpace(string(p)), nil
}

func main() {
	if err := run(os.Args[1:], config.Load(), os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	in       string
	csv      string
	out      string
	seal     bool
	demo     bool
	verbose  bool
	balance  float64
	debt     float64
	setFlags map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{setFlags: make(map[string]bool)}
	fs.StringVar(&opts.in, "in", "", "JSON ledger file (plain or sealed)")
	fs.StringVar(&opts.csv, "csv", "", "bank CSV export whose rows are added to the ledger")
	fs.StringVar(&opts.out, "out", "", "write the report to this file instead of stdout")
	fs.BoolVar(&opts.seal, "seal", false, "encrypt the report written with -out")
	fs.BoolVar(&opts.demo, "sample", false, "analyze a generated sample ledger")
	fs.BoolVar(&opts.verbose, "v", false, "log at debug level")
	fs.Float64Var(&opts.balance, "balance", 0, "current cash balance (overrides the ledger)")
	fs.Float64Var(&opts.debt, "debt", 0, "total debt (overrides the ledger)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.setFlags[f.Name] = true })

	switch {
	case opts.in == "" && opts.csv == "" && !opts.demo:
		return nil, errors.New("one of -in, -csv or -sample is required")
	case opts.seal && opts.out == "":
		return nil, errors.New("-seal requires -out")
	}
	return opts, nil
}

func run(args []string, cfg *config.Config, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if opts.verbose {
		level = "debug"
	}
	logger := logging.NewWithOutput(stderr, level, "text")
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	store := storage.New(cfg.DataDirectory)
	if err := unlockIfNeeded(store, opts, stderr); err != nil {
		return err
	}

	req, err := buildRequest(store, logger, opts)
	if err != nil {
		return err
	}

	policy, err := analysis.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return err
	}
	catalog, err := analysis.CatalogFor(cfg.Locale)
	if err != nil {
		return err
	}
	a, err := analysis.New(
		analysis.WithPolicy(policy),
		analysis.WithCatalog(catalog),
		analysis.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	report, err := a.AnalyzeWithID(uuid.NewString(), req)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	if opts.out == "" {
		_, err = stdout.Write(append(data, '\n'))
		return err
	}

	if err := cfg.EnsureDataDirectory(); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := store.WriteFile(opts.out, data, 0600, opts.seal); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"path":   store.Resolve(opts.out),
		"sealed": opts.seal,
		"score":  report.HealthScore,
	}).Info("Report written")
	return nil
}

// unlockIfNeeded asks for a passphrase only when an input is sealed or the
// report must be sealed
func unlockIfNeeded(store *storage.Storage, opts *options, stderr io.Writer) error {
	needed := opts.seal
	for _, path := range []string{opts.in, opts.csv} {
		if path == "" || needed {
			continue
		}
		sealed, err := store.IsSealedFile(path)
		if err != nil {
			return err
		}
		needed = sealed
	}
	if !needed {
		return nil
	}

	passphrase, err := readPassphrase(stderr)
	if err != nil {
		return err
	}
	return store.Unlock(passphrase)
}

func buildRequest(store *storage.Storage, logger *logrus.Logger, opts *options) (*models.AnalysisRequest, error) {
	loader := dataloader.New(store, logger)

	req := &models.AnalysisRequest{}
	switch {
	case opts.demo:
		req = sample.Ledger(time.Now())
	case opts.in != "":
		var err error
		if req, err = loader.LoadLedger(opts.in); err != nil {
			return nil, err
		}
	}

	if opts.csv != "" {
		records, err := loader.LoadCSVFile(opts.csv)
		if err != nil {
			return nil, err
		}
		req.Transactions = append(req.Transactions, records...)
	}

	if opts.setFlags["balance"] {
		req.CurrentBalance = opts.balance
	}
	if opts.setFlags["debt"] {
		debt := opts.debt
		req.TotalDebt = &debt
	}
	return req, nil
}
