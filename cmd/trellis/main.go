// Command trellis evaluates a Lisp scene script into a document and prints
// an inventory of the properties it holds.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/chazu/trellis/pkg/config"
	"github.com/chazu/trellis/pkg/engine"
	"github.com/chazu/trellis/pkg/logging"
	"github.com/chazu/trellis/pkg/property"
	"github.com/chazu/trellis/pkg/transform"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "trellis: .env:", err)
	}
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "trellis:", err)
		os.Exit(1)
	}
}

func run(out, errOut io.Writer, args []string) error {
	fset := flag.NewFlagSet("trellis", flag.ContinueOnError)
	fset.SetOutput(errOut)
	configPath := fset.String("config", "", "path to a TOML config file")
	prune := fset.Bool("prune", false, "dispose resources nothing uses")
	dedup := fset.Bool("dedup", false, "merge identical textures and accessors")
	asJSON := fset.Bool("json", false, "write the report as JSON")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if fset.NArg() != 1 {
		return errors.New("usage: trellis [-config file] [-prune] [-dedup] [-json] script.lisp")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, errOut)
	if err != nil {
		return err
	}

	source, err := os.ReadFile(fset.Arg(0))
	if err != nil {
		return err
	}

	eng := engine.NewEngine(
		engine.WithMeshCells(cfg.Kernel.Cells),
		engine.WithTimeout(cfg.Engine.Timeout.Duration),
		engine.WithLogger(logger),
	)
	res, err := eng.Run(string(source))
	if err != nil {
		return err
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			logger.Error(e.Message, "line", e.Line)
		}
		return fmt.Errorf("%s: %d errors", fset.Arg(0), len(res.Errors))
	}
	for _, w := range res.Warnings {
		logger.Warn(w.Message, "property", w.Property)
	}

	doc := res.Document
	if err := optimize(doc, *prune, *dedup, logger); err != nil {
		return err
	}
	report, err := buildReport(doc, res.Warnings)
	if err != nil {
		return err
	}
	if *asJSON {
		return writeJSON(out, report)
	}
	printInventory(out, report)
	return nil
}

func optimize(doc *property.Document, prune, dedup bool, logger *log.Logger) error {
	opt := transform.WithLogger(logger)
	var total transform.Report
	if dedup {
		r, err := transform.DedupTextures(doc, opt)
		if err != nil {
			return err
		}
		total.Add(r)
		if r, err = transform.DedupAccessors(doc, opt); err != nil {
			return err
		}
		total.Add(r)
	}
	if prune {
		total.Add(transform.Prune(doc, opt))
	}
	if prune || dedup {
		logger.Info("optimized", "disposed", total.Disposed, "merged", total.Merged)
	}
	return nil
}
