// Dtstrip removes PMU nodes (or any other named blocks) from a device
// tree source file, rewriting the file in place.
//
// Usage:
//
//	dtstrip [flags] file
//
// Without a file argument dtstrip does nothing.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"mibk.dev/dtstrip/strip"
	"rsc.io/diff"
)

// errUsage is returned for bad flags after the usage has been printed.
var errUsage = errors.New("usage")

func main() {
	log.SetPrefix("dtstrip: ")
	log.SetFlags(0)

	err := run(os.Args[1:], os.Stdout, os.Stderr)
	if errors.Is(err, errUsage) {
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := pflag.NewFlagSet("dtstrip", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	nodes := flags.StringSliceP("node", "n", nil, "node `signature` to remove; replaces the default list")
	word := flags.BoolP("word", "w", false, "match signatures only at word boundaries")
	showDiff := flags.BoolP("diff", "d", false, "display diff instead of rewriting the file")
	verbose := flags.BoolP("verbose", "v", false, "log every removed block")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: dtstrip [flags] file\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		fmt.Fprintf(stderr, "dtstrip: %v\n", err)
		flags.Usage()
		return errUsage
	}
	if flags.NArg() == 0 {
		return nil
	}
	filename := flags.Arg(0)

	logger := newLogger(stderr, *verbose)
	defer logger.Sync()

	s, err := newConfigFinder().resolve(filename, *nodes, *word)
	if err != nil {
		return err
	}
	logger.Debug("settings",
		zap.String("file", filename),
		zap.Strings("nodes", s.nodes),
		zap.Bool("word", s.opts&strip.WordBoundary != 0))

	if *showDiff {
		return diffFile(stdout, filename, s, logger)
	}
	if err := stripFile(filename, s, logger); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Patched %s successfully.\n", filename)
	return nil
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), zapcore.DebugLevel))
}

func stripFile(filename string, s settings, logger *zap.Logger) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return fmt.Errorf("%s: is a directory", filename)
	}

	var res *strip.Result
	err = writeFile(filename, fi.Mode().Perm(), func(w io.Writer) error {
		var err error
		res, err = strip.Pipe(w, f, s.nodes, s.opts)
		return err
	})
	if err != nil {
		return err
	}
	logResult(logger, filename, res)
	return nil
}

func diffFile(out io.Writer, filename string, s settings, logger *zap.Logger) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	res, err := strip.Pipe(&buf, bytes.NewReader(src), s.nodes, s.opts)
	if err != nil {
		return fmt.Errorf("%s: %v", filename, err)
	}
	logResult(logger, filename, res)
	if !res.Changed() {
		return nil
	}
	fmt.Fprintf(out, "diff %s dtstrip/%s\n", filename, filepath.Base(filename))
	_, err = io.WriteString(out, diff.Format(string(src), buf.String()))
	return err
}

func logResult(logger *zap.Logger, filename string, res *strip.Result) {
	for _, b := range res.Blocks {
		logger.Debug("removed block",
			zap.String("file", filename),
			zap.String("node", b.Node),
			zap.Int("start", b.Start),
			zap.Int("end", b.End))
	}
	logger.Debug("done",
		zap.String("file", filename),
		zap.Int("lines", res.Lines),
		zap.Int("kept", res.Kept),
		zap.Int("removed", res.Lines-res.Kept))
}
