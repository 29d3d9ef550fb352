// Command duper reformats a single Duper document (§6.1/§6.3): read from
// a file or stdin, write the canonical, minified, or pretty-printed
// rendering to a file or stdout.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/duperfmt/duper/format"
	"github.com/duperfmt/duper/parser"
	"github.com/duperfmt/duper/reporter"
)

type options struct {
	Pretty           bool   `long:"pretty" description:"pretty-print with the given indent instead of the canonical one-line form"`
	Minified         bool   `long:"minified" description:"omit optional whitespace in the canonical form"`
	Indent           int    `long:"indent" default:"2" description:"indent width used with --pretty"`
	StripIdentifiers bool   `long:"strip-identifiers" description:"omit tagged-value identifiers from the output"`
	Output           string `short:"o" long:"output" value-name:"file" default:"-" description:"output file, or - for stdout"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger := zap.Must(zap.NewDevelopment())
	defer logger.Sync() //nolint:errcheck

	var opts options
	p := flags.NewParser(&opts, flags.Default)
	p.Usage = "[options] [file]"
	rest, err := p.ParseArgs(args)
	if err != nil {
		if flags.WroteHelp(err) {
			return 0
		}
		logger.Error("invalid arguments", zap.Error(err))
		return 3
	}

	filename := "-"
	if len(rest) > 0 {
		filename = rest[0]
	}
	src, err := readInput(filename)
	if err != nil {
		logger.Error("failed to read input", zap.String("file", filename), zap.Error(err))
		return 3
	}

	value, err := parser.Parse(src, filename)
	if err != nil {
		logger.Error("parse error", zap.Error(err))
		if errWithPos, ok := err.(reporter.ErrorWithPos); ok {
			fmt.Fprintf(os.Stderr, "%s\n", errWithPos.GetPosition())
		}
		return 1
	}

	if opts.StripIdentifiers && !opts.Pretty {
		// The pretty path strips recursively on its own (format.PrettyOptions.
		// StripIdentifiers, applied per node); the canonical path doesn't take
		// that option, so strip the whole tree up front instead.
		value = value.WithoutIdentifierRecursive()
	}

	var out string
	switch {
	case opts.Pretty:
		out = format.NewPrettyPrinter(format.PrettyOptions{
			Indent:           opts.Indent,
			StripIdentifiers: opts.StripIdentifiers,
		}).Print(value)
	default:
		out = format.Canonical(value, opts.Minified)
	}

	if err := writeOutput(opts.Output, out); err != nil {
		logger.Error("failed to write output", zap.String("file", opts.Output), zap.Error(err))
		return 3
	}
	return 0
}

func readInput(filename string) ([]byte, error) {
	if filename == "-" || filename == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(filename)
}

func writeOutput(filename, text string) error {
	var w io.Writer = os.Stdout
	if filename != "-" && filename != "" {
		f, err := os.Create(filename)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	_, err := io.Copy(w, bytes.NewBufferString(text+"\n"))
	return err
}
