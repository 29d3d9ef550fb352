// Command duperq runs a §6.2 query against a stream of newline-separated
// Duper documents (§4.K/§6.3): each line is parsed independently and fed
// through the compiled pipeline, one output line per surviving value.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	duper "github.com/duperfmt/duper"
	"github.com/duperfmt/duper/duperq"
	"github.com/duperfmt/duper/parser"
	"github.com/duperfmt/duper/reporter"
)

type options struct {
	File            string `short:"f" long:"file" value-name:"file" default:"-" description:"input documents, one per line, or - for stdin"`
	ContinueOnError bool   `long:"continue-on-error" description:"skip malformed input lines instead of stopping at the first one"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger := zap.Must(zap.NewDevelopment())
	defer logger.Sync() //nolint:errcheck

	var opts options
	p := flags.NewParser(&opts, flags.Default)
	p.Usage = "[options] <query>"
	rest, err := p.ParseArgs(args)
	if err != nil {
		if flags.WroteHelp(err) {
			return 0
		}
		logger.Error("invalid arguments", zap.Error(err))
		return 3
	}
	if len(rest) == 0 {
		logger.Error("missing query argument")
		return 3
	}

	pipeline, err := duperq.ParseQuery(rest[0])
	if err != nil {
		logger.Error("query error", zap.Error(err))
		return 2
	}

	in, err := openInput(opts.File)
	if err != nil {
		logger.Error("failed to open input", zap.String("file", opts.File), zap.Error(err))
		return 3
	}
	defer in.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	values := make(chan duper.Value)
	parseErrCh := make(chan error, 1)

	// With --continue-on-error, a malformed line is a warning rather than
	// an abort: the handler's ErrorReporter returns nil to keep scanning,
	// and handler.Warnings() at the end reports how many lines were
	// dropped. Without the flag, reportFn stays nil and NewHandler's
	// default applies — fail fast on the first error.
	var reportFn reporter.ErrorReporter
	if opts.ContinueOnError {
		reportFn = func(err reporter.ErrorWithPos) error { return nil }
	}
	handler := reporter.NewHandler(reportFn, nil)

	go func() {
		defer close(values)
		scanner := bufio.NewScanner(in)
		line := 0
		for scanner.Scan() {
			line++
			text := scanner.Text()
			if text == "" {
				continue
			}
			v, err := parser.Parse([]byte(text), fmt.Sprintf("<stdin>:%d", line))
			if err != nil {
				perr, ok := err.(reporter.ErrorWithPos)
				if !ok {
					perr = reporter.Error(duper.SourcePos{}, err)
				}
				if herr := handler.HandleError(perr); herr != nil {
					select {
					case parseErrCh <- herr:
					default:
					}
					return
				}
				handler.HandleWarning(perr)
				continue // --continue-on-error: reportFn swallowed it, skip the line
			}
			select {
			case values <- v:
			case <-ctx.Done():
				return
			}
		}
	}()

	out := bufio.NewWriter(os.Stdout)
	var writeErr error
	runErr := pipeline.Run(ctx, values, func(line string) {
		if writeErr != nil {
			return
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			writeErr = err
		}
	})
	if flushErr := out.Flush(); flushErr != nil && writeErr == nil {
		writeErr = flushErr
	}

	select {
	case perr := <-parseErrCh:
		logger.Error("parse error", zap.Error(perr))
		return 1
	default:
	}

	if writeErr != nil {
		logger.Error("I/O error", zap.Error(writeErr))
		return 3
	}
	if runErr != nil {
		logger.Error("pipeline error", zap.Error(runErr))
		return 3
	}
	if n := len(handler.Warnings()); n > 0 {
		logger.Warn("skipped malformed input lines", zap.Int("count", n))
	}
	return 0
}

func openInput(filename string) (readCloser, error) {
	if filename == "-" || filename == "" {
		return nopCloser{os.Stdin}, nil
	}
	return os.Open(filename)
}

type readCloser interface {
	Read([]byte) (int, error)
	Close() error
}

type nopCloser struct{ *os.File }

func (nopCloser) Close() error { return nil }
