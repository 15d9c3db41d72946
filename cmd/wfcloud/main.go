package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/viant/wfcloud"
	"github.com/viant/wfcloud/tracing"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is set at build time
var Version = "dev"

const (
	exitOK         = 0
	exitConversion = 1
	exitUsage      = 2
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

type options struct {
	output      string
	rules       string
	config      string
	envFile     string
	suffix      string
	annotate    bool
	dryRun      bool
	force       bool
	datasetBase int64
	trace       string
	debug       bool
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	flags := flag.NewFlagSet("wfcloud", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: wfcloud [flags] workflow.json...\n")
		flags.PrintDefaults()
	}
	flags.StringVar(&opts.output, "o", "", "output URL, single input only")
	flags.StringVar(&opts.rules, "rules", "", "rule set URL, built-in cloud rules when empty")
	flags.StringVar(&opts.config, "config", "", "config URL (YAML)")
	flags.StringVar(&opts.envFile, "env", ".env", "dotenv file, ignored when missing")
	flags.StringVar(&opts.suffix, "suffix", wfcloud.DefaultSuffix, "suffix inserted before the output extension")
	flags.BoolVar(&opts.annotate, "annotate", false, "update DefaultAnnotationText of converted nodes")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print a unified diff instead of writing output")
	flags.BoolVar(&opts.force, "force", false, "overwrite existing output")
	flags.Int64Var(&opts.datasetBase, "dataset-base", 0, "first dataset id, overrides rule set base")
	flags.StringVar(&opts.trace, "trace", "", "write OpenTelemetry spans to the file")
	flags.BoolVar(&opts.debug, "debug", false, "debug logging")
	return flags
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &options{}
	flags := newFlagSet(opts, stderr)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	inputs := flags.Args()
	if len(inputs) == 0 {
		flags.Usage()
		return exitUsage
	}
	if opts.output != "" && len(inputs) > 1 {
		fmt.Fprintf(stderr, "-o requires a single input, got %d\n", len(inputs))
		return exitUsage
	}
	if err := loadEnv(opts.envFile); err != nil {
		fmt.Fprintf(stderr, "failed to load %s: %v\n", opts.envFile, err)
		return exitUsage
	}
	config, err := buildConfig(ctx, flags, opts)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	logger := initLogger(opts.debug, stderr)
	defer func() { _ = logger.Sync() }()

	if config.TraceFile != "" {
		if err := tracing.Init("wfcloud", Version, config.TraceFile); err != nil {
			logger.Error("failed to initialize tracing", zap.Error(err))
			return exitUsage
		}
		defer func() {
			if err := tracing.Shutdown(context.Background()); err != nil {
				logger.Warn("failed to flush traces", zap.Error(err))
			}
		}()
	}

	srv, err := wfcloud.New(wfcloud.WithConfig(config), wfcloud.WithLogger(logger))
	if err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return exitUsage
	}
	set, err := srv.LoadRules(ctx)
	if err != nil {
		logger.Error("failed to load rules", zap.Error(err))
		return exitConversion
	}

	var results []*wfcloud.Result
	if opts.output != "" {
		result, _ := srv.Convert(ctx, set, inputs[0], opts.output)
		results = append(results, result)
	} else {
		results, _ = srv.ConvertAll(ctx, set, inputs...)
	}
	code := exitOK
	for _, result := range results {
		if result.Err != nil {
			fmt.Fprintf(stderr, "failed: %s: %v\n", result.InputURL, result.Err)
			code = exitConversion
			continue
		}
		if config.DryRun {
			fmt.Fprintf(stdout, "%s", result.Diff)
			fmt.Fprintf(stdout, "dry run: %s (%v, %d of %d nodes converted)\n", result.InputURL, result.Stats, result.Report.Converted(), result.Report.Nodes)
			continue
		}
		fmt.Fprintf(stdout, "converted: %s -> %s (%d of %d nodes)\n", result.InputURL, result.OutputURL, result.Report.Converted(), result.Report.Nodes)
	}
	if len(results) < len(inputs) {
		code = exitConversion
	}
	return code
}

// loadEnv loads dotenv variables without overriding the process environment
func loadEnv(fileName string) error {
	if fileName == "" {
		return nil
	}
	if _, err := os.Stat(fileName); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(fileName)
}

// buildConfig loads the config file and overrides it with explicitly set flags
func buildConfig(ctx context.Context, flags *flag.FlagSet, opts *options) (*wfcloud.Config, error) {
	config := wfcloud.DefaultConfig()
	if opts.config != "" {
		loaded, err := wfcloud.LoadConfig(ctx, opts.config)
		if err != nil {
			return nil, err
		}
		config = loaded
	}
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rules":
			config.Rules = opts.rules
		case "suffix":
			config.Suffix = opts.suffix
		case "annotate":
			config.Annotate = opts.annotate
		case "dry-run":
			config.DryRun = opts.dryRun
		case "force":
			config.Overwrite = opts.force
		case "dataset-base":
			config.DatasetBase = opts.datasetBase
		case "trace":
			config.TraceFile = opts.trace
		}
	})
	return config, config.Validate()
}

func initLogger(debug bool, w io.Writer) *zap.Logger {
	if debug {
		encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), zap.DebugLevel), zap.Development())
	}
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), zap.InfoLevel))
}
