package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jdeng/gopng/internal/batch"
	"github.com/jdeng/gopng/internal/config"
	"github.com/jdeng/gopng/internal/logging"
	"github.com/jdeng/gopng/internal/oops"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		logging.Error().Err(err).Msg("pngcodec failed")
		stop()
		os.Exit(1)
	}
}

// app carries the settings resolved for one invocation.
type app struct {
	configPath string
	logLevel   string
	workers    int

	cfg config.Config
	out io.Writer
	mu  sync.Mutex
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "pngcodec",
		Short:         "Decode, encode and inspect PNG files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.IntVar(&a.workers, "workers", config.DefaultWorkers, "number of files processed in parallel")

	root.AddCommand(
		a.inspectCommand(),
		a.decodeCommand(),
		a.encodeCommand(),
		a.roundtripCommand(),
	)
	return root
}

// setup loads the config file and lets explicit flags override it.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = a.workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logging.Setup(cmd.ErrOrStderr(), level)

	a.cfg = cfg
	a.out = cmd.OutOrStdout()
	logging.Debug().
		Str("config", a.configPath).
		Int("workers", cfg.Workers).
		Msg("configuration loaded")
	return nil
}

// forEach runs fn over every input on the worker pool. Every input is
// attempted; each outcome is logged once the pool finishes.
func (a *app) forEach(cmd *cobra.Command, inputs []string, fn batch.Func) error {
	pool := &batch.Pool{
		Workers:   a.cfg.Workers,
		KeepGoing: true,
		Logger:    logging.GlobalLogger(),
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results, err := pool.Run(ctx, inputs, fn)
	for _, r := range results {
		switch {
		case r.Skipped:
			logging.Warn().Str("file", r.Input).Msg("skipped")
		case r.Err != nil:
			logging.Error().Err(r.Err).Str("file", r.Input).Msg("failed")
		default:
			logging.Info().Str("file", r.Input).Dur("took", r.Duration).Msg("done")
		}
	}
	return err
}

// println writes one block of output atomically.
func (a *app) println(s string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintln(a.out, strings.TrimRight(s, "\n"))
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.New(err, "failed to read %s", path)
	}
	return data, nil
}

// outputPath places input's base name with ext in dir, or next to the input
// when dir is empty.
func outputPath(input, dir, ext string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ext
	if dir == "" {
		dir = filepath.Dir(input)
	}
	out := filepath.Join(dir, base)
	if filepath.Clean(out) == filepath.Clean(input) {
		return "", oops.New(nil, "refusing to overwrite input %s", input)
	}
	return out, nil
}

func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return oops.New(err, "failed to create output directory for %s", path)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return oops.New(err, "failed to write %s", path)
	}
	return nil
}
