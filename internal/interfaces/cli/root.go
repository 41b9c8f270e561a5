// Package cli implements the druglike command line: evaluate structures
// against the Rule of Five, print the report and draw the depiction grid.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/druglike/internal/application/reporting"
	"github.com/turtacn/druglike/internal/application/screening"
	"github.com/turtacn/druglike/internal/chem/toolkit"
	"github.com/turtacn/druglike/internal/config"
	"github.com/turtacn/druglike/internal/domain/druglikeness"
	"github.com/turtacn/druglike/internal/infrastructure/database/redis"
	"github.com/turtacn/druglike/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/druglike/pkg/client"
	"github.com/turtacn/druglike/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// defaultConfigFile is read when --config is not given and the file exists.
const defaultConfigFile = "./druglike.yaml"

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration
	ServerAddr   string
}

// CLIContext carries initialized dependencies through the command tree.
// Client is set only when --server is given; commands then go through the
// API instead of the local Screening service.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	Client       *client.Client
	Screening    screening.Service
	OutputFormat reporting.Format
	Color        bool
	Timeout      time.Duration

	closers []func() error
}

// WithTimeout derives the per-command deadline from --timeout.
func (c *CLIContext) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.Timeout)
}

// Close releases connections opened during initialization.
func (c *CLIContext) Close() error {
	var first error
	for _, fn := range c.closers {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}

// session remembers the CLIContext built for one execution so it can be
// closed after cobra returns. cobra skips post-run hooks when RunE fails,
// and an invalid structure always makes evaluate fail.
type session struct {
	cc *CLIContext
}

func (s *session) close() error {
	if s.cc == nil {
		return nil
	}
	return s.cc.Close()
}

// execute runs cmd and then releases whatever initialization opened. A close
// failure is reported only when the command itself succeeded.
func (s *session) execute(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	if cerr := s.close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// NewRootCommand creates the root cobra command with all global flags and
// subcommands. Callers that execute it directly must not rely on redis
// connections being closed; Execute does that.
func NewRootCommand() *cobra.Command {
	cmd, _ := newRoot()
	return cmd
}

func newRoot() (*cobra.Command, *session) {
	opts := &RootOptions{}
	s := &session{}

	cmd := &cobra.Command{
		Use:   "druglike",
		Short: "Lipinski Rule of Five screening for SMILES structures",
		Long: "druglike computes molecular weight, Crippen logP and Lipinski donor and\n" +
			"acceptor counts for each structure, checks them against the Rule of Five\n" +
			"and draws the structures as an SVG grid.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts, s)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: "+defaultConfigFile+" when present)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "", "report format (text, json); overrides report.format")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "global operation timeout")
	pf.StringVar(&opts.ServerAddr, "server", "", "evaluate through the API server at this address instead of locally")

	cmd.AddCommand(
		NewEvaluateCmd(),
		NewDepictCmd(),
		NewVersionCmd(),
	)
	return cmd, s
}

// persistentPreRun initializes config, logger, and client, then stores CLIContext.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions, s *session) error {
	cfg, err := initConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := initLogger(opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	formatName := opts.OutputFormat
	if formatName == "" {
		formatName = cfg.Report.Format
	}
	format, err := reporting.ParseFormat(formatName)
	if err != nil {
		return err
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		OutputFormat: format,
		Color:        !opts.NoColor && reporting.ColorEnabled(cfg.Report.Color, cmd.OutOrStdout()),
		Timeout:      opts.Timeout,
	}
	s.cc = cliCtx

	if opts.ServerAddr != "" {
		cliCtx.Client, err = initClient(opts, logger)
		if err != nil {
			return fmt.Errorf("API client initialization failed: %w", err)
		}
	} else {
		cliCtx.Screening, err = initScreening(cliCtx)
		if err != nil {
			return err
		}
	}

	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

// initConfig loads configuration with priority: flags > env > file > defaults.
func initConfig(opts *RootOptions) (*config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	return config.LoadOptional(path)
}

// initLogger creates a console logger on stderr so stdout carries only the
// report.
func initLogger(opts *RootOptions) (logging.Logger, error) {
	level := strings.ToLower(opts.LogLevel)
	if opts.Verbose {
		level = "debug"
	}
	return logging.NewLogger(logging.LogConfig{
		Level:       level,
		Format:      "console",
		OutputPaths: []string{"stderr"},
	})
}

// initClient creates an API client for --server.
func initClient(opts *RootOptions, logger logging.Logger) (*client.Client, error) {
	addr := opts.ServerAddr
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	return client.NewClient(addr,
		client.WithLogger(clientLogger{logger.Named("client")}),
		client.WithUserAgent("druglike-cli/"+Version),
		client.WithTimeout(opts.Timeout),
	)
}

// initScreening builds the local pipeline. The outcome cache is attached when
// enabled and reachable; otherwise evaluation runs uncached.
func initScreening(cc *CLIContext) (screening.Service, error) {
	tk := toolkit.New()
	evaluator, err := druglikeness.NewEvaluator(tk)
	if err != nil {
		return nil, fmt.Errorf("evaluator initialization failed: %w", err)
	}

	opts := []screening.Option{screening.WithRenderer(tk)}
	if cc.Config.Redis.Enabled {
		rc, err := redis.NewClient(cc.Config.Redis, cc.Logger)
		if err != nil {
			cc.Logger.Warn("outcome cache unavailable, continuing without it", logging.Err(err))
		} else {
			cc.closers = append(cc.closers, rc.Close)
			cacheOpts := []redis.CacheOption{redis.WithTTL(cc.Config.Redis.TTL)}
			if cc.Config.Redis.KeyPrefix != "" {
				cacheOpts = append(cacheOpts, redis.WithPrefix(cc.Config.Redis.KeyPrefix))
			}
			opts = append(opts, screening.WithCache(redis.NewOutcomeCache(rc, cc.Logger, cacheOpts...)))
		}
	}
	return screening.NewService(evaluator, cc.Logger, opts...), nil
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.Internal("command context is nil")
	}

	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.Internal("CLIContext not found in command context")
	}

	return cliCtx, nil
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	rootCmd, s := newRoot()
	if err := s.execute(context.Background(), rootCmd); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
}

// clientLogger adapts logging.Logger to the SDK's printf-style Logger.
type clientLogger struct {
	logging.Logger
}

func (l clientLogger) Debugf(format string, args ...interface{}) {
	l.Debug(fmt.Sprintf(format, args...))
}

func (l clientLogger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l clientLogger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}
