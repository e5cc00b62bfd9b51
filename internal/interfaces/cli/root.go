// Package cli implements the aeroops command line. Pure classifiers run
// locally; everything else goes through a running AeroOps server.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/AeroOps/internal/config"
	domain "github.com/turtacn/AeroOps/internal/domain/quarantine"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/pkg/client"
	"github.com/turtacn/AeroOps/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

type cliContextKey struct{}

// RootOptions holds the global flags.
type RootOptions struct {
	ConfigPath string
	Server     string
	Tenant     string
	Output     string
	Verbose    bool
	NoColor    bool
	Timeout    time.Duration
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Logger   logging.Logger
	API      *client.ServerClient
	Policy   domain.Policy
	Location *time.Location
	Tenant   string
	Output   string
	Verbose  bool
}

// NewRootCommand builds the aeroops command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "aeroops",
		Short:   "AeroOps CLI for aviation maintenance operations",
		Long:    "aeroops queries an AeroOps server for quarantine, statistics and work-order data,\nand evaluates the quarantine and risk-matrix rules locally.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file; supplies the quarantine policy and default server address")
	pf.StringVar(&opts.Server, "server", os.Getenv("AEROOPS_SERVER"), "AeroOps server address (default http://localhost:8080)")
	pf.StringVarP(&opts.Tenant, "tenant", "t", os.Getenv("AEROOPS_TENANT"), "tenant identifier")
	pf.StringVarP(&opts.Output, "output", "o", "table", "output format (table, json, text)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "request timeout")

	cmd.AddCommand(
		newQuarantineCmd(),
		newRiskCmd(),
		newStatsCmd(),
		newWorkOrderCmd(),
	)
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	switch strings.ToLower(opts.Output) {
	case "table", "json", "text":
	default:
		return errors.InvalidParam("output must be table, json or text").WithDetail(opts.Output)
	}
	if opts.NoColor {
		color.NoColor = true
	}

	cfg, err := initConfig(opts)
	if err != nil {
		return err
	}
	logger, err := initLogger(opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	policy := domain.Policy{
		LegalLimitDays:       cfg.Quarantine.LegalLimitDays,
		WarningThresholdDays: cfg.Quarantine.WarningThresholdDays,
	}
	if policy.Validate() != nil {
		policy = domain.DefaultPolicy
	}

	api, err := newServerClient(serverAddr(cfg, opts), opts, logger)
	if err != nil {
		return err
	}

	cliCtx := &CLIContext{
		Logger:   logger,
		API:      api,
		Policy:   policy,
		Location: cfg.Quarantine.Location(),
		Tenant:   opts.Tenant,
		Output:   strings.ToLower(opts.Output),
		Verbose:  opts.Verbose,
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))
	return nil
}

// initConfig loads the optional config file. Without one the defaults apply
// and no validation runs, since the CLI needs none of the server sections.
func initConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		cfg, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("config initialization failed: %w", err)
		}
		return cfg, nil
	}
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return cfg, nil
}

func initLogger(opts *RootOptions) (logging.Logger, error) {
	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		Service:          "aeroops-cli",
	})
}

// newServerClient builds the SDK client the commands talk through.
func newServerClient(addr string, opts *RootOptions, logger logging.Logger) (*client.ServerClient, error) {
	c, err := client.NewClient(addr, "",
		client.WithTimeout(opts.Timeout),
		client.WithRetryMax(2),
		client.WithRetryWait(200*time.Millisecond, 2*time.Second),
		client.WithUserAgent("aeroops-cli/"+Version),
		client.WithLogger(logging.Printf(logger.Named("client"))),
	)
	if err != nil {
		return nil, err
	}
	return c.Server(opts.Tenant), nil
}

func serverAddr(cfg *config.Config, opts *RootOptions) string {
	if opts.Server != "" {
		return opts.Server
	}
	if opts.ConfigPath != "" && cfg.Server.Port > 0 {
		host := cfg.Server.Host
		if host == "" || host == "0.0.0.0" {
			host = "localhost"
		}
		return "http://" + net.JoinHostPort(host, strconv.Itoa(cfg.Server.Port))
	}
	return "http://localhost:8080"
}

// GetCLIContext extracts the CLIContext stored by the root pre-run.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "CLI context not initialized")
	}
	return cliCtx, nil
}

// requireTenant fails fast for commands that call the server.
func (c *CLIContext) requireTenant() error {
	if c.Tenant == "" {
		return errors.New(errors.ErrCodeTenantRequired, "tenant is required").WithDetail("use --tenant or AEROOPS_TENANT")
	}
	return nil
}

// Execute runs the CLI and prints any error to stderr.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// tableData is implemented by results that know how to render as rows.
type tableData interface {
	TableHeaders() []string
	TableRows() [][]string
}

// textData is implemented by results with a compact text form.
type textData interface {
	Text() string
}

// PrintResult writes data in the selected output format.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	format := "json"
	if cliCtx, err := GetCLIContext(cmd); err == nil {
		format = cliCtx.Output
	}
	switch format {
	case "table":
		if td, ok := data.(tableData); ok {
			fmt.Fprint(cmd.OutOrStdout(), FormatTable(td.TableHeaders(), td.TableRows()))
			return nil
		}
		return printText(cmd, data)
	case "text":
		return printText(cmd, data)
	default:
		return printJSON(cmd, data)
	}
}

func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printText(cmd *cobra.Command, data interface{}) error {
	switch v := data.(type) {
	case textData:
		fmt.Fprintln(cmd.OutOrStdout(), v.Text())
	case string:
		fmt.Fprintln(cmd.OutOrStdout(), v)
	case fmt.Stringer:
		fmt.Fprintln(cmd.OutOrStdout(), v.String())
	default:
		return printJSON(cmd, data)
	}
	return nil
}

// PrintError writes err to stderr, with its code when it carries one.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	var ae *errors.AppError
	if errors.As(err, &ae) {
		msg := fmt.Sprintf("Error [%s]: %s", ae.Code, ae.Message)
		if ae.Detail != "" {
			msg += " (" + ae.Detail + ")"
		}
		fmt.Fprintln(cmd.ErrOrStderr(), color.RedString(msg))
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), color.RedString("Error: %s", err.Error()))
}

// PrintSuccess writes a confirmation line to stdout.
func PrintSuccess(cmd *cobra.Command, msg string) {
	fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("OK: %s", msg))
}

// FormatTable renders rows with tablewriter.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	var sb strings.Builder
	table := tablewriter.NewWriter(&sb)
	table.Header(headers)
	for _, row := range rows {
		_ = table.Append(row)
	}
	_ = table.Render()
	return sb.String()
}

//Personal.AI order the ending
