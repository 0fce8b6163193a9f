// Package cli implements the movecalc command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"movecalc/internal/calculator"
	"movecalc/internal/client"
	"movecalc/internal/config"
	"movecalc/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Server     string
	Token      string

	cfg *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the movecalc CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "movecalc",
		Short: "movecalc - what can I afford to move to?",
		Long: `Work out transfer tax, deposit, loan and monthly payment for a house move,
and keep named scenarios locally or on a movecalc server.`,
		SilenceUsage:  true,
		SilenceErrors: true, // ExitErrors are printed by the formatter; main prints the rest
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				msg := fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				_ = (&OutputFormatter{Format: "text", Writer: cmd.ErrOrStderr()}).Error(ErrCodeInvalidInput, msg, nil)
				return NewExitError(ExitCommandError, msg)
			}
			if opts.Token == "" {
				opts.Token = os.Getenv("MOVECALC_TOKEN")
			}
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				_ = opts.formatter(cmd).Error(ErrCodeInvalidInput, "load config: "+err.Error(), nil)
				return WrapExitError(ExitCommandError, "load config", err)
			}
			opts.cfg = cfg
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config")
	cmd.PersistentFlags().StringVar(&opts.Server, "server", "", "movecalc API base URL for remote configurations")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", "", "session token for --server (or MOVECALC_TOKEN)")

	// Add subcommands
	cmd.AddCommand(NewCalcCommand(opts))
	cmd.AddCommand(NewTaxCommand(opts))
	cmd.AddCommand(NewScheduleCommand(opts))
	cmd.AddCommand(NewConfigsCommand(opts))
	cmd.AddCommand(NewSessionCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

func (o *RootOptions) config() *config.Config {
	if o.cfg == nil {
		o.cfg = config.Default()
	}
	return o.cfg
}

// remote returns an API client when --server is set.
func (o *RootOptions) remote() *client.Client {
	if o.Server == "" {
		return nil
	}
	c := client.New(o.Server)
	c.UseToken(o.Token)
	return c
}

// scope picks the store the configs command works against: the server when
// --server is given, otherwise the local JSON file.
func (o *RootOptions) scope() calculator.Scope {
	if c := o.remote(); c != nil {
		return calculator.Scope{Backend: "remote", Store: c}
	}
	return calculator.Scope{
		Backend: "local",
		Owner:   calculator.LocalOwner,
		Store:   store.NewFile(o.config().Storage.LocalPath),
	}
}
