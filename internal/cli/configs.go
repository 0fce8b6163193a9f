package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"movecalc/internal/calculator"
	"movecalc/internal/model"
	"movecalc/internal/store"
)

// NewConfigsCommand creates the configs command group.
func NewConfigsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configs",
		Short: "Manage saved configurations",
		Long: `List, save, show and delete named configurations.

Without --server the local JSON store from the config file is used.
With --server and a token the signed-in user's remote configurations are used.`,
	}
	cmd.AddCommand(newConfigsListCommand(rootOpts))
	cmd.AddCommand(newConfigsSaveCommand(rootOpts))
	cmd.AddCommand(newConfigsShowCommand(rootOpts))
	cmd.AddCommand(newConfigsDeleteCommand(rootOpts))
	return cmd
}

// ConfigListResult is the JSON payload of configs list.
type ConfigListResult struct {
	Backend string          `json:"backend"`
	Configs []store.Summary `json:"configs"`
}

func newConfigsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved configurations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			sc := rootOpts.scope()
			list, err := sc.Store.List(cmd.Context(), sc.Owner)
			if err != nil {
				return fail(f, "list failed", err)
			}
			if list == nil {
				list = []store.Summary{}
			}
			return f.Result(listText(list, ""), ConfigListResult{Backend: sc.Backend, Configs: list})
		},
	}
}

func newConfigsSaveCommand(rootOpts *RootOptions) *cobra.Command {
	var flags inputFlags
	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save the defaults plus any input flags under a name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			in := flags.resolve(cmd, rootOpts.config().Defaults)
			sc := rootOpts.scope()
			id, err := sc.Store.Save(cmd.Context(), sc.Owner, strings.Join(args, " "), in)
			if err != nil {
				return fail(f, "save failed", err)
			}
			return f.Result(fmt.Sprintf("saved %s\n", id), map[string]string{"id": id})
		},
	}
	addInputFlags(cmd, &flags)
	return cmd
}

func newConfigsShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the inputs of a saved configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			sc := rootOpts.scope()
			in, err := sc.Store.Get(cmd.Context(), sc.Owner, args[0])
			if err != nil {
				return fail(f, "load failed", err)
			}
			return f.Result(inputsText(in), in)
		},
	}
}

func newConfigsDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved configuration (requires --yes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			if !yes {
				return fail(f, "delete refused", calculator.ErrNotConfirmed)
			}
			sc := rootOpts.scope()
			if err := sc.Store.Delete(cmd.Context(), sc.Owner, args[0]); err != nil {
				return fail(f, "delete failed", err)
			}
			return f.Result(fmt.Sprintf("deleted %s\n", args[0]), map[string]string{"id": args[0]})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}

// listText renders summaries as a table, marking the selected id.
func listText(list []store.Summary, selected string) string {
	if len(list) == 0 {
		return "no saved configurations\n"
	}
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tSAVED")
	for _, s := range list {
		mark := ""
		if s.ID == selected {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", mark, s.ID, s.Name, s.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	tw.Flush()
	return b.String()
}

// inputsText lists every field with its current value.
func inputsText(in model.Inputs) string {
	raw, err := yaml.Marshal(in)
	if err != nil {
		return fmt.Sprintf("%+v\n", in)
	}
	return string(raw)
}
