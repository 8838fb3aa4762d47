// Package termidxcli is the termidx command line: index maintenance, term
// queries, file signatures and index statistics against a local store.
package termidxcli

import (
	"github.com/spf13/cobra"

	"termidx/internal/version"
)

func NewRootCommand() *cobra.Command {
	opts := newDefaultOptions()
	cmd := &cobra.Command{
		Use:   "termidx",
		Short: "Persistent source-code term index",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.Version = version.String()
	cmd.InitDefaultVersionFlag()
	if f := cmd.Flags().Lookup("version"); f != nil {
		f.Shorthand = "v"
	}

	withOptionsContext(cmd, opts)
	bindFlags(cmd, opts)

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if opts := optionsFrom(cmd); opts != nil {
			return opts.Prepare()
		}
		return nil
	}

	cmd.AddCommand(newIndexCommand())
	cmd.AddCommand(newQCommand())
	cmd.AddCommand(newSigCommand())
	cmd.AddCommand(newStatsCommand())
	return cmd
}
