package termidxcli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"termidx/internal/core/extract"
	"termidx/internal/core/grammar"
	"termidx/internal/core/indexer"
	"termidx/internal/index/sqlite"
)

func newIndexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Index management",
	}

	cmd.AddCommand(newIndexBuildCommand())
	cmd.AddCommand(newIndexScanCommand())
	cmd.AddCommand(newIndexUpdateCommand())
	cmd.AddCommand(newIndexRmCommand())
	return cmd
}

// openIndexer opens the store for writing and wires the tree-sitter
// extractor in front of it. The caller closes the store.
func openIndexer(opts *Options) (*sqlite.Store, *indexer.Indexer, error) {
	s, err := sqlite.Open(opts.DBPath)
	if err != nil {
		return nil, nil, err
	}
	ix := indexer.New(s, extract.New(grammar.NewRegistry()))
	return s, ix, nil
}

func indexerOptions(opts *Options, workers int) indexer.Options {
	return indexer.Options{
		Workers:      workers,
		IncludeGlobs: opts.IncludeGlobs,
		ExcludeGlobs: opts.ExcludeGlobs,
		ScanAll:      opts.ScanAll,
	}
}

func printSummary(cmd *cobra.Command, s indexer.ProjectSummary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "indexed %d, unchanged %d, skipped %d, removed %d (%s)\n",
		s.Indexed, s.Unchanged, s.Skipped, s.Removed, s.Elapsed.Round(1e6))
	if s.Indexed > 0 {
		fmt.Fprintf(out, "items %d, methods %d, types %d\n",
			s.ItemsFound, s.MethodsFound, s.TypesFound)
	}
	for _, d := range s.Failed {
		fmt.Fprintf(cmd.ErrOrStderr(), "failed (%s) %s: %v\n", d.Stage, d.Path, d.Err)
	}
}

func newIndexBuildCommand() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "build [path]",
		Short: "Build (or incrementally rebuild) the index for a project tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			root, err := filepath.Abs(root)
			if err != nil {
				return err
			}

			opts := optionsFrom(cmd)
			if opts == nil {
				return fmt.Errorf("options missing")
			}

			s, ix, err := openIndexer(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			summary, err := ix.IndexProject(root, indexerOptions(opts, workers))
			if err != nil {
				return err
			}
			printSummary(cmd, summary)
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "number of parallel parse workers (default: CPU count)")
	return cmd
}

func newIndexScanCommand() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Reconcile the index with external changes on disk",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			root, err := filepath.Abs(root)
			if err != nil {
				return err
			}

			opts := optionsFrom(cmd)
			if opts == nil {
				return fmt.Errorf("options missing")
			}

			s, ix, err := openIndexer(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			summary, err := ix.ScanExternalChanges(root, indexerOptions(opts, workers))
			if err != nil {
				return err
			}
			printSummary(cmd, summary)
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "number of parallel parse workers (default: CPU count)")
	return cmd
}

func newIndexUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update <path>",
		Short: "Reindex a single file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := optionsFrom(cmd)
			if opts == nil {
				return fmt.Errorf("options missing")
			}

			s, ix, err := openIndexer(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := ix.UpdateFile(".", args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: +%d/-%d items, %d methods, %d types\n",
				res.Status, res.ItemsAdded, res.ItemsRemoved, res.MethodsUpdated, res.TypesUpdated)
			return nil
		},
	}
}

func newIndexRmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>",
		Short: "Remove a file from the index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := optionsFrom(cmd)
			if opts == nil {
				return fmt.Errorf("options missing")
			}

			s, ix, err := openIndexer(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := ix.RemoveFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Status)
			return nil
		},
	}
}
