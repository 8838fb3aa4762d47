package termidxcli

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const defaultDBPath = ".termidx/index.db"

type Options struct {
	DBPath       string
	ScanAll      bool
	IncludeGlobs []string
	ExcludeGlobs []string
	Jsonl        bool
}

func newDefaultOptions() *Options {
	return &Options{DBPath: filepath.FromSlash(defaultDBPath)}
}

func (o *Options) Prepare() error {
	if strings.TrimSpace(o.DBPath) == "" {
		return fmt.Errorf("database path is required")
	}
	return nil
}

type optionsKey struct{}

func withOptionsContext(cmd *cobra.Command, opts *Options) {
	cmd.SetContext(context.WithValue(context.Background(), optionsKey{}, opts))
}

func optionsFrom(cmd *cobra.Command) *Options {
	if cmd == nil {
		return nil
	}
	root := cmd.Root()
	if root == nil {
		root = cmd
	}
	v := root.Context().Value(optionsKey{})
	opts, _ := v.(*Options)
	return opts
}

func bindFlags(cmd *cobra.Command, opts *Options) {
	cmd.PersistentFlags().StringVarP(&opts.DBPath, "database", "d", opts.DBPath, "index database file")
	cmd.PersistentFlags().BoolVarP(&opts.ScanAll, "all", "A", opts.ScanAll, "scan hidden and gitignored files too")
	cmd.PersistentFlags().StringSliceVarP(&opts.IncludeGlobs, "glob", "g", nil, "only index/search these files (can repeat)")
	cmd.PersistentFlags().StringSliceVarP(&opts.ExcludeGlobs, "exclude", "x", nil, "exclude these files (comma separated: -x *.min.js,*.sql)")
	cmd.PersistentFlags().BoolVar(&opts.Jsonl, "jsonl", opts.Jsonl, "output as JSONL")
}

// ExecuteForTest runs cmd with captured output and returns what it printed.
func ExecuteForTest(cmd *cobra.Command) (string, error) {
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}
