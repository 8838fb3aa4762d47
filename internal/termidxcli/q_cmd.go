package termidxcli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"termidx/internal/core/query"
	"termidx/internal/index/sqlite"
)

func newQCommand() *cobra.Command {
	var (
		mode      string
		pathGlob  string
		lineTypes []string
		after     string
		before    string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "q <term>",
		Short: "Search the index for a term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := optionsFrom(cmd)
			if opts == nil {
				return fmt.Errorf("options missing")
			}

			s, err := sqlite.OpenReadOnly(opts.DBPath)
			if err != nil {
				return err
			}
			defer s.Close()

			now := time.Now()
			res, err := query.Run(s, args[0], mode, query.Filters{
				PathGlob:       pathGlob,
				LineTypes:      lineTypes,
				ModifiedAfter:  query.ParseTimeRef(after, now),
				ModifiedBefore: query.ParseTimeRef(before, now),
			}, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.Jsonl {
				return renderMatchesJSONL(out, res)
			}
			renderMatches(out, res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", query.ModeExact, "match mode: exact|contains|starts_with")
	cmd.Flags().StringVarP(&pathGlob, "path", "p", "", "only matches whose path matches this glob (e.g. '**/src/**')")
	cmd.Flags().StringSliceVarP(&lineTypes, "type", "t", nil, "only matches on these line types (code,string,comment,property,method,struct)")
	cmd.Flags().StringVar(&after, "after", "", "only lines modified after this time (30m, 12h, 7d, 2w, RFC 3339, or YYYY-MM-DD)")
	cmd.Flags().StringVar(&before, "before", "", "only lines modified before this time")
	cmd.Flags().IntVarP(&limit, "limit", "n", 100, "maximum matches to print")
	return cmd
}
