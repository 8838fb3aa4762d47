package termidxcli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"termidx/internal/index/sqlite"
)

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show index statistics",
		Args:  cobra.NoArgs,
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

			st, err := s.Statistics()
			if err != nil {
				return err
			}

			if opts.Jsonl {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(st)
			}
			renderStats(cmd.OutOrStdout(), st)
			return nil
		},
	}
}
