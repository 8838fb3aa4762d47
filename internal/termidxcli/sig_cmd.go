package termidxcli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"termidx/internal/index/sqlite"
)

func newSigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sig <path>",
		Short: "Show a file's signature: header comments, methods, types",
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

			sig, ok, err := s.Signature(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("file not indexed: %s", args[0])
			}

			if opts.Jsonl {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(sig)
			}
			renderSignature(cmd.OutOrStdout(), sig)
			return nil
		},
	}
}
