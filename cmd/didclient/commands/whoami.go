package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func whoamiCmd(o *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity of the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.requireSession(); err != nil {
				return err
			}
			rec, err := o.wire.Identity.Whoami(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rec)
			}
			printf(out, "Username: %s\nDID: %s\n", rec.Username, rec.DID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full record, public key included, as JSON")
	return cmd
}
