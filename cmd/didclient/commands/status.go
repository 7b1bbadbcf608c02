package commands

import (
	"github.com/spf13/cobra"

	"didclient/internal/guard"
)

func statusCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			printf(out, "State: %s\n", o.wire.Sessions.State())
			printf(out, "Server: %s\n", o.wire.Gateway.Base)
			printf(out, "Store: %s\n", o.cfg.Store.Backend)
			if d := o.wire.Guard.Check(guard.Authenticated); !d.Allowed {
				printf(out, "Run `didclient login` to start a session\n")
			}
			return nil
		},
	}
}
