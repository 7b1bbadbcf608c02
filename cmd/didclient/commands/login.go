package commands

import (
	"github.com/spf13/cobra"

	"didclient/internal/domain"
)

func loginCmd(o *options) *cobra.Command {
	var (
		username string
		email    string
		password string
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := o.wire.Identity.Login(cmd.Context(), domain.LoginRequest{
				Email:    email,
				Username: domain.Username(username),
				Password: password,
			})
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Logged in\n")
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "account username")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}
