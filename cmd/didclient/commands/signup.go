package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"didclient/internal/domain"
)

func signupCmd(o *options) *cobra.Command {
	var (
		username string
		email    string
		password string
		keyOut   string
	)
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and receive a DID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := o.wire.Identity.Signup(cmd.Context(), domain.SignupRequest{
				Username: domain.Username(username),
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printf(out, "Created account %s\nDID: %s\n", res.Username, res.DID)
			if keyOut == "" {
				printf(out, "\nPrivate key (shown once, store it securely):\n%s", res.PrivateKey)
				return nil
			}
			if err := os.MkdirAll(filepath.Dir(keyOut), 0o700); err != nil {
				return err
			}
			if err := os.WriteFile(keyOut, []byte(res.PrivateKey), 0o600); err != nil {
				return fmt.Errorf("write private key: %w", err)
			}
			printf(out, "Private key written to %s\n", keyOut)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "account username")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&keyOut, "private-key-out", "", "write the issued private key to this file (0600)")
	return cmd
}
