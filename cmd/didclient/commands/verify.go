package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"didclient/internal/crypto"
	"didclient/internal/domain"
)

func verifyCmd(o *options) *cobra.Command {
	var (
		username  string
		message   string
		signature string
		keyPath   string
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Have the service verify a signed message",
		Long: "Submit a message and its base64 signature for verification. With --key the\n" +
			"message is signed locally with that private key first.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.requireSession(); err != nil {
				return err
			}
			ctx := cmd.Context()

			if keyPath != "" {
				if signature != "" {
					return errors.New("use either --signature or --key, not both")
				}
				sig, err := signWithKeyFile(keyPath, message)
				if err != nil {
					return err
				}
				signature = sig
			}
			if username == "" {
				rec, err := o.wire.Identity.Whoami(ctx)
				if err != nil {
					return err
				}
				username = rec.Username.String()
			}

			res, err := o.wire.Identity.Verify(ctx, domain.VerifyRequest{
				Username:  domain.Username(username),
				Message:   message,
				Signature: signature,
			})
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s\n", res.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "signer's username (default: the logged-in user)")
	cmd.Flags().StringVar(&message, "message", "", "message that was signed")
	cmd.Flags().StringVar(&signature, "signature", "", "base64 signature")
	cmd.Flags().StringVar(&keyPath, "key", "", "PEM private key to sign the message with")
	return cmd
}

func signWithKeyFile(path, message string) (string, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read key: %w", err)
	}
	defer crypto.Wipe(pemBytes)
	key, err := crypto.ParsePrivateKey(pemBytes)
	if err != nil {
		return "", err
	}
	return crypto.Sign(key, []byte(message))
}
