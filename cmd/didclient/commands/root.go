package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"didclient/internal/app"
	"didclient/internal/domain"
	"didclient/internal/guard"
	"didclient/internal/logging"
)

// options carries the config path and the wired app for one invocation.
// The other persistent flags are read by app.Load straight from the flag set.
type options struct {
	configPath string

	cfg  app.Config
	wire *app.Wire
}

// Execute runs the CLI with os.Args and prints any error.
func Execute() error {
	err := Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errorMessage(err))
	}
	return err
}

// Run executes one invocation with args and releases everything it wired,
// whether or not the command succeeded.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o := &options{}
	root := newRootCmd(o)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if o.wire != nil {
		if cerr := o.wire.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func newRootCmd(o *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "didclient",
		Short:         "Client for the decentralized identity service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "config file (default <home>/config.yaml)")
	pf.String("home", "", "state dir (default ~/.didclient)")
	pf.String("server", "", "identity service base URL (default "+app.DefaultServerURL+")")
	pf.String("store", "", "credential store: file, encrypted, redis or memory")
	pf.StringP("passphrase", "p", "", "passphrase for the encrypted store")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.String("log-format", "", "text or json")

	root.AddCommand(
		signupCmd(o),
		loginCmd(o),
		logoutCmd(o),
		whoamiCmd(o),
		verifyCmd(o),
		statusCmd(o),
		configCmd(o),
	)
	return root
}

// setup loads the layered config, then builds the logger and the
// dependency graph.
func (o *options) setup(cmd *cobra.Command) error {
	cfg, err := app.Load(o.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return err
	}
	log, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	w, err := app.NewWire(cmd.Context(), cfg, nil, log)
	if err != nil {
		return err
	}
	o.cfg, o.wire = cfg, w
	return nil
}

// requireSession asks the guard before a protected command runs.
func (o *options) requireSession() error {
	return o.wire.Guard.Require(guard.Authenticated)
}

// errorMessage renders err for the terminal. Anything that means the user
// must log in again gets the same hint.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		return "session expired: run `didclient login`"
	case domain.RequiresLogin(err):
		return "not logged in: run `didclient login`"
	case errors.Is(err, domain.ErrNetwork):
		return "cannot reach the identity service: " + err.Error()
	}
	var rf *domain.RequestFailedError
	if errors.As(err, &rf) && rf.Message != "" {
		return rf.Message
	}
	return err.Error()
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
