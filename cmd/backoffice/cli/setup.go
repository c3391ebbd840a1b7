package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mkrentals/backoffice/internal/service"
)

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create the first admin account",
		Long: `Create the first admin account on an empty store and print its credentials.

The password is shown exactly once. Setup refuses to run once any admin exists.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := settingsFrom(viper.GetViper())
			if err != nil {
				return err
			}
			store, err := openStore(settings)
			if err != nil {
				return fmt.Errorf("open credential store: %w", err)
			}
			defer store.Close()

			logger := newLogger(settings)
			boot := service.NewBootstrapCoordinator(store, service.NewBcryptHasher(settings.Auth.BcryptCost), logger)
			return runSetup(cmd.Context(), boot, os.Stdout)
		},
	}
}

func runSetup(ctx context.Context, boot *service.BootstrapCoordinator, out io.Writer) error {
	res, err := boot.Bootstrap(ctx)
	if err != nil {
		if errors.Is(err, service.ErrSetupAlreadyCompleted) {
			return fmt.Errorf("setup already completed: an admin account exists")
		}
		return fmt.Errorf("setup failed: %w", err)
	}

	fmt.Fprintln(out, "First admin account created.")
	fmt.Fprintf(out, "  Username: %s\n", res.Credentials.Username)
	fmt.Fprintf(out, "  Password: %s\n", res.Credentials.Password)
	fmt.Fprintf(out, "  Pattern:  %s\n", service.BootstrapPattern)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Store these credentials now. They will not be shown again.")
	return nil
}
