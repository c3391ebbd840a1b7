package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/mkrentals/backoffice/internal/config"
	"github.com/mkrentals/backoffice/internal/model"
	"github.com/mkrentals/backoffice/internal/service"
)

const minAdminPasswordLength = 8

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin users",
		Long:  "Create, list, seed, and deactivate the admin accounts that can sign in to the back office.",
	}

	cmd.AddCommand(newAdminCreateCmd())
	cmd.AddCommand(newAdminListCmd())
	cmd.AddCommand(newAdminSeedCmd())
	cmd.AddCommand(newAdminSetActiveCmd("disable", false))
	cmd.AddCommand(newAdminSetActiveCmd("enable", true))

	return cmd
}

// withStore opens the configured store for the duration of fn.
func withStore(fn func(config.Settings, *config.Store) error) error {
	settings, err := settingsFrom(viper.GetViper())
	if err != nil {
		return err
	}
	store, err := openStore(settings)
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}
	defer store.Close()
	return fn(settings, store)
}

// ---------- admin create ----------

func newAdminCreateCmd() *cobra.Command {
	var (
		username string
		password string
		name     string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new admin user",
		Example: `  backoffice admin create --username jane --name "Jane Doe" --password secret123
  backoffice admin create --username jane  # prompts for password`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateAdminInput(username, model.Role(role)); err != nil {
				return err
			}
			if password == "" {
				var err error
				if password, err = promptPassword(); err != nil {
					return err
				}
			}
			return withStore(func(s config.Settings, store *config.Store) error {
				hasher := service.NewBcryptHasher(s.Auth.BcryptCost)
				return runAdminCreate(cmd.Context(), store, hasher, username, password, name, model.Role(role), os.Stdout)
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Admin username (required)")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (prompted if omitted)")
	cmd.Flags().StringVar(&name, "name", "", "Admin display name")
	cmd.Flags().StringVar(&role, "role", string(model.RoleSuperAdmin), "Admin role (admin or super_admin)")
	cmd.MarkFlagRequired("username")

	return cmd
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()

	fmt.Print("Confirm password: ")
	confirmBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}
	fmt.Println()

	if string(pwBytes) != string(confirmBytes) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(pwBytes), nil
}

func validRole(r model.Role) bool {
	return r == model.RoleAdmin || r == model.RoleSuperAdmin
}

// validateAdminInput checks everything about a new account except the
// password, so bad flags fail before any prompt.
func validateAdminInput(username string, role model.Role) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username is required")
	}
	if !validRole(role) {
		return fmt.Errorf("invalid role %q (want admin or super_admin)", role)
	}
	return nil
}

func runAdminCreate(ctx context.Context, store *config.Store, hasher service.PasswordHasher, username, password, name string, role model.Role, out io.Writer) error {
	if err := validateAdminInput(username, role); err != nil {
		return err
	}
	if len(password) < minAdminPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minAdminPasswordLength)
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := &model.Admin{
		Username:     username,
		PasswordHash: hash,
		FullName:     name,
		Role:         role,
		IsActive:     true,
	}
	if err := store.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, config.ErrDuplicateUsername) {
			return fmt.Errorf("admin %q already exists", username)
		}
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Fprintf(out, "Created admin user %q (%s)\n", username, role)
	return nil
}

// ---------- admin list ----------

func newAdminListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all admin users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(_ config.Settings, store *config.Store) error {
				return runAdminList(cmd.Context(), store, jsonOutput, os.Stdout)
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runAdminList(ctx context.Context, store *config.Store, jsonOutput bool, out io.Writer) error {
	admins, err := store.ListAdmins(ctx)
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(admins)
	}

	if len(admins) == 0 {
		fmt.Fprintln(out, "No admin users configured. Use 'backoffice setup' or 'backoffice admin create' to create one.")
		return nil
	}

	fmt.Fprintf(out, "%-24s %-24s %-12s %-8s %-20s\n", "USERNAME", "NAME", "ROLE", "ACTIVE", "LAST LOGIN")
	fmt.Fprintf(out, "%-24s %-24s %-12s %-8s %-20s\n", "--------", "----", "----", "------", "----------")
	for _, a := range admins {
		active := "yes"
		if !a.IsActive {
			active = "no"
		}
		lastLogin := "never"
		if a.LastLoginAt != nil {
			lastLogin = a.LastLoginAt.UTC().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(out, "%-24s %-24s %-12s %-8s %-20s\n", a.Username, a.FullName, a.Role, active, lastLogin)
	}

	return nil
}

// ---------- admin seed ----------

func newAdminSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create admin users from a YAML seed file",
		Long: `Create admin users listed in a YAML seed file. Accounts whose username already
exists are skipped. ${VAR} references in the file are expanded from the environment.`,
		Example: `  backoffice admin seed --file admins.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sf, err := config.LoadSeedFile(file)
			if err != nil {
				return err
			}
			return withStore(func(s config.Settings, store *config.Store) error {
				hasher := service.NewBcryptHasher(s.Auth.BcryptCost)
				return runAdminSeed(cmd.Context(), store, hasher, sf, os.Stdout)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the seed file (required)")
	cmd.MarkFlagRequired("file")

	return cmd
}

func runAdminSeed(ctx context.Context, store *config.Store, hasher service.PasswordHasher, sf *config.SeedFile, out io.Writer) error {
	var created, skipped int
	for _, a := range sf.Admins {
		_, err := findAdmin(ctx, store, a.Username)
		if err == nil {
			skipped++
			fmt.Fprintf(out, "  skipped %s (already exists)\n", a.Username)
			continue
		}
		if !errors.Is(err, config.ErrNotFound) {
			return err
		}

		role := a.Role
		if role == "" {
			role = model.RoleAdmin
		}
		if err := runAdminCreate(ctx, store, hasher, a.Username, a.Password, a.FullName, role, io.Discard); err != nil {
			return fmt.Errorf("seed %q: %w", a.Username, err)
		}
		created++
		fmt.Fprintf(out, "  created %s\n", a.Username)
	}
	fmt.Fprintf(out, "Seeded %d admin(s), skipped %d.\n", created, skipped)
	return nil
}

// ---------- admin disable / enable ----------

func newAdminSetActiveCmd(use string, active bool) *cobra.Command {
	short := "Deactivate an admin account"
	if active {
		short = "Reactivate an admin account"
	}
	return &cobra.Command{
		Use:   use + " <username>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(_ config.Settings, store *config.Store) error {
				return runAdminSetActive(cmd.Context(), store, args[0], active, os.Stdout)
			})
		},
	}
}

func runAdminSetActive(ctx context.Context, store *config.Store, username string, active bool, out io.Writer) error {
	admin, err := findAdmin(ctx, store, username)
	if err != nil {
		return err
	}
	if err := store.SetAdminActive(ctx, admin.ID, active); err != nil {
		return fmt.Errorf("update admin: %w", err)
	}
	state := "disabled"
	if active {
		state = "enabled"
	}
	fmt.Fprintf(out, "Admin %q %s.\n", username, state)
	return nil
}

// findAdmin looks up an account by username regardless of its active flag.
func findAdmin(ctx context.Context, store *config.Store, username string) (*model.Admin, error) {
	admin, err := store.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			return nil, fmt.Errorf("admin %q: %w", username, config.ErrNotFound)
		}
		return nil, err
	}
	return admin, nil
}
