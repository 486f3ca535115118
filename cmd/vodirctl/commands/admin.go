package commands

import (
	"fmt"

	"vo-directory/internal/auth"

	"github.com/spf13/cobra"
)

var (
	adminEmail    string
	adminPassword string
)

func accounts() (*auth.Service, error) {
	store, err := userStore()
	if err != nil {
		return nil, err
	}
	// account management never issues or revokes tokens
	return auth.NewService(store, nil, nil), nil
}

var createAdminCmd = &cobra.Command{
	Use:     "create-admin",
	Short:   "Create a password account with admin rights",
	Example: `  vodirctl create-admin --email ops@example.com --password 's3cretpass'`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := accounts()
		if err != nil {
			return err
		}
		u, err := svc.CreateUser(cmd.Context(), adminEmail, adminPassword, true)
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (id %d)\n", u.Email, u.ID)
		return nil
	},
}

func setAdminCmd(use, short string, isAdmin bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <email>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := accounts()
			if err != nil {
				return err
			}
			if err := svc.SetAdmin(cmd.Context(), args[0], isAdmin); err != nil {
				return fmt.Errorf("%s: %w", use, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: admin=%t\n", args[0], isAdmin)
			return nil
		},
	}
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Account email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Account password (8+ characters, letters and digits)")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(
		createAdminCmd,
		setAdminCmd("grant-admin", "Give an existing account admin rights", true),
		setAdminCmd("revoke-admin", "Take admin rights away from an account", false),
	)
}
