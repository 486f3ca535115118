package commands

import (
	"fmt"
	"os"

	"vo-directory/config"
	"vo-directory/database"
	"vo-directory/internal/gateway"
	"vo-directory/pkg/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var dbURL string

var rootCmd = &cobra.Command{
	Use:   "vodirctl",
	Short: "Operator tasks for the voiceover directory",
	Long: `vodirctl runs the tasks that have no place in the web console:

  migrate        - create or update the database schema
  create-admin   - create a password account with admin rights
  grant-admin    - give an existing account admin rights
  revoke-admin   - take admin rights away`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadBaseEnv()
		logger.Init(config.APP_ENV)
		if dbURL == "" {
			dbURL = config.DB_URL
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (defaults to DB_URL)")
}

func openDB() (*gorm.DB, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("no database: pass --db or set DB_URL")
	}
	return database.Open(dbURL)
}

// userStore is replaced in tests.
var userStore = func() (gateway.UserStore, error) {
	db, err := openDB()
	if err != nil {
		return nil, err
	}
	return database.NewUserStore(db), nil
}
