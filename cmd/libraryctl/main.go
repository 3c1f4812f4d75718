// libraryctl is the maintenance companion to the API server.  It talks
// to the database directly, so commands work without the HTTP service
// running, and deliberately are not exposed over HTTP.  The only
// command today is `setrole`, which promotes or demotes a user.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"online-library/internal/config"
	"online-library/internal/database"
	"online-library/internal/repository"
)

func main() {
	root := &cobra.Command{
		Use:           "libraryctl",
		Short:         "Maintenance commands for the online library",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSetRoleCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newSetRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setrole <email> <role>",
		Short: "Set a user's role (Client or Admin) directly in the store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, role := args[0], args[1]

			_ = godotenv.Load()
			cfg := config.Load()
			db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			users := repository.NewUserRepo(db)
			if err := users.SetRoleByEmail(ctx, email, role); err != nil {
				switch err {
				case repository.ErrUnknownRole:
					return fmt.Errorf("unknown role %q (want Client or Admin)", role)
				case repository.ErrUserNotFound:
					return fmt.Errorf("no user with email %q", email)
				}
				return err
			}
			fmt.Printf("role of %s set to %s\n", email, role)
			return nil
		},
	}
}
