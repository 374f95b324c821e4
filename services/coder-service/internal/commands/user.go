package commands

import (
	"fmt"
	"time"

	"ai-coder/services/coder-service/internal/application"
	"ai-coder/services/coder-service/internal/application/dto"
	"ai-coder/services/coder-service/internal/infrastructure/persistence/repository"
	"ai-coder/services/coder-service/internal/infrastructure/security"

	"github.com/spf13/cobra"
)

func newUserCommand(a *app) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	userCmd.AddCommand(newUserCreateCommand(a))
	return userCmd
}

func newUserCreateCommand(a *app) *cobra.Command {
	var req dto.RegisterReq
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account without going through the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			auth := application.NewAuthService(
				repository.NewUserRepository(db.DB),
				security.NewJWTService(a.cfg.Auth),
				security.NewBcryptService(),
				time.Duration(a.cfg.Auth.Expire_Remember_H)*time.Hour,
			)
			req.PasswordConfirm = req.Password
			user, err := auth.Register(cmd.Context(), &req)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Username, user.UserID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "login name")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "password (at least 8 characters)")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
