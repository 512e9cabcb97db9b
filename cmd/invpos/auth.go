package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			a, err := hydratedApp()
			if err != nil {
				fatalError(err)
			}
			defer a.Close()

			if username == "" {
				username, err = promptLine("Username")
				if err != nil {
					fatalError(err)
				}
			}
			password, err := promptPassword("Password")
			if err != nil {
				fatalError(err)
			}
			if username == "" || password == "" {
				fatalError(errors.New("username and password are required"))
			}

			if err := a.sess.Login(context.Background(), username, password); err != nil {
				fatalError(err)
			}
			fmt.Printf("Signed in as %s\n", a.out.User(a.sess.Snapshot().User))
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Account username")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the persisted session",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			a, err := hydratedApp()
			if err != nil {
				fatalError(err)
			}
			defer a.Close()

			// The local session clears even when the server call fails.
			if err := a.sess.Logout(context.Background()); err != nil {
				fmt.Printf("Signed out locally (server unreachable: %v)\n", err)
				return
			}
			fmt.Println("Signed out")
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user, revalidated against the server",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			a, err := hydratedApp()
			if err != nil {
				fatalError(err)
			}
			defer a.Close()

			if err := requireAuth(a); err != nil {
				fatalError(err)
			}
			if err := a.sess.CheckAuth(context.Background()); err != nil {
				fatalError(err)
			}
			fmt.Println(a.out.User(a.sess.Snapshot().User))
		},
	}
}

func forgotPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password <email>",
		Short: "Request a password reset email",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a, err := newApp()
			if err != nil {
				fatalError(err)
			}
			defer a.Close()

			if err := a.api.ForgotPassword(context.Background(), args[0]); err != nil {
				fatalError(err)
			}
			fmt.Println("Reset instructions sent if the address is registered")
		},
	}
}

func resetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <token>",
		Short: "Set a new password using a reset token",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a, err := newApp()
			if err != nil {
				fatalError(err)
			}
			defer a.Close()

			password, err := promptPassword("New password")
			if err != nil {
				fatalError(err)
			}
			confirm, err := promptPassword("Confirm password")
			if err != nil {
				fatalError(err)
			}
			if password == "" {
				fatalError(errors.New("password must not be empty"))
			}
			if password != confirm {
				fatalError(errors.New("passwords do not match"))
			}

			if err := a.api.ResetPassword(context.Background(), args[0], password); err != nil {
				fatalError(err)
			}
			fmt.Println("Password updated, sign in with `invpos login`")
		},
	}
}
