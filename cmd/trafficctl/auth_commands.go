package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"trafficctl/internal/services/traffic"
	"trafficctl/internal/session"
)

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var email string
	var password string
	var envFile string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the backend and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolvedEmail, resolvedPassword, err := resolveCredentials(email, password, envFile)
			if err != nil {
				return err
			}

			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			resp, err := client.Login(cmd.Context(), resolvedEmail, resolvedPassword)
			if err != nil {
				if detail := traffic.Detail(err); detail != "" {
					return errors.New(detail)
				}
				return fmt.Errorf("login: %w", err)
			}

			manager, err := ctx.ensureSession()
			if err != nil {
				return err
			}
			if err := manager.Init(resp.AccessToken, resolvedEmail); err != nil {
				return fmt.Errorf("store session: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Logged in as %s\n", resolvedEmail)
			if expires, ok := manager.ExpiresAt(); ok {
				fmt.Fprintf(out, "Session expires %s\n", expires.Local().Format(time.RFC1123))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (falls back to TRAFFICCTL_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (falls back to TRAFFICCTL_PASSWORD)")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Load credentials from a dotenv file")
	return cmd
}

// resolveCredentials prefers explicit flags, then the environment. An env
// file, when given, is loaded first without overriding existing variables.
func resolveCredentials(email, password, envFile string) (string, string, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return "", "", fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else {
		// A .env in the working directory is picked up when present.
		_ = godotenv.Load()
	}

	email = strings.TrimSpace(email)
	if email == "" {
		email = strings.TrimSpace(os.Getenv("TRAFFICCTL_EMAIL"))
	}
	if password == "" {
		password = os.Getenv("TRAFFICCTL_PASSWORD")
	}
	if email == "" || password == "" {
		return "", "", errors.New("email and password required (flags, TRAFFICCTL_EMAIL/TRAFFICCTL_PASSWORD, or --env-file)")
	}
	return email, password, nil
}

func newRegisterCommand(ctx *commandContext) *cobra.Command {
	var name string
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a backend account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || email == "" || password == "" {
				return errors.New("--name, --email, and --password are required")
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			if err := client.Register(cmd.Context(), name, email, password); err != nil {
				if detail := traffic.Detail(err); detail != "" {
					return errors.New(detail)
				}
				return fmt.Errorf("register: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s; run `trafficctl login` to start a session\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	return cmd
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.ensureSession()
			if err != nil {
				return err
			}
			if err := manager.Clear(); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.ensureSession()
			if err != nil {
				return err
			}
			if _, err := manager.Token(); err != nil {
				if errors.Is(err, session.ErrNoSession) {
					return errors.New("not logged in")
				}
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Logged in as %s\n", manager.Email())
			if expires, ok := manager.ExpiresAt(); ok {
				state := "expires"
				if manager.Expired(time.Now()) {
					state = "expired"
				}
				fmt.Fprintf(out, "Session %s %s\n", state, expires.Local().Format(time.RFC1123))
			}
			return nil
		},
	}
}
