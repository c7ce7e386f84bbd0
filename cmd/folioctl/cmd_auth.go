package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/folio-dev/folio/internal/apiclient"
	"github.com/folio-dev/folio/internal/models"
)

func newLoginCmd(a *app) *cobra.Command {
	var req models.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Email == "" {
				return errors.New("--email is required")
			}
			if req.Password == "" {
				pw, err := readSecret(cmd.InOrStdin(), cmd.OutOrStdout(), "Password: ")
				if err != nil {
					return err
				}
				req.Password = pw
			}

			token, err := a.api.Login(cmd.Context(), req)
			if err != nil {
				return errors.New(apiclient.Message(err, "Login failed"))
			}
			if err := a.store.SetToken(token, req.Email); err != nil {
				return err
			}
			a.dashboard.Discard(cliSession)

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", req.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Password (prompted when omitted)")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var req models.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Name == "" || req.Email == "" {
				return errors.New("--name and --email are required")
			}
			if req.Password == "" {
				pw, err := readSecret(cmd.InOrStdin(), cmd.OutOrStdout(), "Password: ")
				if err != nil {
					return err
				}
				req.Password = pw
			}

			if _, err := a.api.Register(cmd.Context(), req); err != nil {
				return errors.New(apiclient.Message(err, "Registration failed"))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account created. Run `folioctl login` to continue.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Name, "name", "n", "", "Display name")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Clear(); err != nil {
				return err
			}
			a.dashboard.Discard(cliSession)
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show who is logged in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store.Load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if st.Token == "" {
				fmt.Fprintln(out, "Not logged in")
			} else {
				fmt.Fprintf(out, "Logged in as %s\n", st.Email)
			}
			fmt.Fprintf(out, "API: %s\nTheme: %s\nState: %s\n", a.api.BaseURL(), a.store.Theme(), a.store.Path())
			return nil
		},
	}
}

// readSecret reads one line. Input is not masked.
func readSecret(in io.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password is required")
	}
	return line, nil
}
