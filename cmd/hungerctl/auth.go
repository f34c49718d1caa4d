package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAuthCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Log in, register, and manage the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newAuthLoginCommand(opts))
	cmd.AddCommand(newAuthVerifyCommand(opts))
	cmd.AddCommand(newAuthRegisterCommand(opts))
	cmd.AddCommand(newAuthLogoutCommand(opts))
	return cmd
}

func newAuthLoginCommand(opts *globalOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.newClient()
			user, err := c.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newAuthVerifyCommand(opts *globalOptions) *cobra.Command {
	var phoneNumber string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a phone number via SMS code",
		Long:  "Requests an SMS verification code, then prompts for it. Returning accounts are logged in directly; new numbers receive a registration grant.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.newClient()
			ctx := cmd.Context()

			if err := c.RequestVerification(ctx, phoneNumber); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), "verification code: ")

			reader := bufio.NewReader(cmd.InOrStdin())
			code, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("read code: %w", err)
			}
			code = strings.TrimSpace(code)
			if code == "" {
				return errors.New("no code entered")
			}

			result, err := c.VerifyPhone(ctx, phoneNumber, code)
			if err != nil {
				return err
			}

			if result.Existing() {
				fmt.Fprintf(cmd.OutOrStdout(), "welcome back, %s\n", result.User.Username)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "phone verified; run `hungerctl auth register` to create an account")
			return nil
		},
	}

	cmd.Flags().StringVar(&phoneNumber, "phone", "", "Phone number to verify")
	_ = cmd.MarkFlagRequired("phone")
	return cmd
}

func newAuthRegisterCommand(opts *globalOptions) *cobra.Command {
	var params struct {
		email    string
		password string
		username string
		name     string
		phone    string
	}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account (the phone number must be verified first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.newClient()
			user, err := c.Register(cmd.Context(), registerParams(params.email, params.password, params.username, params.name, params.phone))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account created: %s\n", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&params.email, "email", "", "Account email")
	cmd.Flags().StringVar(&params.password, "password", "", "Account password")
	cmd.Flags().StringVar(&params.username, "username", "", "Public username")
	cmd.Flags().StringVar(&params.name, "name", "", "Display name")
	cmd.Flags().StringVar(&params.phone, "phone", "", "Verified phone number")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("phone")
	return cmd
}

func newAuthLogoutCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and clear stored tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.newClient()
			if err := c.Logout(cmd.Context()); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: server revoke failed: %v\n", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}
