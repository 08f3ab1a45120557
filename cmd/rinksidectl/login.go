// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// PasswordEnvVar supplies the login password when --password is not given.
const PasswordEnvVar = "RINKSIDE_PASSWORD"

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"user"`
}

func newLoginCmd(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print a token",
		Long: `Sign in with a username and password and print the bearer token on
stdout, so it can be captured:

  export ` + TokenEnvVar + `=$(rinksidectl login --username commissioner)

The password comes from --password, ` + PasswordEnvVar + `, or one line on stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv(PasswordEnvVar)
			}
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("no password given")
				}
				password = strings.TrimRight(line, "\r\n")
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			var out loginResponse
			if _, err := client.Post(ctx, "/auth/login", map[string]string{
				"username": username,
				"password": password,
			}, &out); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(a.err, "Signed in as %s (%s), token expires %s\n",
				out.User.Username, out.User.Role, out.ExpiresAt.Local().Format(time.RFC1123))
			a.printf("%s\n", out.Token)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (env "+PasswordEnvVar+")")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
