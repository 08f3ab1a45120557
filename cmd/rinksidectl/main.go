// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// TokenEnvVar supplies --token when the flag is not given.
const TokenEnvVar = "RINKSIDE_TOKEN"

// URLEnvVar supplies --url when the flag is not given.
const URLEnvVar = "RINKSIDE_URL"

// app holds global flags and output streams shared by every command.
type app struct {
	url     string
	token   string
	timeout time.Duration

	out io.Writer
	err io.Writer

	// newClient is replaced in tests.
	newClient func(ClientConfig) (*Client, error)
}

func (a *app) client() (*Client, error) {
	return a.newClient(ClientConfig{BaseURL: a.url, Token: a.token, Timeout: a.timeout})
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.timeout)
}

func (a *app) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, err: errOut, newClient: NewClient}

	defaultURL := os.Getenv(URLEnvVar)
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}

	root := &cobra.Command{
		Use:   "rinksidectl",
		Short: "Operate a Rinkside league server",
		Long: `rinksidectl talks to a running Rinkside server over its REST API.

It checks connectivity, signs in, cleans up orphaned logo uploads, triggers
backups and imports game schedules from YAML.

The token for admin commands comes from --token or ` + TokenEnvVar + `.
Get one with: rinksidectl login --username commissioner`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.url, "url", defaultURL, "server base URL (env "+URLEnvVar+")")
	flags.StringVar(&a.token, "token", os.Getenv(TokenEnvVar), "bearer token (env "+TokenEnvVar+")")
	flags.DurationVar(&a.timeout, "timeout", 30*time.Second, "overall timeout per command")

	root.AddCommand(
		newPingCmd(a),
		newLoginCmd(a),
		newLogosCmd(a),
		newBackupCmd(a),
		newGamesCmd(a),
	)
	return root
}

func main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}
