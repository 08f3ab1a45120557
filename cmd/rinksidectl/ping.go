// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// pingEndpoints are the reads a healthy server must answer.
var pingEndpoints = []struct {
	name string
	path string
}{
	{"health", "/health"},
	{"clubs", "/clubs?limit=1"},
	{"seasons", "/seasons"},
	{"articles", "/articles?limit=1"},
}

// PingResult is one checked endpoint.
type PingResult struct {
	Name    string
	Path    string
	Status  int
	Latency time.Duration
	Err     error
}

// OK reports whether the endpoint answered with a 2xx.
func (r PingResult) OK() bool {
	return r.Err == nil && r.Status >= 200 && r.Status < 300
}

func newPingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the API answers",
		Long: `Check the health, clubs, seasons and articles endpoints and report the
status and latency of each. Exits non-zero if any endpoint fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			a.printf("Pinging %s\n\n", a.url)
			failed := 0
			for _, ep := range pingEndpoints {
				resp, err := client.Get(ctx, ep.path, nil)
				res := PingResult{Name: ep.name, Path: ep.path, Err: err}
				if resp != nil {
					res.Status = resp.Status
					res.Latency = resp.Latency
				}
				if !res.OK() {
					failed++
				}
				a.printf("%s\n", formatPing(res))
			}

			a.printf("\n")
			if failed > 0 {
				return fmt.Errorf("%d of %d endpoints failed", failed, len(pingEndpoints))
			}
			a.printf("%s\n", color.GreenString("All %d endpoints OK", len(pingEndpoints)))
			return nil
		},
	}
}

func formatPing(r PingResult) string {
	mark := color.GreenString("OK  ")
	if !r.OK() {
		mark = color.RedString("FAIL")
	}
	status := "---"
	if r.Status != 0 {
		status = fmt.Sprintf("%d", r.Status)
	}
	line := fmt.Sprintf("%s  %-9s %-20s %s  %6dms", mark, r.Name, r.Path, status, r.Latency.Milliseconds())
	if r.Err != nil {
		line += "  " + color.YellowString(r.Err.Error())
	}
	return line
}
