// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tomtom215/rinkside/internal/backup"
)

func newBackupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create and list database backups",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Take a backup now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			var b backup.Backup
			if _, err := client.Post(ctx, "/admin/backups", nil, &b); err != nil {
				return err
			}
			a.printf("%s %s (%s", color.GreenString("Created"), b.Name, humanBytes(b.Size))
			if b.Duration != "" {
				a.printf(" in %s", b.Duration)
			}
			a.printf(")\n")
			if b.Checksum != "" {
				a.printf("sha256 %s\n", b.Checksum)
			}
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List backups on the server, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			var backups []backup.Backup
			if _, err := client.Get(ctx, "/admin/backups", &backups); err != nil {
				return err
			}
			if len(backups) == 0 {
				a.printf("No backups\n")
				return nil
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "NAME\tSIZE\tCREATED\tVERSION")
			for _, b := range backups {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n",
					b.Name, humanBytes(b.Size), b.CreatedAt.Local().Format(time.DateTime), b.Version)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(create, list)
	return cmd
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
