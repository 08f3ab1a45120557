// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tomtom215/rinkside/internal/uploads"
)

func newLogosCmd(a *app) *cobra.Command {
	logos := &cobra.Command{
		Use:   "logos",
		Short: "Manage uploaded club logos",
	}

	var dryRun bool
	clean := &cobra.Command{
		Use:   "clean",
		Short: "Delete uploads no club or article references",
		Long: `Ask the server to delete uploaded files that no club logo, player photo
or article image points at. Files younger than the server's grace period are
kept. Use --dry-run to list what would be removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			path := "/admin/uploads/cleanup"
			if dryRun {
				path += "?dry_run=true"
			}
			var report uploads.CleanupReport
			if _, err := client.Post(ctx, path, nil, &report); err != nil {
				return err
			}
			printCleanupReport(a, &report)
			return nil
		},
	}
	clean.Flags().BoolVar(&dryRun, "dry-run", false, "report orphans without deleting them")

	logos.AddCommand(clean)
	return logos
}

func printCleanupReport(a *app, report *uploads.CleanupReport) {
	a.printf("Scanned %d files, %d referenced, %d orphaned\n",
		report.Scanned, report.Referenced, len(report.Orphans))

	for _, f := range report.Orphans {
		a.printf("  %s  %s  %s\n", color.YellowString("orphan"), f.Name, humanBytes(f.Size))
	}

	switch {
	case report.DryRun:
		a.printf("%s nothing was deleted\n", color.CyanString("Dry run:"))
	case len(report.Deleted) > 0:
		a.printf("%s %d files, freed %s\n", color.GreenString("Deleted"), len(report.Deleted), humanBytes(report.FreedBytes))
	default:
		a.printf("%s\n", color.GreenString("Nothing to delete"))
	}

	for _, e := range report.Errors {
		a.printf("  %s %s\n", color.RedString("error"), e)
	}
}
