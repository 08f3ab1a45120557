// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/rinkside/internal/models"
)

// clubPageSize is the page size used when resolving club short names.
const clubPageSize = 100

// Schedule is the YAML document read by "games import".
//
//	season:
//	  name: 2026 Fall
//	  number: 4
//	  clubs: [HAW, WOL, BRU]
//	games:
//	  - home: HAW
//	    away: WOL
//	    at: 2026-10-20T19:30:00Z
//
// Set season.id instead of name to add games to an existing season.
type Schedule struct {
	Season ScheduleSeason `yaml:"season"`
	Games  []ScheduleGame `yaml:"games"`
}

// ScheduleSeason names an existing season or describes one to create.
type ScheduleSeason struct {
	ID     string   `yaml:"id"`
	Name   string   `yaml:"name"`
	Number int      `yaml:"number"`
	Status string   `yaml:"status"`
	Clubs  []string `yaml:"clubs"`
}

// ScheduleGame is one scheduled game, clubs given by short name.
type ScheduleGame struct {
	Home string `yaml:"home"`
	Away string `yaml:"away"`
	At   string `yaml:"at"`
}

var scheduleTimeLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04"}

func parseScheduleTime(s string) (time.Time, error) {
	for _, layout := range scheduleTimeLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q (use RFC 3339, e.g. 2026-10-20T19:30:00Z)", s)
}

// LoadSchedule decodes and checks a schedule. Unknown keys are rejected.
func LoadSchedule(r io.Reader) (*Schedule, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Schedule
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("schedule is empty")
		}
		return nil, fmt.Errorf("parse schedule: %w", err)
	}

	if s.Season.ID == "" && strings.TrimSpace(s.Season.Name) == "" {
		return nil, fmt.Errorf("season needs an id or a name")
	}
	if len(s.Games) == 0 {
		return nil, fmt.Errorf("schedule has no games")
	}
	for i, g := range s.Games {
		if g.Home == "" || g.Away == "" {
			return nil, fmt.Errorf("game %d: home and away are required", i+1)
		}
		if strings.EqualFold(g.Home, g.Away) {
			return nil, fmt.Errorf("game %d: %s cannot play itself", i+1, g.Home)
		}
		if _, err := parseScheduleTime(g.At); err != nil {
			return nil, fmt.Errorf("game %d: %w", i+1, err)
		}
	}
	return &s, nil
}

// shortNames returns every club short name the schedule mentions, upper-cased.
func (s *Schedule) shortNames() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(n string) {
		n = strings.ToUpper(strings.TrimSpace(n))
		if n != "" && !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	for _, c := range s.Season.Clubs {
		add(c)
	}
	for _, g := range s.Games {
		add(g.Home)
		add(g.Away)
	}
	return names
}

// ImportResult counts what an import did.
type ImportResult struct {
	SeasonID string
	Created  int
	Failed   int
}

func newGamesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Manage scheduled games",
	}

	var dryRun bool
	importCmd := &cobra.Command{
		Use:   "import <schedule.yaml>",
		Short: "Create a season's games from a YAML schedule",
		Long: `Read a YAML schedule, resolve club short names against the server,
create the season if the file describes a new one, and create each game.
Use "-" to read the schedule from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				in = f
			}
			schedule, err := LoadSchedule(in)
			if err != nil {
				return err
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			res, err := importSchedule(ctx, a, client, schedule, dryRun)
			if err != nil {
				return err
			}
			if dryRun {
				a.printf("%s %d games would be created\n", color.CyanString("Dry run:"), len(schedule.Games))
				return nil
			}
			a.printf("%s %d games in season %s\n", color.GreenString("Imported"), res.Created, res.SeasonID)
			if res.Failed > 0 {
				return fmt.Errorf("%d games failed to import", res.Failed)
			}
			return nil
		},
	}
	importCmd.Flags().BoolVar(&dryRun, "dry-run", false, "resolve clubs and check the file without creating anything")

	cmd.AddCommand(importCmd)
	return cmd
}

func importSchedule(ctx context.Context, a *app, client *Client, s *Schedule, dryRun bool) (*ImportResult, error) {
	clubs, err := fetchClubIDs(ctx, client)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, name := range s.shortNames() {
		if _, ok := clubs[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("unknown clubs: %s", strings.Join(missing, ", "))
	}

	res := &ImportResult{SeasonID: s.Season.ID}
	if dryRun {
		for _, g := range s.Games {
			at, _ := parseScheduleTime(g.At)
			a.printf("  %s vs %s  %s\n", strings.ToUpper(g.Away), strings.ToUpper(g.Home), at.Format(time.DateTime))
		}
		return res, nil
	}

	if res.SeasonID == "" {
		ids := make([]string, 0, len(s.Season.Clubs))
		for _, c := range s.Season.Clubs {
			ids = append(ids, clubs[strings.ToUpper(strings.TrimSpace(c))])
		}
		var season models.Season
		if _, err := client.Post(ctx, "/seasons", map[string]interface{}{
			"name":     s.Season.Name,
			"number":   s.Season.Number,
			"status":   s.Season.Status,
			"club_ids": ids,
		}, &season); err != nil {
			return nil, fmt.Errorf("create season: %w", err)
		}
		res.SeasonID = season.ID
		a.printf("%s season %q (%s)\n", color.GreenString("Created"), season.Name, season.ID)
	}

	for i, g := range s.Games {
		at, _ := parseScheduleTime(g.At)
		body := map[string]interface{}{
			"season_id":    res.SeasonID,
			"home_club_id": clubs[strings.ToUpper(g.Home)],
			"away_club_id": clubs[strings.ToUpper(g.Away)],
			"scheduled_at": at,
		}
		if _, err := client.Post(ctx, "/games", body, nil); err != nil {
			res.Failed++
			a.printf("  %s game %d (%s vs %s): %v\n", color.RedString("FAIL"), i+1, g.Away, g.Home, err)
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			continue
		}
		res.Created++
	}
	return res, nil
}

// fetchClubIDs pages through /clubs and maps short name to ID.
func fetchClubIDs(ctx context.Context, client *Client) (map[string]string, error) {
	ids := make(map[string]string)
	for offset := 0; ; offset += clubPageSize {
		var page []models.Club
		resp, err := client.Get(ctx, fmt.Sprintf("/clubs?limit=%d&offset=%d", clubPageSize, offset), &page)
		if err != nil {
			return nil, fmt.Errorf("list clubs: %w", err)
		}
		for _, c := range page {
			ids[strings.ToUpper(c.ShortName)] = c.ID
		}
		if meta := resp.Envelope.Meta; meta != nil && meta.Pagination != nil {
			if !meta.Pagination.HasMore {
				return ids, nil
			}
		} else if len(page) < clubPageSize {
			return ids, nil
		}
	}
}
