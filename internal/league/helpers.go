// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package league

import (
	"path"
	"regexp"
	"sort"
	"strings"
	"time"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s and joins its alphanumeric runs with hyphens.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// sortNewest orders docs by the time returned from at, newest first.
func sortNewest[T any](docs []T, at func(T) time.Time) {
	sort.SliceStable(docs, func(i, j int) bool { return at(docs[i]).After(at(docs[j])) })
}

// uploadName returns the upload file name referenced by url, or "" when url
// does not point into the uploads prefix.
func uploadName(prefix, url string) string {
	if url == "" || prefix == "" {
		return ""
	}
	prefix = strings.TrimSuffix(prefix, "/") + "/"
	i := strings.Index(url, prefix)
	if i < 0 {
		return ""
	}
	name := url[i+len(prefix):]
	if j := strings.IndexAny(name, "?#"); j >= 0 {
		name = name[:j]
	}
	if name == "" || strings.Contains(name, "/") {
		return ""
	}
	return path.Base(name)
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
