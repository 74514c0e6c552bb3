// Package activity derives a short natural-language digest of a user's
// most recent repository activity.
package activity

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/nicojahn/readme-refresh/internal/domain"
)

// Separator joins individual repository descriptions in the digest.
const Separator = " as well as "

// Options control how the digest is selected and formatted.
// An explicit value rather than process-wide state, so tests can supply
// deterministic clocks and thresholds.
type Options struct {
	// Username identifies the profile repository ("{user}/{user}"),
	// which never appears in the digest.
	Username string

	// Now is the single timestamp snapshot all day counts are computed
	// against. Captured once per run, not per record.
	Now time.Time

	// RecencyWindowDays: updates strictly fewer than this many days old
	// count as recent.
	RecencyWindowDays int

	// MaxListed caps how many repositories the digest mentions.
	MaxListed int
}

// rankedEntry pairs a repository's age with its rendered description.
// The description is empty exactly when the entry is the profile
// repository; such entries still occupy a rank.
type rankedEntry struct {
	daysSinceUpdate int
	description     string
}

// Digest turns repository records into a bounded, ordered natural-language
// summary of recent activity. It prefers up to MaxListed repositories
// updated inside the recency window and falls back to the single most
// recently updated one when the window is empty. Deterministic for a fixed
// Options.Now; an empty repository list yields an empty string.
func Digest(repos []domain.Repository, opts Options) string {
	entries := rank(repos, opts)

	projects := recentProjects(entries, opts)
	if len(projects) == 0 {
		projects = mostRecentProject(entries)
	}

	return strings.Join(projects, Separator)
}

// rank maps every repository to a ranked entry and sorts ascending by age.
// The sort is stable: ties keep input order, which decides which
// repositories make the cut when several share a day count.
func rank(repos []domain.Repository, opts Options) []rankedEntry {
	entries := make([]rankedEntry, 0, len(repos))
	for _, repo := range repos {
		entries = append(entries, rankedEntry{
			daysSinceUpdate: daysSince(opts.Now, repo.UpdatedAt),
			description:     describe(repo, opts),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].daysSinceUpdate < entries[j].daysSinceUpdate
	})

	return entries
}

// daysSince floors to whole days. Future timestamps yield negative counts;
// they are not clamped.
func daysSince(now, updatedAt time.Time) int {
	return int(math.Floor(now.Sub(updatedAt).Hours() / 24))
}

// describe renders the activity sentence for a repository, or "" for the
// profile repository. A repository without a language label omits the
// language clause entirely.
func describe(repo domain.Repository, opts Options) string {
	if repo.IsProfile(opts.Username) {
		return ""
	}

	description := fmt.Sprintf("repository [%s](%s) which was updated %d days ago",
		repo.FullName, repo.HTMLURL, daysSince(opts.Now, repo.UpdatedAt))
	if repo.Language != nil {
		description += fmt.Sprintf(" and is mainly written in %s", *repo.Language)
	}

	return description
}

// recentProjects collects descriptions inside the recency window, in rank
// order, up to the listing cap.
func recentProjects(entries []rankedEntry, opts Options) []string {
	var projects []string
	for _, entry := range entries {
		if entry.description == "" || entry.daysSinceUpdate >= opts.RecencyWindowDays {
			continue
		}
		if len(projects) >= opts.MaxListed {
			break
		}
		projects = append(projects, entry.description)
	}
	return projects
}

// mostRecentProject returns the first described entry in rank order, used
// when no repository falls inside the recency window.
func mostRecentProject(entries []rankedEntry) []string {
	for _, entry := range entries {
		if entry.description != "" {
			return []string{entry.description}
		}
	}
	return nil
}
