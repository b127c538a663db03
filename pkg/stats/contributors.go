package stats

import (
	"sort"
	"strings"

	"github.com/dshalom/chatwrapped/pkg/transcript"
)

const favoriteWordsPerUser = 3

// Contributors ranks contributors by message count and returns the top n
// configured via WithTopN. Ties break on username so output is stable.
func (a *Analyzer) Contributors() []ContributorStats {
	all := a.AllContributors()
	if len(all) > a.topN {
		all = all[:a.topN]
	}
	return all
}

// AllContributors returns every contributor sorted by message count.
func (a *Analyzer) AllContributors() []ContributorStats {
	if len(a.records) == 0 {
		return nil
	}

	byUser := make(map[string][]transcript.Record)
	for _, r := range a.records {
		byUser[r.Author] = append(byUser[r.Author], r)
	}

	total := len(a.records)
	contributors := make([]ContributorStats, 0, len(byUser))
	for username, recs := range byUser {
		words := 0
		for _, r := range recs {
			words += len(strings.Fields(r.Body))
		}

		c := ContributorStats{
			Username:             username,
			DisplayName:          username,
			MessageCount:         len(recs),
			WordCount:            words,
			ContributionPercent:  round2(float64(len(recs)) / float64(total) * 100),
			AverageMessageLength: round2(float64(words) / float64(len(recs))),
			FavoriteWords:        topWords(recs, favoriteWordsPerUser),
		}
		if a.cfg != nil {
			c.DisplayName = a.cfg.DisplayName(username)
			c.Team = a.cfg.Team(username)
		}
		contributors = append(contributors, c)
	}

	sort.Slice(contributors, func(i, j int) bool {
		if contributors[i].MessageCount != contributors[j].MessageCount {
			return contributors[i].MessageCount > contributors[j].MessageCount
		}
		return contributors[i].Username < contributors[j].Username
	})

	return contributors
}

// Teams aggregates activity by team. Records whose author has no team are
// excluded. Returns nil when no config was supplied.
func (a *Analyzer) Teams() []TeamStats {
	if a.cfg == nil || len(a.records) == 0 {
		return nil
	}

	type teamAcc struct {
		records []transcript.Record
		members map[string]bool
	}
	byTeam := make(map[string]*teamAcc)

	for _, r := range a.records {
		team := a.cfg.Team(r.Author)
		if team == "" {
			continue
		}
		acc := byTeam[team]
		if acc == nil {
			acc = &teamAcc{members: make(map[string]bool)}
			byTeam[team] = acc
		}
		acc.records = append(acc.records, r)
		acc.members[r.Author] = true
	}

	teams := make([]TeamStats, 0, len(byTeam))
	for name, acc := range byTeam {
		words := 0
		userCounts := make(map[string]int)
		for _, r := range acc.records {
			words += len(strings.Fields(r.Body))
			userCounts[r.Author]++
		}

		topUser, topCount := "", -1
		users := make([]string, 0, len(userCounts))
		for u := range userCounts {
			users = append(users, u)
		}
		sort.Strings(users)
		for _, u := range users {
			if userCounts[u] > topCount {
				topUser, topCount = u, userCounts[u]
			}
		}

		teams = append(teams, TeamStats{
			Name:                name,
			Messages:            len(acc.records),
			Members:             len(acc.members),
			AveragePerPerson:    round2(float64(len(acc.records)) / float64(len(acc.members))),
			Words:               words,
			TopContributor:      a.cfg.DisplayName(topUser),
			TopContributorCount: topCount,
		})
	}

	sort.Slice(teams, func(i, j int) bool {
		if teams[i].Messages != teams[j].Messages {
			return teams[i].Messages > teams[j].Messages
		}
		return teams[i].Name < teams[j].Name
	})

	return teams
}
