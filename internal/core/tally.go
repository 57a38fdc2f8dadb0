package core

import (
	"math"
	"sort"
	"time"

	"hoa-backend-go/internal/models"
)

// TallyVotes counts ballots per position.
//
// Every candidate appears in its position's result, including those without
// votes. Choices naming an unknown candidate, or a candidate running for a
// different position, are ignored. Candidates are ordered by votes
// descending, then name, then ID. All candidates sharing the highest count are
// leaders, provided that count is above zero.
//
// Positions follow the election's declared order; positions that only
// candidates mention come after, alphabetically.
func TallyVotes(positions []string, candidates []*models.Candidate, votes []*models.Vote) []models.PositionResult {
	byID := make(map[string]*models.Candidate, len(candidates))
	rows := map[string]map[string]*models.CandidateResult{}
	for _, c := range candidates {
		byID[c.ID] = c
		if rows[c.Position] == nil {
			rows[c.Position] = map[string]*models.CandidateResult{}
		}
		rows[c.Position][c.ID] = &models.CandidateResult{CandidateID: c.ID, Name: c.Name, PhotoURL: c.PhotoURL}
	}

	for _, v := range votes {
		for position, candidateID := range v.Choices {
			c, ok := byID[candidateID]
			if !ok || c.Position != position {
				continue
			}
			rows[position][candidateID].Votes++
		}
	}

	results := make([]models.PositionResult, 0, len(rows))
	for _, position := range positionOrder(positions, candidates) {
		results = append(results, rankPosition(position, rows[position]))
	}
	return results
}

func rankPosition(position string, row map[string]*models.CandidateResult) models.PositionResult {
	res := models.PositionResult{
		Position:   position,
		Candidates: make([]models.CandidateResult, 0, len(row)),
		Leaders:    []string{},
	}
	for _, cr := range row {
		res.Candidates = append(res.Candidates, *cr)
		res.TotalVotes += cr.Votes
	}
	sort.Slice(res.Candidates, func(i, j int) bool {
		a, b := res.Candidates[i], res.Candidates[j]
		if a.Votes != b.Votes {
			return a.Votes > b.Votes
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.CandidateID < b.CandidateID
	})

	if len(res.Candidates) == 0 || res.Candidates[0].Votes == 0 {
		return res
	}
	top := res.Candidates[0].Votes
	for i := range res.Candidates {
		if res.Candidates[i].Votes != top {
			break
		}
		res.Candidates[i].Leader = true
		res.Leaders = append(res.Leaders, res.Candidates[i].CandidateID)
	}
	res.Tie = len(res.Leaders) > 1
	return res
}

// positionOrder returns declared positions followed by the remaining
// candidate positions in alphabetical order, without duplicates.
func positionOrder(declared []string, candidates []*models.Candidate) []string {
	seen := map[string]bool{}
	order := make([]string, 0, len(declared))
	for _, p := range declared {
		if !seen[p] {
			seen[p] = true
			order = append(order, p)
		}
	}
	var extra []string
	for _, c := range candidates {
		if !seen[c.Position] {
			seen[c.Position] = true
			extra = append(extra, c.Position)
		}
	}
	sort.Strings(extra)
	return append(order, extra...)
}

// BuildResults assembles the full results document for an election.
func BuildResults(e *models.Election, candidates []*models.Candidate, votes []*models.Vote, eligible int, now time.Time) *models.ElectionResults {
	res := &models.ElectionResults{
		ElectionID:     e.ID,
		Status:         e.StatusAt(now),
		TotalVoters:    len(votes),
		EligibleVoters: eligible,
		Positions:      TallyVotes(e.Positions, candidates, votes),
		ComputedAt:     now.UTC(),
	}
	if eligible > 0 {
		res.Turnout = math.Round(float64(len(votes))/float64(eligible)*10000) / 10000
	}
	return res
}
