package core

import (
	"reflect"
	"testing"
	"time"

	"hoa-backend-go/internal/models"
)

func cand(id, name, position string) *models.Candidate {
	return &models.Candidate{ID: id, Name: name, Position: position}
}

func ballot(voter string, choices map[string]string) *models.Vote {
	return &models.Vote{VoterID: voter, Choices: choices}
}

func TestTallyVotes(t *testing.T) {
	candidates := []*models.Candidate{
		cand("p1", "Maria Santos", "President"),
		cand("p2", "Jose Cruz", "President"),
		cand("p3", "Ana Reyes", "President"),
		cand("t1", "Ben Lim", "Treasurer"),
		cand("t2", "Carla Diaz", "Treasurer"),
		cand("s1", "Dan Go", "Secretary"),
	}

	tests := []struct {
		name        string
		votes       []*models.Vote
		wantCounts  map[string][]int // position -> counts in output order
		wantOrder   map[string][]string
		wantLeaders map[string][]string
		wantTie     map[string]bool
	}{
		{
			name: "clear winner",
			votes: []*models.Vote{
				ballot("v1", map[string]string{"President": "p1", "Treasurer": "t1"}),
				ballot("v2", map[string]string{"President": "p1", "Treasurer": "t2"}),
				ballot("v3", map[string]string{"President": "p2", "Treasurer": "t1"}),
			},
			wantCounts:  map[string][]int{"President": {2, 1, 0}, "Treasurer": {2, 1}},
			wantOrder:   map[string][]string{"President": {"p1", "p2", "p3"}, "Treasurer": {"t1", "t2"}},
			wantLeaders: map[string][]string{"President": {"p1"}, "Treasurer": {"t1"}, "Secretary": {}},
			wantTie:     map[string]bool{"President": false, "Treasurer": false},
		},
		{
			name: "tie yields co-leaders ordered by name",
			votes: []*models.Vote{
				ballot("v1", map[string]string{"President": "p1"}),
				ballot("v2", map[string]string{"President": "p2"}),
				ballot("v3", map[string]string{"President": "p3"}),
			},
			wantCounts:  map[string][]int{"President": {1, 1, 1}},
			wantOrder:   map[string][]string{"President": {"p3", "p2", "p1"}},
			wantLeaders: map[string][]string{"President": {"p3", "p2", "p1"}, "Treasurer": {}},
			wantTie:     map[string]bool{"President": true, "Treasurer": false},
		},
		{
			name:        "no votes means no leaders",
			votes:       nil,
			wantCounts:  map[string][]int{"President": {0, 0, 0}, "Secretary": {0}},
			wantLeaders: map[string][]string{"President": {}, "Secretary": {}},
			wantTie:     map[string]bool{"President": false},
		},
		{
			name: "invalid choices are ignored",
			votes: []*models.Vote{
				ballot("v1", map[string]string{"President": "t1"}),      // candidate of another position
				ballot("v2", map[string]string{"President": "unknown"}), // unknown candidate
				ballot("v3", map[string]string{"Auditor": "p1"}),        // position mismatch
				ballot("v4", map[string]string{"Secretary": "s1"}),
			},
			wantCounts:  map[string][]int{"President": {0, 0, 0}, "Treasurer": {0, 0}, "Secretary": {1}},
			wantLeaders: map[string][]string{"President": {}, "Secretary": {"s1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := TallyVotes([]string{"President", "Treasurer", "Secretary"}, candidates, tt.votes)
			byPos := map[string]models.PositionResult{}
			for _, r := range results {
				byPos[r.Position] = r
			}

			for pos, want := range tt.wantCounts {
				got := []int{}
				for _, c := range byPos[pos].Candidates {
					got = append(got, c.Votes)
				}
				if !reflect.DeepEqual(got, want) {
					t.Errorf("%s counts = %v, want %v", pos, got, want)
				}
			}
			for pos, want := range tt.wantOrder {
				got := []string{}
				for _, c := range byPos[pos].Candidates {
					got = append(got, c.CandidateID)
				}
				if !reflect.DeepEqual(got, want) {
					t.Errorf("%s order = %v, want %v", pos, got, want)
				}
			}
			for pos, want := range tt.wantLeaders {
				if got := byPos[pos].Leaders; !reflect.DeepEqual(got, want) {
					t.Errorf("%s leaders = %v, want %v", pos, got, want)
				}
				for _, c := range byPos[pos].Candidates {
					isLeader := false
					for _, id := range want {
						isLeader = isLeader || id == c.CandidateID
					}
					if c.Leader != isLeader {
						t.Errorf("%s candidate %s Leader = %v, want %v", pos, c.CandidateID, c.Leader, isLeader)
					}
				}
			}
			for pos, want := range tt.wantTie {
				if got := byPos[pos].Tie; got != want {
					t.Errorf("%s tie = %v, want %v", pos, got, want)
				}
			}
		})
	}
}

func TestTallyVotesTotals(t *testing.T) {
	candidates := []*models.Candidate{cand("a", "A", "President"), cand("b", "B", "President")}
	votes := []*models.Vote{
		ballot("v1", map[string]string{"President": "a"}),
		ballot("v2", map[string]string{"President": "a"}),
		ballot("v3", map[string]string{"President": "b"}),
		ballot("v4", map[string]string{"President": "ghost"}),
	}
	res := TallyVotes([]string{"President"}, candidates, votes)
	if len(res) != 1 || res[0].TotalVotes != 3 {
		t.Fatalf("TotalVotes = %+v, want 3", res)
	}
}

func TestPositionOrder(t *testing.T) {
	candidates := []*models.Candidate{
		cand("1", "x", "Treasurer"),
		cand("2", "x", "Auditor"),
		cand("3", "x", "PRO"),
		cand("4", "x", "President"),
	}
	got := []string{}
	for _, r := range TallyVotes([]string{"President", "Treasurer", "Secretary"}, candidates, nil) {
		got = append(got, r.Position)
	}
	want := []string{"President", "Treasurer", "Secretary", "Auditor", "PRO"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("positions = %v, want %v", got, want)
	}
}

func TestBuildResults(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	e := &models.Election{
		ID:        "e1",
		StartAt:   now.Add(-2 * time.Hour),
		EndAt:     now.Add(-time.Hour),
		Positions: []string{"President"},
	}
	candidates := []*models.Candidate{cand("a", "A", "President")}
	votes := []*models.Vote{ballot("v1", map[string]string{"President": "a"})}

	res := BuildResults(e, candidates, votes, 3, now)
	if res.Status != models.ElectionEnded {
		t.Errorf("Status = %s, want ended", res.Status)
	}
	if res.TotalVoters != 1 || res.EligibleVoters != 3 {
		t.Errorf("voters = %d/%d", res.TotalVoters, res.EligibleVoters)
	}
	if res.Turnout != 0.3333 {
		t.Errorf("Turnout = %v, want 0.3333", res.Turnout)
	}

	if zero := BuildResults(e, candidates, nil, 0, now); zero.Turnout != 0 {
		t.Errorf("Turnout with no eligible voters = %v, want 0", zero.Turnout)
	}
}
