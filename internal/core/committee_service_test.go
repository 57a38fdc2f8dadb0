package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"hoa-backend-go/internal/db"
	"hoa-backend-go/internal/models"
)

type fakeCommittee struct {
	mu      sync.Mutex
	seq     int
	members map[string]models.CommitteeMember
	order   []string // insertion order, returned as-is by List
}

func newFakeCommittee() *fakeCommittee {
	return &fakeCommittee{members: map[string]models.CommitteeMember{}}
}

func (f *fakeCommittee) Create(_ context.Context, m *models.CommitteeMember) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	m.ID = fmt.Sprintf("cm%d", f.seq)
	f.members[m.ID] = *m
	f.order = append(f.order, m.ID)
	return m.ID, nil
}

func (f *fakeCommittee) GetByID(_ context.Context, id string) (*models.CommitteeMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[id]
	if !ok {
		return nil, fmt.Errorf("committee member '%s' not found: %w", id, db.ErrNotFound)
	}
	return &m, nil
}

func (f *fakeCommittee) List(context.Context) ([]*models.CommitteeMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.CommitteeMember{}
	for _, id := range f.order {
		if m, ok := f.members[id]; ok {
			out = append(out, &m)
		}
	}
	return out, nil
}

func (f *fakeCommittee) Update(_ context.Context, m *models.CommitteeMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.members[m.ID]; !ok {
		return db.ErrNotFound
	}
	f.members[m.ID] = *m
	return nil
}

func (f *fakeCommittee) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.members[id]; !ok {
		return fmt.Errorf("committee member '%s' not found: %w", id, db.ErrNotFound)
	}
	delete(f.members, id)
	return nil
}

func newTestCommittee() (*committeeService, *fakeCommittee, *fakeAudit) {
	repo, audit := newFakeCommittee(), &fakeAudit{}
	return NewCommitteeService(repo, audit, nopLogger).(*committeeService), repo, audit
}

func TestCommitteeAdminOnly(t *testing.T) {
	ctx := context.Background()
	svc, repo, audit := newTestCommittee()
	req := models.CommitteeMemberRequest{Name: "Lito Reyes", Position: "President"}

	for _, actor := range []Actor{member, officer} {
		if _, err := svc.Create(ctx, actor, req); !errors.Is(err, ErrForbidden) {
			t.Errorf("Create as %s: err = %v, want ErrForbidden", actor.Role, err)
		}
	}
	existing, _ := svc.Create(ctx, admin, req)
	if _, err := svc.Update(ctx, officer, existing.ID, req); !errors.Is(err, ErrForbidden) {
		t.Errorf("Update as officer: err = %v", err)
	}
	if err := svc.Delete(ctx, member, existing.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Delete as member: err = %v", err)
	}
	if len(repo.members) != 1 {
		t.Errorf("stored %d entries, want 1", len(repo.members))
	}
	if got := audit.actions(); len(got) != 1 || got[0] != ActionCommitteeChange {
		t.Errorf("audit actions = %v", got)
	}
}

func TestCommitteeCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestCommittee()

	tests := []struct {
		name    string
		req     models.CommitteeMemberRequest
		wantErr error
	}{
		{"valid", models.CommitteeMemberRequest{Name: " Lito  Reyes ", Position: "<b>Treasurer</b>"}, nil},
		{"markup only name", models.CommitteeMemberRequest{Name: "<img src=x>", Position: "Auditor"}, ErrInvalidContent},
		{"blank position", models.CommitteeMemberRequest{Name: "Ana", Position: "  "}, ErrInvalidContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := svc.Create(ctx, admin, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err == nil && (m.Name != "Lito Reyes" || m.Position != "Treasurer") {
				t.Errorf("stored %q / %q", m.Name, m.Position)
			}
		})
	}
}

func TestCommitteeListOrder(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestCommittee()
	for _, req := range []models.CommitteeMemberRequest{
		{Name: "zeny", Position: "Auditor", Order: 3},
		{Name: "Bert", Position: "Secretary", Order: 2},
		{Name: "ador", Position: "Director", Order: 2},
		{Name: "Carmen", Position: "President", Order: 1},
	} {
		if _, err := svc.Create(ctx, admin, req); err != nil {
			t.Fatal(err)
		}
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, m := range list {
		names = append(names, m.Name)
	}
	if got, want := strings.Join(names, ","), "Carmen,ador,Bert,zeny"; got != want {
		t.Errorf("order = %s, want %s", got, want)
	}
}

func TestCommitteeUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, repo, audit := newTestCommittee()
	m, _ := svc.Create(ctx, admin, models.CommitteeMemberRequest{Name: "Ana", Position: "Auditor"})

	updated, err := svc.Update(ctx, admin, m.ID, models.CommitteeMemberRequest{Name: "Ana Cruz", Position: "Treasurer", Order: 4})
	if err != nil {
		t.Fatal(err)
	}
	if updated.ID != m.ID || repo.members[m.ID].Position != "Treasurer" || repo.members[m.ID].Order != 4 {
		t.Errorf("stored = %+v", repo.members[m.ID])
	}
	if _, err := svc.Update(ctx, admin, "missing", models.CommitteeMemberRequest{Name: "X", Position: "Y"}); !errors.Is(err, ErrCommitteeMemberNotFound) {
		t.Errorf("Update missing: err = %v", err)
	}

	if err := svc.Delete(ctx, admin, m.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, admin, m.ID); !errors.Is(err, ErrCommitteeMemberNotFound) {
		t.Errorf("second Delete: err = %v", err)
	}

	var ops []string
	for _, e := range audit.entries {
		ops = append(ops, e.Details["op"].(string)+":"+e.TargetID)
	}
	if got, want := strings.Join(ops, ","), "create:cm1,update:cm1,delete:cm1"; got != want {
		t.Errorf("audit ops = %s, want %s", got, want)
	}
}
