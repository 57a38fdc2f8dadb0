package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"hoa-backend-go/internal/crypto"
	"hoa-backend-go/internal/db"
	"hoa-backend-go/internal/identity"
	"hoa-backend-go/internal/models"
	"hoa-backend-go/internal/storage"
)

const testKey = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="

var (
	member  = Actor{ID: "m1", Role: models.RoleMember}
	member2 = Actor{ID: "m2", Role: models.RoleMember}
	officer = Actor{ID: "o1", Role: models.RoleOfficer}
	admin   = Actor{ID: "a1", Role: models.RoleAdmin}

	testNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
)

func fixedNow() time.Time { return testNow }

func testCipher() *crypto.FieldCipher {
	c, err := crypto.NewFieldCipher(testKey)
	if err != nil {
		panic(err)
	}
	return c
}

func upload(name, contentType, body string) Upload {
	return Upload{Name: name, ContentType: contentType, Size: int64(len(body)), Reader: bytes.NewBufferString(body)}
}

// --- members ---

type fakeMembers struct {
	mu      sync.Mutex
	members map[string]models.Member
}

func newFakeMembers(ms ...models.Member) *fakeMembers {
	f := &fakeMembers{members: map[string]models.Member{}}
	for _, m := range ms {
		f.members[m.ID] = m
	}
	return f
}

func (f *fakeMembers) GetByID(_ context.Context, id string) (*models.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[id]
	if !ok {
		return nil, fmt.Errorf("member '%s' not found: %w", id, db.ErrNotFound)
	}
	return &m, nil
}

func (f *fakeMembers) GetByIDs(ctx context.Context, ids []string) ([]*models.Member, error) {
	out := []*models.Member{}
	for _, id := range ids {
		if m, err := f.GetByID(ctx, id); err == nil {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMembers) sorted() []*models.Member {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Member, 0, len(f.members))
	for _, m := range f.members {
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out
}

func (f *fakeMembers) List(_ context.Context, page db.Page) ([]*models.Member, error) {
	all := f.sorted()
	if page.StartAfter != "" {
		found := false
		for i, m := range all {
			if m.ID == page.StartAfter {
				all, found = all[i+1:], true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("cursor '%s' not found: %w", page.StartAfter, db.ErrNotFound)
		}
	}
	if page.Limit > 0 && len(all) > page.Limit {
		all = all[:page.Limit]
	}
	return all, nil
}

func (f *fakeMembers) ListByRoles(_ context.Context, roles []string) ([]*models.Member, error) {
	out := []*models.Member{}
	for _, m := range f.sorted() {
		for _, r := range roles {
			if m.Role == r {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func (f *fakeMembers) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.members), nil
}

func (f *fakeMembers) Update(_ context.Context, m *models.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.members[m.ID]; !ok {
		return db.ErrNotFound
	}
	f.members[m.ID] = *m
	return nil
}

func (f *fakeMembers) AddPushToken(_ context.Context, id, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[id]
	if !ok {
		return db.ErrNotFound
	}
	for _, t := range m.PushTokens {
		if t == token {
			return nil
		}
	}
	m.PushTokens = append(m.PushTokens, token)
	f.members[id] = m
	return nil
}

func (f *fakeMembers) RemovePushTokens(_ context.Context, id string, tokens ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[id]
	if !ok {
		return db.ErrNotFound
	}
	var kept []string
	for _, t := range m.PushTokens {
		if !contains(tokens, t) {
			kept = append(kept, t)
		}
	}
	m.PushTokens = kept
	f.members[id] = m
	return nil
}

// --- posts ---

type fakePosts struct {
	mu       sync.Mutex
	seq      int
	posts    map[string]models.Post
	reacts   map[string]map[string]bool
	comments map[string][]models.Comment
}

func newFakePosts() *fakePosts {
	return &fakePosts{posts: map[string]models.Post{}, reacts: map[string]map[string]bool{}, comments: map[string][]models.Comment{}}
}

func (f *fakePosts) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s%d", prefix, f.seq)
}

func (f *fakePosts) Create(_ context.Context, p *models.Post) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.nextID("p")
	f.posts[p.ID] = *p
	return p.ID, nil
}

func (f *fakePosts) GetByID(_ context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, fmt.Errorf("post '%s' not found: %w", id, db.ErrNotFound)
	}
	return &p, nil
}

func (f *fakePosts) List(_ context.Context, page db.Page) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Post{}
	for _, p := range f.posts {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if page.Limit > 0 && len(out) > page.Limit {
		out = out[:page.Limit]
	}
	return out, nil
}

func (f *fakePosts) UpdateContent(_ context.Context, id, content, imageURL string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return db.ErrNotFound
	}
	p.Content, p.ImageURL, p.UpdatedAt = content, imageURL, at
	f.posts[id] = p
	return nil
}

func (f *fakePosts) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.posts, id)
	delete(f.reacts, id)
	delete(f.comments, id)
	return nil
}

func (f *fakePosts) Watch(ctx context.Context, limit int, fn func([]*models.Post) error) error {
	posts, _ := f.List(ctx, db.Page{Limit: limit})
	return fn(posts)
}

func (f *fakePosts) AddReact(_ context.Context, postID, authorID string, _ time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[postID]
	if !ok {
		return 0, db.ErrNotFound
	}
	if f.reacts[postID] == nil {
		f.reacts[postID] = map[string]bool{}
	}
	if !f.reacts[postID][authorID] {
		f.reacts[postID][authorID] = true
		p.ReactsCount++
		f.posts[postID] = p
	}
	return p.ReactsCount, nil
}

func (f *fakePosts) RemoveReact(_ context.Context, postID, authorID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[postID]
	if !ok {
		return 0, db.ErrNotFound
	}
	if f.reacts[postID][authorID] {
		delete(f.reacts[postID], authorID)
		p.ReactsCount--
		f.posts[postID] = p
	}
	return p.ReactsCount, nil
}

func (f *fakePosts) LikedBy(_ context.Context, ids []string, authorID string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]bool{}
	for _, id := range ids {
		out[id] = f.reacts[id][authorID]
	}
	return out, nil
}

func (f *fakePosts) AddComment(_ context.Context, c *models.Comment) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[c.PostID]
	if !ok {
		return "", db.ErrNotFound
	}
	c.ID = f.nextID("c")
	f.comments[c.PostID] = append(f.comments[c.PostID], *c)
	p.CommentsCount++
	f.posts[c.PostID] = p
	return c.ID, nil
}

func (f *fakePosts) GetComment(_ context.Context, postID, commentID string) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.comments[postID] {
		if c.ID == commentID {
			c := c
			return &c, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakePosts) ListComments(_ context.Context, postID string, _ db.Page) ([]*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Comment{}
	for _, c := range f.comments[postID] {
		c := c
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakePosts) DeleteComment(_ context.Context, postID, commentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.comments[postID]
	for i, c := range list {
		if c.ID == commentID {
			f.comments[postID] = append(list[:i], list[i+1:]...)
			p := f.posts[postID]
			p.CommentsCount--
			f.posts[postID] = p
			return nil
		}
	}
	return db.ErrNotFound
}

// --- elections ---

type fakeElections struct {
	mu         sync.Mutex
	seq        int
	elections  map[string]models.Election
	candidates map[string][]models.Candidate
	votes      map[string]models.Vote
}

func newFakeElections() *fakeElections {
	return &fakeElections{
		elections:  map[string]models.Election{},
		candidates: map[string][]models.Candidate{},
		votes:      map[string]models.Vote{},
	}
}

func (f *fakeElections) Create(_ context.Context, e *models.Election) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	if e.ID == "" {
		e.ID = fmt.Sprintf("e%d", f.seq)
	}
	f.elections[e.ID] = *e
	return e.ID, nil
}

func (f *fakeElections) GetByID(_ context.Context, id string) (*models.Election, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.elections[id]
	if !ok {
		return nil, fmt.Errorf("election '%s' not found: %w", id, db.ErrNotFound)
	}
	return &e, nil
}

func (f *fakeElections) List(context.Context) ([]*models.Election, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Election{}
	for _, e := range f.elections {
		e := e
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeElections) AddCandidate(_ context.Context, c *models.Candidate) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	if c.ID == "" {
		c.ID = fmt.Sprintf("c%d", f.seq)
	}
	f.candidates[c.ElectionID] = append(f.candidates[c.ElectionID], *c)
	return c.ID, nil
}

func (f *fakeElections) GetCandidate(_ context.Context, electionID, id string) (*models.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.candidates[electionID] {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeElections) ListCandidates(_ context.Context, electionID string) ([]*models.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Candidate{}
	for _, c := range f.candidates[electionID] {
		c := c
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeElections) DeleteCandidate(_ context.Context, electionID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.candidates[electionID]
	for i, c := range list {
		if c.ID == id {
			f.candidates[electionID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

func (f *fakeElections) CreateVote(_ context.Context, v *models.Vote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v.ID = models.VoteID(v.ElectionID, v.VoterID)
	if _, ok := f.votes[v.ID]; ok {
		return fmt.Errorf("vote '%s' already exists: %w", v.ID, db.ErrAlreadyExists)
	}
	f.votes[v.ID] = *v
	return nil
}

func (f *fakeElections) GetVote(_ context.Context, electionID, voterID string) (*models.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.votes[models.VoteID(electionID, voterID)]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &v, nil
}

func (f *fakeElections) ListVotes(_ context.Context, electionID string) ([]*models.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Vote{}
	for _, v := range f.votes {
		if v.ElectionID == electionID {
			v := v
			out = append(out, &v)
		}
	}
	return out, nil
}

func (f *fakeElections) VotedIn(_ context.Context, ids []string, voterID string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]bool{}
	for _, id := range ids {
		_, out[id] = f.votes[models.VoteID(id, voterID)]
	}
	return out, nil
}

func (f *fakeElections) WatchVotes(ctx context.Context, electionID string, fn func([]*models.Vote) error) error {
	votes, _ := f.ListVotes(ctx, electionID)
	return fn(votes)
}

// --- complaints and contributions ---

type fakeComplaints struct {
	mu         sync.Mutex
	seq        int
	complaints map[string]models.Complaint
}

func newFakeComplaints() *fakeComplaints {
	return &fakeComplaints{complaints: map[string]models.Complaint{}}
}

func (f *fakeComplaints) Create(_ context.Context, c *models.Complaint) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	c.ID = fmt.Sprintf("q%d", f.seq)
	f.complaints[c.ID] = *c
	return c.ID, nil
}

func (f *fakeComplaints) GetByID(_ context.Context, id string) (*models.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.complaints[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	c.Attachments = append([]models.Attachment(nil), c.Attachments...)
	return &c, nil
}

func (f *fakeComplaints) filter(keep func(models.Complaint) bool) []*models.Complaint {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Complaint{}
	for _, c := range f.complaints {
		if keep(c) {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeComplaints) ListBySubmitter(_ context.Context, id string) ([]*models.Complaint, error) {
	return f.filter(func(c models.Complaint) bool { return c.SubmitterID == id }), nil
}

func (f *fakeComplaints) List(_ context.Context, status string) ([]*models.Complaint, error) {
	return f.filter(func(c models.Complaint) bool { return status == "" || c.Status == status }), nil
}

func (f *fakeComplaints) CountOpenBySubmitter(_ context.Context, id string) (int, error) {
	return len(f.filter(func(c models.Complaint) bool {
		return c.SubmitterID == id && (c.Status == models.ComplaintPending || c.Status == models.ComplaintInProgress)
	})), nil
}

func (f *fakeComplaints) Mutate(ctx context.Context, id string, fn func(*models.Complaint) error) (*models.Complaint, error) {
	c, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.complaints[id] = *c
	f.mu.Unlock()
	return c, nil
}

type fakeContributions struct {
	mu    sync.Mutex
	seq   int
	items map[string]models.Contribution
}

func newFakeContributions(cs ...models.Contribution) *fakeContributions {
	f := &fakeContributions{items: map[string]models.Contribution{}}
	for _, c := range cs {
		f.items[c.ID] = c
	}
	return f
}

func (f *fakeContributions) Create(_ context.Context, c *models.Contribution) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	c.ID = fmt.Sprintf("k%d", f.seq)
	f.items[c.ID] = *c
	return c.ID, nil
}

func (f *fakeContributions) GetByID(_ context.Context, id string) (*models.Contribution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &c, nil
}

func (f *fakeContributions) ListByAccount(_ context.Context, account string, year int) ([]*models.Contribution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := fmt.Sprintf("%04d-", year)
	out := []*models.Contribution{}
	for _, c := range f.items {
		if c.AccountNumber == account && (year == 0 || c.Month[:5] == prefix) {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out, nil
}

func (f *fakeContributions) Mutate(ctx context.Context, id string, fn func(*models.Contribution) error) (*models.Contribution, error) {
	c, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.items[id] = *c
	f.mu.Unlock()
	return c, nil
}

// --- collaborators ---

type fakeAudit struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (f *fakeAudit) CreateAuditLog(_ context.Context, e models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeAudit) List(context.Context, int) ([]*models.AuditLog, error) { return nil, nil }

func (f *fakeAudit) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []models.NotificationEvent
}

func (f *fakeNotifier) Notify(_ context.Context, e models.NotificationEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

func (f *fakeNotifier) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []string{}
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeFiles struct {
	mu      sync.Mutex
	seq     int
	objects map[string][]byte
	deleted []string
}

func newFakeFiles() *fakeFiles { return &fakeFiles{objects: map[string][]byte{}} }

func (f *fakeFiles) Upload(_ context.Context, prefix, name, contentType string, r io.Reader) (*storage.Object, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	path := fmt.Sprintf("%s/obj%d", prefix, f.seq)
	f.objects[path] = body
	return &storage.Object{Path: path, Name: name, ContentType: contentType, Size: int64(len(body))}, nil
}

func (f *fakeFiles) SignedURL(path string) (string, error) {
	return "https://signed.example/" + path, nil
}

func (f *fakeFiles) Delete(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, path)
	f.deleted = append(f.deleted, path)
	return nil
}

type mapCache struct {
	mu   sync.Mutex
	data map[string]string
	sets int
}

func newMapCache() *mapCache { return &mapCache{data: map[string]string{}} }

func (c *mapCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.sets++
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *mapCache) Close() error { return nil }

type fakeIdentity struct {
	sessions map[string]*identity.Session // keyed by email
	resets   []string
	resetErr error
}

func (f *fakeIdentity) SignInWithPassword(_ context.Context, email, password string) (*identity.Session, error) {
	s, ok := f.sessions[email]
	if !ok || password != "correct" {
		return nil, fmt.Errorf("%w: INVALID_LOGIN_CREDENTIALS", identity.ErrInvalidCredentials)
	}
	return s, nil
}

func (f *fakeIdentity) Refresh(_ context.Context, token string) (*identity.Session, error) {
	for _, s := range f.sessions {
		if s.RefreshToken == token {
			return s, nil
		}
	}
	return nil, identity.ErrInvalidCredentials
}

func (f *fakeIdentity) SendPasswordReset(_ context.Context, email string) error {
	f.resets = append(f.resets, email)
	return f.resetErr
}

var nopLogger = zap.NewNop()
