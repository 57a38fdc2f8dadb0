package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"

	"hoa-backend-go/internal/models"
)

const membersCollection = "members"

// firestoreMemberRepository implements MemberRepository using Firestore.
type firestoreMemberRepository struct {
	client *firestore.Client
}

// NewFirestoreMemberRepository creates a MemberRepository backed by client.
func NewFirestoreMemberRepository(client *firestore.Client) MemberRepository {
	return &firestoreMemberRepository{client: client}
}

func decodeMember(doc *firestore.DocumentSnapshot) (*models.Member, error) {
	var m models.Member
	if err := doc.DataTo(&m); err != nil {
		return nil, fmt.Errorf("failed to decode member '%s': %w", doc.Ref.ID, err)
	}
	m.ID = doc.Ref.ID
	return &m, nil
}

// GetByID retrieves a member by Firebase Auth UID.
func (r *firestoreMemberRepository) GetByID(ctx context.Context, memberID string) (*models.Member, error) {
	if memberID == "" {
		return nil, errors.New("memberID cannot be empty")
	}
	doc, err := r.client.Collection(membersCollection).Doc(memberID).Get(ctx)
	if err != nil {
		return nil, wrapErr(err, "get", "member", memberID)
	}
	return decodeMember(doc)
}

// GetByIDs retrieves the members that exist among memberIDs, skipping the rest.
func (r *firestoreMemberRepository) GetByIDs(ctx context.Context, memberIDs []string) ([]*models.Member, error) {
	if len(memberIDs) == 0 {
		return []*models.Member{}, nil
	}
	refs := make([]*firestore.DocumentRef, 0, len(memberIDs))
	for _, id := range memberIDs {
		refs = append(refs, r.client.Collection(membersCollection).Doc(id))
	}
	snaps, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to get %d members: %w", len(memberIDs), err)
	}
	members := make([]*models.Member, 0, len(snaps))
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		m, err := decodeMember(snap)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

// List returns members ordered by last name.
func (r *firestoreMemberRepository) List(ctx context.Context, page Page) ([]*models.Member, error) {
	coll := r.client.Collection(membersCollection)
	q, err := paginate(ctx, coll.OrderBy("lastName", firestore.Asc).OrderBy("firstName", firestore.Asc), coll, page)
	if err != nil {
		return nil, err
	}
	members, err := readAll(q.Documents(ctx), decodeMember)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// ListByRoles returns every member holding one of roles.
func (r *firestoreMemberRepository) ListByRoles(ctx context.Context, roles []string) ([]*models.Member, error) {
	q := r.client.Collection(membersCollection).Where("role", "in", roles)
	members, err := readAll(q.Documents(ctx), decodeMember)
	if err != nil {
		return nil, fmt.Errorf("failed to list members with roles %s: %w", strings.Join(roles, ","), err)
	}
	return members, nil
}

// Count returns the number of registered members.
func (r *firestoreMemberRepository) Count(ctx context.Context) (int, error) {
	n, err := countOf(ctx, r.client.Collection(membersCollection).Query)
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return n, nil
}

// Update overwrites the editable member fields. Push tokens are left alone
// so a concurrent token registration is not lost.
func (r *firestoreMemberRepository) Update(ctx context.Context, member *models.Member) error {
	_, err := r.client.Collection(membersCollection).Doc(member.ID).Update(ctx, []firestore.Update{
		{Path: "firstName", Value: member.FirstName},
		{Path: "lastName", Value: member.LastName},
		{Path: "contactNumber", Value: member.ContactNumber},
		{Path: "address", Value: member.Address},
		{Path: "photoUrl", Value: member.PhotoURL},
		{Path: "photoPath", Value: member.PhotoPath},
		{Path: "searchName", Value: member.SearchName},
		{Path: "updatedAt", Value: member.UpdatedAt},
	})
	if err != nil {
		return wrapErr(err, "update", "member", member.ID)
	}
	return nil
}

// AddPushToken adds token to the member's push tokens if not already present.
func (r *firestoreMemberRepository) AddPushToken(ctx context.Context, memberID, token string) error {
	_, err := r.client.Collection(membersCollection).Doc(memberID).Update(ctx, []firestore.Update{
		{Path: "pushTokens", Value: firestore.ArrayUnion(token)},
	})
	if err != nil {
		return wrapErr(err, "add push token to", "member", memberID)
	}
	return nil
}

// RemovePushTokens drops tokens from the member's push tokens.
func (r *firestoreMemberRepository) RemovePushTokens(ctx context.Context, memberID string, tokens ...string) error {
	if len(tokens) == 0 {
		return nil
	}
	values := make([]interface{}, len(tokens))
	for i, t := range tokens {
		values[i] = t
	}
	_, err := r.client.Collection(membersCollection).Doc(memberID).Update(ctx, []firestore.Update{
		{Path: "pushTokens", Value: firestore.ArrayRemove(values...)},
	})
	if err != nil {
		return wrapErr(err, "remove push tokens from", "member", memberID)
	}
	return nil
}
