package db

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"hoa-backend-go/internal/models"
)

const (
	postsCollection    = "posts"
	commentsCollection = "comments"
	reactsCollection   = "reacts"
)

// firestorePostRepository implements PostRepository using Firestore.
type firestorePostRepository struct {
	client *firestore.Client
}

// NewFirestorePostRepository creates a PostRepository backed by client.
func NewFirestorePostRepository(client *firestore.Client) PostRepository {
	return &firestorePostRepository{client: client}
}

func (r *firestorePostRepository) posts() *firestore.CollectionRef {
	return r.client.Collection(postsCollection)
}

func decodePost(doc *firestore.DocumentSnapshot) (*models.Post, error) {
	var p models.Post
	if err := doc.DataTo(&p); err != nil {
		return nil, fmt.Errorf("failed to decode post '%s': %w", doc.Ref.ID, err)
	}
	p.ID = doc.Ref.ID
	return &p, nil
}

func decodeComment(doc *firestore.DocumentSnapshot) (*models.Comment, error) {
	var c models.Comment
	if err := doc.DataTo(&c); err != nil {
		return nil, fmt.Errorf("failed to decode comment '%s': %w", doc.Ref.ID, err)
	}
	c.ID = doc.Ref.ID
	c.PostID = doc.Ref.Parent.Parent.ID
	return &c, nil
}

// Create adds a post with an auto-generated ID and zeroed counters.
func (r *firestorePostRepository) Create(ctx context.Context, post *models.Post) (string, error) {
	ref := r.posts().NewDoc()
	post.ID = ref.ID
	post.ReactsCount, post.CommentsCount = 0, 0
	if _, err := ref.Create(ctx, post); err != nil {
		return "", fmt.Errorf("failed to create post: %w", err)
	}
	return ref.ID, nil
}

// GetByID retrieves a post.
func (r *firestorePostRepository) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	doc, err := r.posts().Doc(postID).Get(ctx)
	if err != nil {
		return nil, wrapErr(err, "get", "post", postID)
	}
	return decodePost(doc)
}

func (r *firestorePostRepository) newestFirst() firestore.Query {
	return r.posts().OrderBy("createdAt", firestore.Desc)
}

// List returns posts newest first.
func (r *firestorePostRepository) List(ctx context.Context, page Page) ([]*models.Post, error) {
	q, err := paginate(ctx, r.newestFirst(), r.posts(), page)
	if err != nil {
		return nil, err
	}
	posts, err := readAll(q.Documents(ctx), decodePost)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// UpdateContent changes the editable fields of a post without touching its counters.
func (r *firestorePostRepository) UpdateContent(ctx context.Context, postID, content, imageURL string, updatedAt time.Time) error {
	_, err := r.posts().Doc(postID).Update(ctx, []firestore.Update{
		{Path: "content", Value: content},
		{Path: "imageUrl", Value: imageURL},
		{Path: "updatedAt", Value: updatedAt},
	})
	if err != nil {
		return wrapErr(err, "update", "post", postID)
	}
	return nil
}

// Delete removes a post together with its comments and reacts.
func (r *firestorePostRepository) Delete(ctx context.Context, postID string) error {
	ref := r.posts().Doc(postID)
	if _, err := ref.Get(ctx); err != nil {
		return wrapErr(err, "get", "post", postID)
	}

	refs := []*firestore.DocumentRef{}
	for _, sub := range []string{commentsCollection, reactsCollection} {
		children, err := ref.Collection(sub).DocumentRefs(ctx).GetAll()
		if err != nil {
			return fmt.Errorf("failed to list %s of post '%s': %w", sub, postID, err)
		}
		refs = append(refs, children...)
	}
	refs = append(refs, ref)

	bw := r.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(refs))
	for _, doc := range refs {
		job, err := bw.Delete(doc)
		if err != nil {
			bw.End()
			return fmt.Errorf("failed to enqueue delete of %s: %w", doc.Path, err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return fmt.Errorf("failed to delete post '%s': %w", postID, err)
		}
	}
	return nil
}

// Watch calls fn with the newest limit posts on every change to the feed.
func (r *firestorePostRepository) Watch(ctx context.Context, limit int, fn func([]*models.Post) error) error {
	return watch(ctx, r.newestFirst().Limit(limit), func(snap *firestore.QuerySnapshot) error {
		posts, err := readAll(snap.Documents, decodePost)
		if err != nil {
			return err
		}
		return fn(posts)
	})
}

// AddReact records authorID's like on a post and returns the resulting count.
// Liking twice is a no-op.
func (r *firestorePostRepository) AddReact(ctx context.Context, postID, authorID string, at time.Time) (int64, error) {
	postRef := r.posts().Doc(postID)
	reactRef := postRef.Collection(reactsCollection).Doc(authorID)

	var count int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		post, err := tx.Get(postRef)
		if err != nil {
			return wrapErr(err, "get", "post", postID)
		}
		count = counter(post, "reactsCount")
		if _, err := tx.Get(reactRef); err == nil {
			return nil
		} else if !isNotFound(err) {
			return wrapErr(err, "get", "react", authorID)
		}
		if err := tx.Create(reactRef, models.React{AuthorID: authorID, CreatedAt: at}); err != nil {
			return err
		}
		count++
		return tx.Update(postRef, []firestore.Update{{Path: "reactsCount", Value: firestore.Increment(1)}})
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// RemoveReact withdraws authorID's like and returns the resulting count.
// Unliking a post that was not liked is a no-op.
func (r *firestorePostRepository) RemoveReact(ctx context.Context, postID, authorID string) (int64, error) {
	postRef := r.posts().Doc(postID)
	reactRef := postRef.Collection(reactsCollection).Doc(authorID)

	var count int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		post, err := tx.Get(postRef)
		if err != nil {
			return wrapErr(err, "get", "post", postID)
		}
		count = counter(post, "reactsCount")
		if _, err := tx.Get(reactRef); isNotFound(err) {
			return nil
		} else if err != nil {
			return wrapErr(err, "get", "react", authorID)
		}
		if err := tx.Delete(reactRef); err != nil {
			return err
		}
		if count <= 0 {
			return nil
		}
		count--
		return tx.Update(postRef, []firestore.Update{{Path: "reactsCount", Value: firestore.Increment(-1)}})
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// LikedBy reports, for each of postIDs, whether authorID has liked it.
func (r *firestorePostRepository) LikedBy(ctx context.Context, postIDs []string, authorID string) (map[string]bool, error) {
	liked := make(map[string]bool, len(postIDs))
	if len(postIDs) == 0 {
		return liked, nil
	}
	refs := make([]*firestore.DocumentRef, 0, len(postIDs))
	for _, id := range postIDs {
		refs = append(refs, r.posts().Doc(id).Collection(reactsCollection).Doc(authorID))
	}
	snaps, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to load reacts of '%s': %w", authorID, err)
	}
	for _, snap := range snaps {
		liked[snap.Ref.Parent.Parent.ID] = snap.Exists()
	}
	return liked, nil
}

// AddComment stores a comment and bumps the post's comment counter.
func (r *firestorePostRepository) AddComment(ctx context.Context, comment *models.Comment) (string, error) {
	postRef := r.posts().Doc(comment.PostID)
	ref := postRef.Collection(commentsCollection).NewDoc()

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(postRef); err != nil {
			return wrapErr(err, "get", "post", comment.PostID)
		}
		if err := tx.Create(ref, comment); err != nil {
			return err
		}
		return tx.Update(postRef, []firestore.Update{{Path: "commentsCount", Value: firestore.Increment(1)}})
	})
	if err != nil {
		return "", err
	}
	comment.ID = ref.ID
	return ref.ID, nil
}

// GetComment retrieves one comment of a post.
func (r *firestorePostRepository) GetComment(ctx context.Context, postID, commentID string) (*models.Comment, error) {
	doc, err := r.posts().Doc(postID).Collection(commentsCollection).Doc(commentID).Get(ctx)
	if err != nil {
		return nil, wrapErr(err, "get", "comment", commentID)
	}
	return decodeComment(doc)
}

// ListComments returns a post's comments oldest first.
func (r *firestorePostRepository) ListComments(ctx context.Context, postID string, page Page) ([]*models.Comment, error) {
	coll := r.posts().Doc(postID).Collection(commentsCollection)
	q, err := paginate(ctx, coll.OrderBy("createdAt", firestore.Asc), coll, page)
	if err != nil {
		return nil, err
	}
	comments, err := readAll(q.Documents(ctx), decodeComment)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments of post '%s': %w", postID, err)
	}
	return comments, nil
}

// DeleteComment removes a comment and decrements the post's comment counter.
func (r *firestorePostRepository) DeleteComment(ctx context.Context, postID, commentID string) error {
	postRef := r.posts().Doc(postID)
	ref := postRef.Collection(commentsCollection).Doc(commentID)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		post, err := tx.Get(postRef)
		if err != nil {
			return wrapErr(err, "get", "post", postID)
		}
		if _, err := tx.Get(ref); err != nil {
			return wrapErr(err, "get", "comment", commentID)
		}
		if err := tx.Delete(ref); err != nil {
			return err
		}
		if counter(post, "commentsCount") <= 0 {
			return nil
		}
		return tx.Update(postRef, []firestore.Update{{Path: "commentsCount", Value: firestore.Increment(-1)}})
	})
}

// counter reads an integer field, treating a missing field as zero.
func counter(doc *firestore.DocumentSnapshot, field string) int64 {
	v, err := doc.DataAt(field)
	if err != nil {
		return 0
	}
	n, _ := v.(int64)
	return n
}
