package db

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// paginate applies page to q. The cursor document is looked up in coll; an
// unknown cursor is reported as ErrNotFound.
func paginate(ctx context.Context, q firestore.Query, coll *firestore.CollectionRef, page Page) (firestore.Query, error) {
	if page.StartAfter != "" {
		snap, err := coll.Doc(page.StartAfter).Get(ctx)
		if err != nil {
			return q, wrapErr(err, "get", "cursor", page.StartAfter)
		}
		q = q.StartAfter(snap)
	}
	if page.Limit > 0 {
		q = q.Limit(page.Limit)
	}
	return q, nil
}

// readAll drains iter, decoding each document with decode.
func readAll[T any](iter *firestore.DocumentIterator, decode func(*firestore.DocumentSnapshot) (*T, error)) ([]*T, error) {
	defer iter.Stop()

	out := []*T{}
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		v, err := decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// watch runs fn with every snapshot of q until ctx ends or fn fails.
// Cancellation of ctx is a normal stop and returns nil.
func watch(ctx context.Context, q firestore.Query, fn func(*firestore.QuerySnapshot) error) error {
	it := q.Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled || errors.Is(err, iterator.Done) {
				return nil
			}
			return err
		}
		if err := fn(snap); err != nil {
			return err
		}
	}
}

// countOf runs a COUNT aggregation over q.
func countOf(ctx context.Context, q firestore.Query) (int, error) {
	res, err := q.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, err
	}
	return aggregateInt(res["all"]), nil
}

func aggregateInt(v interface{}) int {
	switch n := v.(type) {
	case *firestorepb.Value:
		return int(n.GetIntegerValue())
	case int64:
		return int(n)
	}
	return 0
}
