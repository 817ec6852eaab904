// internal/app/store/mongostore/watch.go
package mongostore

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/seeyou-app/seeyou/internal/app/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// fetchFunc reloads the watched state. ok=false means the underlying
// record is gone and the stream should end.
type fetchFunc[T any] func(ctx context.Context) (T, bool, error)

// runWatch is the producer loop behind both Watch implementations. It
// tries a change stream first and downgrades to polling when the
// deployment cannot provide one (standalone mongod without an oplog).
// Either way every wakeup refetches the full state; the change event is
// only a trigger, never the payload, so a missed event costs latency
// but not correctness.
func runWatch[T any](ctx context.Context, coll *mongo.Collection, match bson.M, sub *store.Subscription[T], fetch fetchFunc[T], log *zap.Logger) {
	defer sub.Close()

	pipeline := mongo.Pipeline{{{Key: "$match", Value: match}}}
	cs, err := coll.Watch(ctx, pipeline)
	if err != nil {
		if !changeStreamUnsupported(err) {
			log.Warn("change stream open failed, polling instead",
				zap.String("collection", coll.Name()), zap.Error(err))
		}
		pollWatch(ctx, sub, fetch)
		return
	}
	defer cs.Close(context.Background())

	// The change stream blocks in Next; close it when the subscriber
	// cancels so the loop can exit.
	go func() {
		select {
		case <-sub.Done():
		case <-ctx.Done():
		}
		cs.Close(context.Background())
	}()

	for cs.Next(ctx) {
		state, ok, err := fetch(ctx)
		if err != nil {
			log.Warn("watch refetch failed",
				zap.String("collection", coll.Name()), zap.Error(err))
			return
		}
		if !ok {
			return
		}
		if !sub.Publish(state) {
			return
		}
	}
}

// pollWatch republishes on a timer. Snapshots identical to the last one
// delivered are suppressed.
func pollWatch[T any](ctx context.Context, sub *store.Subscription[T], fetch fetchFunc[T]) {
	ticker := time.NewTicker(watchPollInterval)
	defer ticker.Stop()

	var last T
	var delivered bool
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done():
			return
		case <-ticker.C:
		}

		state, ok, err := fetch(ctx)
		if err != nil || !ok {
			return
		}
		if delivered && reflect.DeepEqual(state, last) {
			continue
		}
		if !sub.Publish(state) {
			return
		}
		last = state
		delivered = true
	}
}

// changeStreamUnsupported matches the server errors a non-replica-set
// deployment returns when asked for a change stream.
func changeStreamUnsupported(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "replica set") ||
		strings.Contains(msg, "changestream") ||
		strings.Contains(msg, "change stream") ||
		strings.Contains(msg, "not supported")
}
