// Package assistant answers free-text questions about the ledger.
//
// Answers are read-only: an Answerer gets a cached Snapshot of users,
// groups, recent expenses and balances and never touches the store. The
// assistant is outside the ledger's correctness surface; a stale snapshot
// or a failed model call only degrades the answer.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/mmynk/splitledger/internal/cache"
	"github.com/mmynk/splitledger/internal/errs"
)

// Question is a user's query, optionally scoped to a user and a group that
// rule matching falls back to when the query names neither.
type Question struct {
	Query   string
	UserID  string
	GroupID string
}

// Reply is an answer and the strategy that produced it.
type Reply struct {
	Text     string
	Strategy string
	Cached   bool
}

// Answerer is one answering strategy.
type Answerer interface {
	Name() string
	Answer(ctx context.Context, q Question, snap *Snapshot) (string, error)
}

// Assistant answers questions with a primary strategy, falling back to
// Rules when it fails, and caches replies.
type Assistant struct {
	snapshots *SnapshotBuilder
	primary   Answerer
	fallback  Answerer
	cache     *cache.Cache
	replyTTL  time.Duration
}

// New creates an Assistant. A nil primary answers with Rules only.
func New(snapshots *SnapshotBuilder, primary Answerer, c *cache.Cache, replyTTL time.Duration) *Assistant {
	if primary == nil {
		primary = Rules{}
	}
	return &Assistant{
		snapshots: snapshots,
		primary:   primary,
		fallback:  Rules{},
		cache:     c,
		replyTTL:  replyTTL,
	}
}

// normalize folds case and whitespace so equivalent queries share a reply.
func normalize(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

func replyKey(q Question) string {
	h := xxhash.New()
	h.WriteString(q.UserID)
	h.WriteString("|")
	h.WriteString(q.GroupID)
	h.WriteString("|")
	h.WriteString(normalize(q.Query))
	return fmt.Sprintf("assistant_reply:%016x", h.Sum64())
}

// Ask answers q. Only the snapshot build can fail; a failing primary
// strategy degrades to Rules.
func (a *Assistant) Ask(ctx context.Context, q Question) (Reply, error) {
	if normalize(q.Query) == "" {
		return Reply{}, errs.Validationf("query is required")
	}

	key := replyKey(q)
	if v, ok := a.cache.Get(key); ok {
		if reply, ok := v.(Reply); ok {
			reply.Cached = true
			return reply, nil
		}
	}

	snap, err := a.snapshots.Build(ctx)
	if err != nil {
		return Reply{}, err
	}

	start := time.Now()
	reply := Reply{Strategy: a.primary.Name()}
	reply.Text, err = a.primary.Answer(ctx, q, snap)
	if err != nil {
		slog.Warn("Assistant strategy failed, falling back", "strategy", a.primary.Name(), "error", err)
		reply.Strategy = a.fallback.Name()
		if reply.Text, err = a.fallback.Answer(ctx, q, snap); err != nil {
			return Reply{}, err
		}
	}

	slog.Info("Assistant answered",
		"strategy", reply.Strategy,
		"users", len(snap.Users),
		"groups", len(snap.Groups),
		"duration", time.Since(start),
	)
	a.cache.Set(key, reply, a.replyTTL)
	return reply, nil
}
