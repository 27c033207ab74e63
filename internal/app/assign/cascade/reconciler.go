package cascade

import (
	"context"
	"errors"
	"sync"

	"github.com/dalemusser/strataassign/internal/app/assign/hierarchy"
	"github.com/dalemusser/strataassign/internal/app/assign/selection"
	"go.uber.org/zap"
)

// ErrStale is returned when the target stopped accepting changes (its
// session closed) while a reconciliation was waiting on a fetch.
var ErrStale = errors.New("cascade: target no longer current")

// Target is the selection state being reconciled.
type Target interface {
	// Selections returns a copy of every level's selection.
	Selections() map[selection.Level][]string
	// Remove drops ids from level l. It returns false, changing nothing,
	// when the target is no longer current.
	Remove(l selection.Level, ids []string) bool
}

// Reconciler checks the graph's edges against the cache, refetching child
// option lists and pruning child selections.
//
// An edge is checked when its child's options key (the ancestor
// selections) or the child's own selection differs from the last state it
// was verified in. A state is recorded only once the child selection has
// actually been reconciled against loaded options, so an edge whose
// options failed to load or were superseded is checked again on the next
// call.
type Reconciler struct {
	cache *hierarchy.Cache
	log   *zap.Logger

	mu   sync.Mutex
	last map[Edge]string
}

// maxSupersede bounds how many times one edge retries a load that a
// concurrent change superseded.
const maxSupersede = 3

// NewReconciler returns a reconciler that has verified no edges yet.
func NewReconciler(cache *hierarchy.Cache, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		cache: cache,
		log:   logger,
		last:  make(map[Edge]string),
	}
}

// Changed reacts to a mutation of level l. Every edge whose inputs moved
// since it was last verified is reconciled, including the edge into l, so
// an ID added at a child level is checked against its parent.
func (r *Reconciler) Changed(ctx context.Context, t Target, l selection.Level) (int, error) {
	r.log.Debug("cascade: reconciling", zap.String("changed", l.String()))
	return r.run(ctx, t, false)
}

// Settle reconciles every edge regardless of what was verified before.
func (r *Reconciler) Settle(ctx context.Context, t Target) (int, error) {
	return r.run(ctx, t, true)
}

// state is what an edge was verified against.
func state(e Edge, sel map[selection.Level][]string) string {
	return hierarchy.Key(e.Child, sel) + "#" + selection.NewSet(sel[e.Child]...).Key()
}

func (r *Reconciler) verified(e Edge, st string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.last[e]
	return ok && prev == st
}

func (r *Reconciler) record(e Edge, st string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last[e] = st
}

// run visits Graph in order; parents come before children, so a prune
// at one level is seen by the edges below it in the same pass. It returns
// how many child selections were removed.
func (r *Reconciler) run(ctx context.Context, t Target, force bool) (int, error) {
	removed := 0
	for _, e := range Graph {
		n, err := r.edge(ctx, t, e, force)
		removed += n
		if err != nil {
			return removed, err
		}
	}
	return removed, nil
}

func (r *Reconciler) edge(ctx context.Context, t Target, e Edge, force bool) (int, error) {
	for attempt := 0; ; attempt++ {
		sel := t.Selections()
		st := state(e, sel)
		if !force && r.verified(e, st) {
			return 0, nil
		}
		before := sel[e.Child]
		if len(before) == 0 {
			r.record(e, st)
			return 0, nil
		}

		var opts []hierarchy.Option
		if e.Empty == Permissive || len(sel[e.Parent]) > 0 {
			var err error
			opts, err = r.cache.Load(ctx, e.Child, sel)
			if errors.Is(err, hierarchy.ErrSuperseded) {
				if attempt < maxSupersede {
					continue
				}
				return 0, err
			}
			if err != nil {
				// Options unknown: keep the child selection, check again later.
				r.log.Warn("cascade: child options unavailable, selection kept",
					zap.String("parent", e.Parent.String()),
					zap.String("child", e.Child.String()),
					zap.Error(err))
				return 0, nil
			}
		}

		next := Reconcile(sel[e.Parent], opts, before, e.Empty)
		drop := difference(before, next)
		if len(drop) > 0 {
			if !t.Remove(e.Child, drop) {
				return 0, ErrStale
			}
			r.log.Debug("cascade: pruned child selection",
				zap.String("parent", e.Parent.String()),
				zap.String("child", e.Child.String()),
				zap.Strings("removed", drop))
		}
		sel[e.Child] = next
		r.record(e, state(e, sel))
		return len(drop), nil
	}
}

func difference(all, keep []string) []string {
	k := make(map[string]bool, len(keep))
	for _, id := range keep {
		k[id] = true
	}
	var out []string
	for _, id := range all {
		if !k[id] {
			out = append(out, id)
		}
	}
	return out
}
