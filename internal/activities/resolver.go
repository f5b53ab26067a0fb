package activities

import (
	"context"
	"fmt"

	"github.com/orgs-directory/backend/internal/metrics"
)

// MaxDepth is the number of levels below a root that descendant expansion visits.
// Stored trees may be deeper, or even cyclic; expansion never goes further.
const MaxDepth = 3

// ChildrenFetcher returns the direct children of an activity.
type ChildrenFetcher interface {
	ChildIDs(ctx context.Context, parentID int64) ([]int64, error)
}

// Resolver expands an activity into itself plus its descendants.
type Resolver struct {
	store    ChildrenFetcher
	maxDepth int
}

// NewResolver creates a resolver capped at MaxDepth levels.
func NewResolver(store ChildrenFetcher) *Resolver {
	return &Resolver{store: store, maxDepth: MaxDepth}
}

// ExpandDescendants walks breadth-first from rootID for at most maxDepth levels and
// returns every id reached, root first, each id once. An unknown root yields just [rootID].
// The next frontier is de-duplicated within a level only, so a cycle is walked again
// on each level until the depth cap stops it.
func (r *Resolver) ExpandDescendants(ctx context.Context, rootID int64) ([]int64, error) {
	collected := map[int64]struct{}{rootID: {}}
	ids := []int64{rootID}
	frontier := []int64{rootID}

	for depth := 0; depth < r.maxDepth && len(frontier) > 0; depth++ {
		var next []int64
		level := make(map[int64]struct{})
		for _, id := range frontier {
			children, err := r.store.ChildIDs(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("children of activity %d: %w", id, err)
			}
			for _, c := range children {
				if _, dup := level[c]; dup {
					continue
				}
				level[c] = struct{}{}
				next = append(next, c)
				if _, seen := collected[c]; !seen {
					collected[c] = struct{}{}
					ids = append(ids, c)
				}
			}
		}
		frontier = next
	}

	metrics.ActivityExpansionSize.Observe(float64(len(ids)))
	return ids, nil
}
