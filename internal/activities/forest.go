package activities

import (
	"context"
	"fmt"

	"github.com/orgs-directory/backend/internal/models"
)

// Forest is an in-memory activity taxonomy: nodes keyed by id plus a parent -> children index.
// Nodes never point at each other; traversal always goes through ids.
type Forest struct {
	nodes    map[int64]models.Activity
	order    []int64
	children map[int64][]int64
	roots    []int64
}

// NewForest indexes a flat activity list. Children keep the order of the input.
// An activity whose parent is missing from the list is treated as a root.
func NewForest(list []models.Activity) *Forest {
	f := &Forest{
		nodes:    make(map[int64]models.Activity, len(list)),
		children: make(map[int64][]int64),
	}
	for _, a := range list {
		if _, dup := f.nodes[a.ID]; dup {
			continue
		}
		f.nodes[a.ID] = a
		f.order = append(f.order, a.ID)
	}
	for _, id := range f.order {
		a := f.nodes[id]
		if a.ParentID == nil {
			f.roots = append(f.roots, id)
			continue
		}
		if _, ok := f.nodes[*a.ParentID]; !ok {
			f.roots = append(f.roots, id)
			continue
		}
		f.children[*a.ParentID] = append(f.children[*a.ParentID], id)
	}
	return f
}

// List returns all activities in input order.
func (f *Forest) List(_ context.Context) ([]models.Activity, error) {
	list := make([]models.Activity, 0, len(f.order))
	for _, id := range f.order {
		list = append(list, f.nodes[id])
	}
	return list, nil
}

// GetByID returns the activity with the given id.
func (f *Forest) GetByID(_ context.Context, id int64) (*models.Activity, error) {
	a, ok := f.nodes[id]
	if !ok {
		return nil, fmt.Errorf("activity %d: %w", id, models.ErrNotFound)
	}
	return &a, nil
}

// GetByName returns the first activity with exactly this name.
func (f *Forest) GetByName(_ context.Context, name string) (*models.Activity, error) {
	for _, id := range f.order {
		if a := f.nodes[id]; a.Name == name {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("activity %q: %w", name, models.ErrNotFound)
}

// ChildIDs returns the direct children of parentID.
func (f *Forest) ChildIDs(_ context.Context, parentID int64) ([]int64, error) {
	return append([]int64(nil), f.children[parentID]...), nil
}

// Tree renders every root with its descendants, at most maxDepth levels below the root.
func (f *Forest) Tree(maxDepth int) []*models.ActivityNode {
	out := make([]*models.ActivityNode, 0, len(f.roots))
	for _, id := range f.roots {
		out = append(out, f.subtree(id, maxDepth))
	}
	return out
}

func (f *Forest) subtree(id int64, depth int) *models.ActivityNode {
	n := &models.ActivityNode{Activity: f.nodes[id], Children: []*models.ActivityNode{}}
	if depth <= 0 {
		return n
	}
	for _, c := range f.children[id] {
		n.Children = append(n.Children, f.subtree(c, depth-1))
	}
	return n
}
