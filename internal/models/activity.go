package models

// Activity is a node of the business activity taxonomy. ParentID is nil for roots.
type Activity struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id"`
}

// ActivityNode is an activity with its children, used when rendering the taxonomy as a tree.
type ActivityNode struct {
	Activity
	Children []*ActivityNode `json:"children"`
}
