package category

type Category struct {
	ID               int64  `json:"id"`
	Slug             string `json:"slug"`
	ParentID         *int64 `json:"parent_id,omitempty"`
	Label            string `json:"label"`
	IsActive         bool   `json:"is_active"`
	RequiresAircraft bool   `json:"requires_aircraft"`
	ProOnly          bool   `json:"pro_only"`
	OrderIndex       int    `json:"order_index"`
}

// Node is a category plus its direct children, for the browsing tree.
type Node struct {
	Category
	Children []*Node `json:"children,omitempty"`
}
