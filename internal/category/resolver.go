package category

import "context"

// Resolver expands a root category into its inclusive descendant closure.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver { return &Resolver{store: store} }

// Resolve walks the graph breadth-first from rootID and returns the root
// plus every descendant id. A visited set guards termination even if the
// store reports a cycle; store errors propagate unretried.
func (r *Resolver) Resolve(ctx context.Context, rootID int64) ([]int64, error) {
	seen := map[int64]struct{}{rootID: {}}
	out := []int64{rootID}
	frontier := []int64{rootID}

	for len(frontier) > 0 {
		children, err := r.store.ChildrenOf(ctx, frontier)
		if err != nil {
			return nil, err
		}
		next := frontier[:0:0]
		for _, c := range children {
			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = struct{}{}
			out = append(out, c.ID)
			next = append(next, c.ID)
		}
		frontier = next
	}
	return out, nil
}
