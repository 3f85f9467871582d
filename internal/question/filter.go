package question

import "context"

// Criteria restricts the candidate pool after category expansion.
type Criteria struct {
	Difficulties   []string
	Aircraft       *string
	StrictAircraft bool
	Status         string // defaults to published
}

// Store is the read interface over the question bank.
type Store interface {
	// MetaInCategories returns de-duplicated question metadata for every
	// question with a membership row in any of categoryIDs.
	MetaInCategories(ctx context.Context, categoryIDs []int64) ([]Meta, error)
	ByIDs(ctx context.Context, ids []int64) ([]RawQuestion, error)
}

// PoolFilter computes the eligible question id set for a category closure.
type PoolFilter struct {
	store Store
}

func NewPoolFilter(store Store) *PoolFilter { return &PoolFilter{store: store} }

// Filter applies status, difficulty and aircraft restrictions. An empty
// result is a valid "no questions" outcome, not an error.
func (f *PoolFilter) Filter(ctx context.Context, categoryIDs []int64, c Criteria) ([]int64, error) {
	metas, err := f.store.MetaInCategories(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}

	status := c.Status
	if status == "" {
		status = StatusPublished
	}
	var diffs map[string]struct{}
	if len(c.Difficulties) > 0 {
		diffs = make(map[string]struct{}, len(c.Difficulties))
		for _, d := range c.Difficulties {
			diffs[d] = struct{}{}
		}
	}

	out := make([]int64, 0, len(metas))
	for _, m := range metas {
		if m.Status != status {
			continue
		}
		if diffs != nil {
			if _, ok := diffs[m.Difficulty]; !ok {
				continue
			}
		}
		if c.Aircraft != nil {
			switch {
			case m.Aircraft != nil && *m.Aircraft == *c.Aircraft:
				// exact match always eligible
			case m.Aircraft == nil && !c.StrictAircraft:
				// aircraft-agnostic questions stay in unless strict mode
			default:
				continue
			}
		}
		out = append(out, m.ID)
	}
	return out, nil
}
