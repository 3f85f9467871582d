package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

const categoryCols = `id, slug, parent_id, label, is_active, requires_aircraft, pro_only, order_index`

func (s *SQLStore) BySlug(ctx context.Context, slug string) (Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryCols+` FROM categories WHERE slug=$1`, slug)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	return c, err
}

func (s *SQLStore) ChildrenOf(ctx context.Context, parentIDs []int64) ([]Category, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	ph := make([]string, len(parentIDs))
	args := make([]any, len(parentIDs))
	for i, id := range parentIDs {
		ph[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryCols+` FROM categories WHERE parent_id IN (`+strings.Join(ph, ",")+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCategories(rows)
}

func (s *SQLStore) ListActive(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryCols+` FROM categories WHERE is_active ORDER BY order_index, slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCategories(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(r rowScanner) (Category, error) {
	var c Category
	var parent sql.NullInt64
	if err := r.Scan(&c.ID, &c.Slug, &parent, &c.Label, &c.IsActive,
		&c.RequiresAircraft, &c.ProOnly, &c.OrderIndex); err != nil {
		return Category{}, err
	}
	if parent.Valid {
		c.ParentID = &parent.Int64
	}
	return c, nil
}

func collectCategories(rows *sql.Rows) ([]Category, error) {
	var out []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// BuildTree arranges active categories into root nodes with nested children,
// ordered by order_index.
func BuildTree(cats []Category) []*Node {
	nodes := make(map[int64]*Node, len(cats))
	for _, c := range cats {
		nodes[c.ID] = &Node{Category: c}
	}
	var roots []*Node
	for _, c := range cats {
		n := nodes[c.ID]
		if c.ParentID != nil {
			if p, ok := nodes[*c.ParentID]; ok {
				p.Children = append(p.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}
