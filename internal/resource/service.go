// Package resource is the one CRUD service behind every owner-scoped
// entity: table and row shape come in as a type parameter, everything else
// (owner scoping, id assignment, ordering, merge-patch updates) is shared.
package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"nexus/pkg/utils"
)

var ErrNotFound = errors.New("record not found")

// BackendError carries the underlying store failure message; callers get
// no retry and no local fallback.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *BackendError) Unwrap() error { return e.Err }

func backendErr(op string, err error) error { return &BackendError{Op: op, Err: err} }

// Filter narrows List: Equals are column equality predicates, Query is a
// case-insensitive substring match across the configured search columns.
type Filter struct {
	Equals map[string]string
	Query  string
}

type Service[T any] struct {
	db         *gorm.DB
	orderBy    string
	searchCols []string
	idGen      func() string
}

type Option[T any] func(*Service[T])

// WithOrderBy overrides the default created_at DESC listing order
// (calendar events list by start_time ASC).
func WithOrderBy[T any](clause string) Option[T] {
	return func(s *Service[T]) { s.orderBy = clause }
}

func WithSearchColumns[T any](cols ...string) Option[T] {
	return func(s *Service[T]) { s.searchCols = cols }
}

func New[T any](db *gorm.DB, opts ...Option[T]) *Service[T] {
	s := &Service[T]{
		db:      db,
		orderBy: "created_at DESC",
		idGen:   utils.NewID,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// List returns all rows for the owner; no rows is an empty slice, never an
// error.
func (s *Service[T]) List(ctx context.Context, ownerID string) ([]T, error) {
	return s.Find(ctx, ownerID, Filter{})
}

func (s *Service[T]) Find(ctx context.Context, ownerID string, f Filter) ([]T, error) {
	var m T
	q := s.db.WithContext(ctx).Model(&m).Where("owner_id = ?", ownerID)
	for col, val := range f.Equals {
		if !isColumnName(col) {
			return nil, backendErr("find", fmt.Errorf("bad filter column %q", col))
		}
		q = q.Where(fmt.Sprintf("%s = ?", col), val)
	}
	if f.Query != "" && len(s.searchCols) > 0 {
		// LOWER on both sides keeps the match case-insensitive on postgres too
		like := "%" + strings.ToLower(f.Query) + "%"
		or := s.db.Where(fmt.Sprintf("LOWER(%s) LIKE ?", s.searchCols[0]), like)
		for _, col := range s.searchCols[1:] {
			or = or.Or(fmt.Sprintf("LOWER(%s) LIKE ?", col), like)
		}
		q = q.Where(or)
	}
	items := make([]T, 0)
	if err := q.Order(s.orderBy).Find(&items).Error; err != nil {
		return nil, backendErr("list", err)
	}
	return items, nil
}

// Search is the server-side OR-pattern substring match.
func (s *Service[T]) Search(ctx context.Context, ownerID, query string) ([]T, error) {
	return s.Find(ctx, ownerID, Filter{Query: query})
}

func (s *Service[T]) Get(ctx context.Context, ownerID, id string) (*T, error) {
	var m T
	err := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, backendErr("get", err)
	}
	return &m, nil
}

// Create assigns the server-side id and owner, persists, and returns the
// full stored record. updated_at equals created_at on a fresh row.
func (s *Service[T]) Create(ctx context.Context, ownerID string, m *T) (*T, error) {
	if id, ok := readStringField(m, idFieldCandidates); !ok {
		return nil, backendErr("create", errors.New("id field not found"))
	} else if id == "" {
		writeStringField(m, idFieldCandidates, s.idGen())
	}
	if !writeStringField(m, ownerFieldCandidates, ownerID) {
		return nil, backendErr("create", errors.New("owner field not found"))
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, backendErr("create", err)
	}
	return m, nil
}

// Update merges the partial patch into the stored row, re-stamps
// updated_at, and returns the full post-update record. Unnamed fields are
// untouched.
func (s *Service[T]) Update(ctx context.Context, ownerID, id string, patch map[string]any) (*T, error) {
	var m T
	err := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, backendErr("update", err)
	}

	cols := normalizePatch(patch)
	if len(cols) > 0 {
		cols["updated_at"] = time.Now()
		res := s.db.WithContext(ctx).Model(&m).
			Where("id = ? AND owner_id = ?", id, ownerID).
			Updates(cols)
		if res.Error != nil {
			return nil, backendErr("update", res.Error)
		}
	}

	var out T
	if err := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&out).Error; err != nil {
		return nil, backendErr("update", err)
	}
	return &out, nil
}

// Delete hard-deletes; a nonexistent id fails clearly with ErrNotFound.
func (s *Service[T]) Delete(ctx context.Context, ownerID, id string) error {
	var m T
	res := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&m)
	if res.Error != nil {
		return backendErr("delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Migrate keeps AutoMigrate next to the service that owns the table.
func (s *Service[T]) Migrate() error {
	var m T
	return s.db.AutoMigrate(&m)
}

// normalizePatch maps camelCase JSON keys to columns, drops protected
// fields, and JSON-encodes composite values so serializer columns (tag
// sets) survive a map update.
func normalizePatch(patch map[string]any) map[string]any {
	out := make(map[string]any, len(patch))
	for k, v := range patch {
		col := toSnake(k)
		switch col {
		case "id", "owner_id", "created_at", "updated_at":
			continue
		}
		if !isColumnName(col) {
			continue
		}
		switch v.(type) {
		case []any, map[string]any:
			if b, err := json.Marshal(v); err == nil {
				v = string(b)
			}
		}
		out[col] = v
	}
	return out
}
