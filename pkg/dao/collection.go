// Package dao provides thin adapters over the document store and the keyed
// tree store. An adapter is bound to one collection or path for its lifetime,
// holds nothing but the injected store handle, and forwards every call as a
// single request.
package dao

import (
	"context"
	"fmt"

	"github.com/adfharrison1/go-baas/pkg/domain"
)

// CollectionDAO is a facade over one named collection.
type CollectionDAO struct {
	store      domain.DocumentStore
	collection domain.CollectionName
}

// NewCollectionDAO binds an adapter to collection. The name is passed
// through to the store unvalidated.
func NewCollectionDAO(store domain.DocumentStore, collection domain.CollectionName) *CollectionDAO {
	return &CollectionDAO{store: store, collection: collection}
}

// Collection returns the bound collection name.
func (d *CollectionDAO) Collection() domain.CollectionName {
	return d.collection
}

// FindAll returns every record in store order.
func (d *CollectionDAO) FindAll(ctx context.Context) ([]domain.Snapshot, error) {
	return d.query(ctx, domain.Query{})
}

// FindByID reads one record. A missing record comes back with Exists=false.
func (d *CollectionDAO) FindByID(ctx context.Context, id string) (domain.Snapshot, error) {
	return d.store.Get(ctx, d.name(), id)
}

// Add inserts data under a generated id.
func (d *CollectionDAO) Add(ctx context.Context, data domain.Document) (domain.DocumentRef, error) {
	return d.store.Add(ctx, d.name(), data)
}

// AddWithID stores data under id with its "id" field set to id, replacing
// any record already there. data itself is left untouched.
func (d *CollectionDAO) AddWithID(ctx context.Context, id string, data domain.Document) error {
	payload := data.Clone()
	if payload == nil {
		payload = domain.Document{}
	}
	payload["id"] = id
	return d.store.Set(ctx, d.name(), id, payload)
}

// Update merges the supplied top-level fields into an existing record.
func (d *CollectionDAO) Update(ctx context.Context, id string, data domain.Document) error {
	return d.store.Update(ctx, d.name(), id, data)
}

// Delete removes a record.
func (d *CollectionDAO) Delete(ctx context.Context, id string) error {
	return d.store.Delete(ctx, d.name(), id)
}

// FindWhere returns records whose field satisfies op against value.
func (d *CollectionDAO) FindWhere(ctx context.Context, field string, op domain.Operator, value interface{}) ([]domain.Snapshot, error) {
	filter := domain.Filter{Field: field, Op: op, Value: value}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return d.query(ctx, domain.Query{Filters: []domain.Filter{filter}})
}

func (d *CollectionDAO) FindWhereEqualTo(ctx context.Context, field string, value interface{}) ([]domain.Snapshot, error) {
	return d.FindWhere(ctx, field, domain.OpEqual, value)
}

func (d *CollectionDAO) FindWhereNotEqualTo(ctx context.Context, field string, value interface{}) ([]domain.Snapshot, error) {
	return d.FindWhere(ctx, field, domain.OpNotEqual, value)
}

func (d *CollectionDAO) FindWhereGreaterThan(ctx context.Context, field string, value interface{}) ([]domain.Snapshot, error) {
	return d.FindWhere(ctx, field, domain.OpGreaterThan, value)
}

func (d *CollectionDAO) FindWhereGreaterThanOrEqual(ctx context.Context, field string, value interface{}) ([]domain.Snapshot, error) {
	return d.FindWhere(ctx, field, domain.OpGreaterThanOrEqual, value)
}

func (d *CollectionDAO) FindWhereLessThan(ctx context.Context, field string, value interface{}) ([]domain.Snapshot, error) {
	return d.FindWhere(ctx, field, domain.OpLessThan, value)
}

func (d *CollectionDAO) FindWhereLessThanOrEqual(ctx context.Context, field string, value interface{}) ([]domain.Snapshot, error) {
	return d.FindWhere(ctx, field, domain.OpLessThanOrEqual, value)
}

// FindWhereArrayContains matches records whose sequence field holds value.
func (d *CollectionDAO) FindWhereArrayContains(ctx context.Context, field string, value interface{}) ([]domain.Snapshot, error) {
	return d.FindWhere(ctx, field, domain.OpArrayContains, value)
}

// FindWhereArrayContainsAny matches records whose sequence field holds any
// element of values.
func (d *CollectionDAO) FindWhereArrayContainsAny(ctx context.Context, field string, values interface{}) ([]domain.Snapshot, error) {
	return d.FindWhere(ctx, field, domain.OpArrayContainsAny, values)
}

func (d *CollectionDAO) FindWhereIn(ctx context.Context, field string, values interface{}) ([]domain.Snapshot, error) {
	return d.FindWhere(ctx, field, domain.OpIn, values)
}

func (d *CollectionDAO) FindWhereNotIn(ctx context.Context, field string, values interface{}) ([]domain.Snapshot, error) {
	return d.FindWhere(ctx, field, domain.OpNotIn, values)
}

func (d *CollectionDAO) FindWhereIsNull(ctx context.Context, field string) ([]domain.Snapshot, error) {
	return d.FindWhere(ctx, field, domain.OpIsNull, nil)
}

func (d *CollectionDAO) FindWhereIsNotNull(ctx context.Context, field string) ([]domain.Snapshot, error) {
	return d.FindWhere(ctx, field, domain.OpIsNotNull, nil)
}

// OrderBy returns the whole collection sorted by field.
func (d *CollectionDAO) OrderBy(ctx context.Context, field string, direction domain.Direction) ([]domain.Snapshot, error) {
	return d.query(ctx, domain.Query{Order: &domain.Order{Field: field, Direction: direction}})
}

// Limit returns the first n records in store order.
func (d *CollectionDAO) Limit(ctx context.Context, n int) ([]domain.Snapshot, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrInvalidQuery, n)
	}
	return d.query(ctx, domain.Query{Limit: n})
}

// Paginate returns up to n records strictly after startAfter in store order.
func (d *CollectionDAO) Paginate(ctx context.Context, n int, startAfter domain.Snapshot) ([]domain.Snapshot, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrInvalidQuery, n)
	}
	return d.query(ctx, domain.Query{Limit: n, StartAfter: &startAfter})
}

// FetchPaginatedData returns page number page of size records. Pages below
// 1 are read as page 1.
func (d *CollectionDAO) FetchPaginatedData(ctx context.Context, size, page int) ([]domain.Snapshot, error) {
	offset, limit, err := domain.PageWindow(size, page)
	if err != nil {
		return nil, err
	}
	return d.query(ctx, domain.Query{Offset: offset, Limit: limit})
}

// GenerateID returns a fresh identifier without creating a record.
func (d *CollectionDAO) GenerateID() string {
	return d.store.NewID(d.name())
}

func (d *CollectionDAO) query(ctx context.Context, q domain.Query) ([]domain.Snapshot, error) {
	return d.store.Query(ctx, d.name(), q)
}

func (d *CollectionDAO) name() string {
	return d.collection.String()
}
