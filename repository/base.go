/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/tomoncle/storefront/database"
	"github.com/tomoncle/storefront/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/schema"
)

const (
	columnUpdatedAt = "updated_at"
	columnDeletedAt = "deleted_at"
)

type baseRepositoryImpl[T any] struct {
	db    *bun.DB
	table database.Table[T]
	model *schema.Table
	pk    string
}

// New returns the query engine for table backed by db. The table identifier
// fixes the row type, so New(db, models.Products) only yields products.
func New[T any](db *bun.DB, table database.Table[T]) Repository[T] {
	model := db.Table(reflect.TypeOf((*T)(nil)).Elem())
	r := &baseRepositoryImpl[T]{db: db, table: table, model: model}
	if len(model.PKs) == 1 {
		r.pk = model.PKs[0].Name
	}
	return r
}

func (r *baseRepositoryImpl[T]) Table() database.Table[T] { return r.table }

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) NewSelect(opts ...Option) *bun.SelectQuery {
	return r.conn(newOptions(opts)).NewSelect().Model((*T)(nil))
}

// conn is the transaction when one was supplied, the pool otherwise.
func (r *baseRepositoryImpl[T]) conn(o *options) bun.IDB {
	if o.tx != nil {
		return o.tx
	}
	return r.db
}

func (r *baseRepositoryImpl[T]) builder() *queryBuilder {
	return &queryBuilder{table: r.model, dialect: r.db.Dialect().Name()}
}

func (r *baseRepositoryImpl[T]) primaryKey() (string, error) {
	if r.pk == "" {
		return "", fmt.Errorf("%w: %s", ErrNoPrimaryKey, r.table.Name())
	}
	return r.pk, nil
}

func (r *baseRepositoryImpl[T]) notFound(conditions types.Conditions, ids []int64) error {
	err := &NotFoundError{Table: r.table.Name(), IDs: ids, Conditions: conditions}
	database.GetLogger().Debug("record not found", "table", r.table.Name(), "conditions", conditions, "ids", ids)
	return err
}

func (r *baseRepositoryImpl[T]) GetAll(ctx context.Context, spec *types.QuerySpec, opts ...Option) (*types.Page[T], error) {
	o := newOptions(opts)
	if spec == nil {
		spec = &types.QuerySpec{}
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	b := r.builder()
	where, err := b.where(spec)
	if err != nil {
		return nil, err
	}
	order, err := b.order(spec.Sort, r.pk, o.defaultSort)
	if err != nil {
		return nil, err
	}
	fields, err := b.columns(spec.Fields)
	if err != nil {
		return nil, err
	}

	page, limit := spec.GetPage(), spec.GetLimit()
	conn := r.conn(o)

	// The count statement only ever sees filters and search.
	total, err := where.applySelect(conn.NewSelect().Model((*T)(nil))).Count(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return types.NewEmptyPage[T](page, limit), nil
	}

	rows := make([]*T, 0, min(limit, total))
	query := where.applySelect(conn.NewSelect().Model(&rows))
	for _, p := range order {
		query = query.OrderExpr(p.query, p.args...)
	}
	if len(fields) > 0 {
		query = query.Column(fields...)
	}
	if err := query.Offset(spec.GetOffset()).Limit(limit).Scan(ctx); err != nil {
		return nil, err
	}
	return &types.Page[T]{Data: rows, PaginationDetails: types.NewPaginationDetails(page, limit, total)}, nil
}

func (r *baseRepositoryImpl[T]) GetOne(ctx context.Context, conditions types.Conditions, opts ...Option) (*T, error) {
	o := newOptions(opts)
	b := r.builder()
	where, err := b.conditions(conditions)
	if err != nil {
		return nil, err
	}
	columns, err := b.columns(o.columns)
	if err != nil {
		return nil, err
	}

	row := new(T)
	query := where.applySelect(r.conn(o).NewSelect().Model(row))
	if len(columns) > 0 {
		query = query.Column(columns...)
	}
	if r.pk != "" {
		query = query.OrderExpr("? ASC", bun.Ident(r.pk))
	}
	err = query.Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		if !o.notFoundError {
			return nil, nil
		}
		return nil, r.notFound(conditions, nil)
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (r *baseRepositoryImpl[T]) CreateOne(ctx context.Context, row *T, opts ...Option) (*T, error) {
	o := newOptions(opts)
	query := r.conn(o).NewInsert().Model(row)
	returning := r.db.HasFeature(feature.InsertReturning)
	if returning {
		query = query.Returning("*")
	}
	if _, err := query.Exec(ctx); err != nil {
		return nil, err
	}
	if returning {
		return row, nil
	}
	return r.reload(ctx, o, row)
}

func (r *baseRepositoryImpl[T]) CreateMany(ctx context.Context, rows []*T, opts ...Option) ([]*T, error) {
	if len(rows) == 0 {
		return make([]*T, 0), nil
	}
	o := newOptions(opts)
	// Without a DEFAULT placeholder bun decides per column from the first row,
	// so a nullzero default there would overwrite explicit values further down.
	if !r.db.HasFeature(feature.DefaultPlaceholder) && len(rows) > 1 {
		return r.createEach(ctx, o, rows)
	}
	query := r.conn(o).NewInsert().Model(&rows)
	returning := r.db.HasFeature(feature.InsertReturning)
	if returning {
		query = query.Returning("*")
	}
	if _, err := query.Exec(ctx); err != nil {
		return nil, err
	}
	if returning {
		return rows, nil
	}
	out := make([]*T, len(rows))
	for i, row := range rows {
		reloaded, err := r.reload(ctx, o, row)
		if err != nil {
			return nil, err
		}
		out[i] = reloaded
	}
	return out, nil
}

// createEach inserts rows one statement at a time inside a single
// transaction, nested as a savepoint when the caller supplied one.
func (r *baseRepositoryImpl[T]) createEach(ctx context.Context, o *options, rows []*T) ([]*T, error) {
	out := make([]*T, 0, len(rows))
	err := r.conn(o).RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, row := range rows {
			created, err := r.CreateOne(ctx, row, WithTx(tx))
			if err != nil {
				return err
			}
			out = append(out, created)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateOne applies patch to the first row matching conditions, addressed by
// its primary key.
func (r *baseRepositoryImpl[T]) UpdateOne(ctx context.Context, conditions types.Conditions, patch types.Patch, opts ...Option) (*T, error) {
	if len(conditions) == 0 {
		return nil, ErrEmptyConditions
	}
	o := newOptions(opts)
	pk, err := r.primaryKey()
	if err != nil {
		return nil, err
	}
	b := r.builder()
	sets, err := b.assignments(patch)
	if err != nil {
		return nil, err
	}
	existing, err := r.GetOne(ctx, conditions, WithTx(o.tx))
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return existing, nil
	}
	if _, ok := patch[columnUpdatedAt]; !ok && r.model.HasField(columnUpdatedAt) {
		sets = append(sets, predicate{query: "? = ?", args: []any{bun.Ident(columnUpdatedAt), time.Now().UTC()}})
	}

	id := r.pkValue(existing)
	updated := new(T)
	query := r.conn(o).NewUpdate().Model(updated)
	for _, s := range sets {
		query = query.Set(s.query, s.args...)
	}
	query = query.Where("? = ?", bun.Ident(pk), id)
	returning := r.db.HasFeature(feature.Returning)
	if returning {
		query = query.Returning("*")
	}
	if _, err := query.Exec(ctx); err != nil {
		return nil, err
	}
	if returning {
		return updated, nil
	}
	return r.GetOne(ctx, types.Conditions{pk: id}, WithTx(o.tx))
}

func (r *baseRepositoryImpl[T]) DeleteOne(ctx context.Context, conditions types.Conditions, opts ...Option) error {
	return r.deleteWhere(ctx, conditions, newOptions(opts))
}

func (r *baseRepositoryImpl[T]) DeleteManyByFields(ctx context.Context, conditions types.Conditions, opts ...Option) error {
	return r.deleteWhere(ctx, conditions, newOptions(opts))
}

// DeleteByIds confirms every id exists before deleting any of them.
func (r *baseRepositoryImpl[T]) DeleteByIds(ctx context.Context, ids []int64, opts ...Option) error {
	if len(ids) == 0 {
		return nil
	}
	o := newOptions(opts)
	pk, err := r.primaryKey()
	if err != nil {
		return err
	}
	if o.softDelete && !r.model.HasField(columnDeletedAt) {
		return fmt.Errorf("%w: %s", ErrSoftDeleteUnsupported, r.table.Name())
	}

	unique := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	conn := r.conn(o)
	var found []int64
	err = conn.NewSelect().
		Model((*T)(nil)).
		Column(pk).
		Where("? IN (?)", bun.Ident(pk), bun.In(unique)).
		Scan(ctx, &found)
	if err != nil {
		return err
	}
	present := make(map[int64]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	var missing []int64
	for _, id := range unique {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return r.notFound(nil, missing)
	}

	where := predicates{{query: "? IN (?)", args: []any{bun.Ident(pk), bun.In(unique)}}}
	return r.remove(ctx, conn, where, o.softDelete)
}

func (r *baseRepositoryImpl[T]) deleteWhere(ctx context.Context, conditions types.Conditions, o *options) error {
	if len(conditions) == 0 {
		return ErrEmptyConditions
	}
	if o.softDelete && !r.model.HasField(columnDeletedAt) {
		return fmt.Errorf("%w: %s", ErrSoftDeleteUnsupported, r.table.Name())
	}
	where, err := r.builder().conditions(conditions)
	if err != nil {
		return err
	}
	conn := r.conn(o)
	exists, err := where.applySelect(conn.NewSelect().Model((*T)(nil))).Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return r.notFound(conditions, nil)
	}
	return r.remove(ctx, conn, where, o.softDelete)
}

// remove hard deletes the matching rows, or stamps deleted_at when soft.
func (r *baseRepositoryImpl[T]) remove(ctx context.Context, conn bun.IDB, where predicates, soft bool) error {
	if soft {
		query := conn.NewUpdate().
			Model(new(T)).
			Set("? = ?", bun.Ident(columnDeletedAt), time.Now().UTC())
		_, err := where.applyUpdate(query).Exec(ctx)
		return err
	}
	_, err := where.applyDelete(conn.NewDelete().Model((*T)(nil))).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) pkValue(row *T) any {
	field := r.model.FieldMap[r.pk]
	return field.Value(reflect.ValueOf(row).Elem()).Interface()
}

// reload re-reads a row by primary key for dialects without RETURNING.
func (r *baseRepositoryImpl[T]) reload(ctx context.Context, o *options, row *T) (*T, error) {
	pk, err := r.primaryKey()
	if err != nil {
		return nil, err
	}
	return r.GetOne(ctx, types.Conditions{pk: r.pkValue(row)}, WithTx(o.tx))
}
