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

	"github.com/tomoncle/storefront/database"
	"github.com/tomoncle/storefront/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// ReadRepository defines the read operations for one table.
type ReadRepository[T any] interface {
	// GetAll returns one page of rows matching spec. A nil spec reads the
	// first page of the whole table.
	GetAll(ctx context.Context, spec *types.QuerySpec, opts ...Option) (*types.Page[T], error)

	// GetOne returns the first row matching all conditions. With
	// WithoutNotFoundError a miss returns (nil, nil).
	GetOne(ctx context.Context, conditions types.Conditions, opts ...Option) (*T, error)
}

// WriteRepository defines the write operations for one table. Every write
// returns the rows as stored.
type WriteRepository[T any] interface {
	CreateOne(ctx context.Context, row *T, opts ...Option) (*T, error)

	CreateMany(ctx context.Context, rows []*T, opts ...Option) ([]*T, error)

	// UpdateOne fails with ErrNotFound when nothing matches conditions.
	UpdateOne(ctx context.Context, conditions types.Conditions, patch types.Patch, opts ...Option) (*T, error)

	// DeleteOne fails with ErrNotFound when nothing matches conditions.
	DeleteOne(ctx context.Context, conditions types.Conditions, opts ...Option) error

	// DeleteByIds deletes all ids or none; missing ids are reported in a
	// *NotFoundError.
	DeleteByIds(ctx context.Context, ids []int64, opts ...Option) error

	// DeleteManyByFields fails with ErrNotFound when nothing matches conditions.
	DeleteManyByFields(ctx context.Context, conditions types.Conditions, opts ...Option) error
}

// Repository is the query engine bound to one table. It holds no mutable
// state and is safe for concurrent use.
type Repository[T any] interface {
	ReadRepository[T]
	WriteRepository[T]
	Table() database.Table[T]
	Dialect() schema.Dialect
	NewSelect(opts ...Option) *bun.SelectQuery
}

// Option tunes a single repository call.
type Option func(*options)

type options struct {
	tx            bun.IDB
	defaultSort   bool
	notFoundError bool
	columns       []string
	softDelete    bool
}

func newOptions(opts []Option) *options {
	o := &options{defaultSort: true, notFoundError: true}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithTx runs the call on tx instead of the pooled connection. A nil tx is
// ignored.
func WithTx(tx bun.IDB) Option {
	return func(o *options) { o.tx = tx }
}

// WithoutDefaultSort disables the newest-first ordering GetAll applies when
// the spec has no sort keys.
func WithoutDefaultSort() Option {
	return func(o *options) { o.defaultSort = false }
}

// WithoutNotFoundError makes GetOne return (nil, nil) on a miss.
func WithoutNotFoundError() Option {
	return func(o *options) { o.notFoundError = false }
}

// WithColumns projects GetOne onto the given columns.
func WithColumns(columns ...string) Option {
	return func(o *options) { o.columns = columns }
}

// WithSoftDelete stamps deleted_at instead of removing rows.
func WithSoftDelete() Option {
	return func(o *options) { o.softDelete = true }
}
