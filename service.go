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

package storefront

import (
	"context"
	"errors"
	"sync"

	"github.com/tomoncle/storefront/database"
	"github.com/tomoncle/storefront/repository"
	"github.com/tomoncle/storefront/types"
	"github.com/uptrace/bun"
)

var errNotInitialized = errors.New("database not initialized")

type Service[T any] interface {
	// Get returns the entity with the given primary key.
	Get(ctx context.Context, id int64) (*T, error)

	// Find returns the first entity matching all conditions.
	Find(ctx context.Context, conditions types.Conditions, opts ...repository.Option) (*T, error)

	// Page returns one page of entities matching spec.
	Page(ctx context.Context, spec *types.QuerySpec) (*types.Page[T], error)

	// Save inserts one or more new entities.
	Save(ctx context.Context, models ...*T) ([]*T, error)

	// Update patches the first entity matching conditions.
	Update(ctx context.Context, conditions types.Conditions, patch types.Patch, opts ...repository.Option) (*T, error)

	// Delete removes entities by primary key, all or none.
	Delete(ctx context.Context, ids []int64, opts ...repository.Option) error

	// SaveWithTx inserts entities within an existing transaction.
	SaveWithTx(ctx context.Context, tx bun.IDB, models ...*T) ([]*T, error)

	// Repository exposes the underlying repository.
	Repository() repository.Repository[T]

	// SelectBuilder returns a Bun select query on the entity's table.
	SelectBuilder() *bun.SelectQuery
}

type baseServiceImpl[T any] struct {
	table database.Table[T]
	repo  repository.Repository[T]
	once  sync.Once
}

// NewService returns a Service for table backed by the global database
// connection. The connection is resolved on first use, so the service may be
// declared before database.InitDB runs.
func NewService[T any](table database.Table[T]) Service[T] {
	return &baseServiceImpl[T]{table: table}
}

func (s *baseServiceImpl[T]) baseRepo() repository.Repository[T] {
	s.once.Do(func() { s.repo = repository.New(database.GetDB(), s.table) })
	return s.repo
}

func (s *baseServiceImpl[T]) Get(ctx context.Context, id int64) (*T, error) {
	return s.baseRepo().GetOne(ctx, types.ByID(id))
}

func (s *baseServiceImpl[T]) Find(ctx context.Context, conditions types.Conditions, opts ...repository.Option) (*T, error) {
	return s.baseRepo().GetOne(ctx, conditions, opts...)
}

func (s *baseServiceImpl[T]) Page(ctx context.Context, spec *types.QuerySpec) (*types.Page[T], error) {
	return s.baseRepo().GetAll(ctx, spec)
}

func (s *baseServiceImpl[T]) Save(ctx context.Context, models ...*T) ([]*T, error) {
	return s.baseRepo().CreateMany(ctx, models)
}

func (s *baseServiceImpl[T]) SaveWithTx(ctx context.Context, tx bun.IDB, models ...*T) ([]*T, error) {
	return s.baseRepo().CreateMany(ctx, models, repository.WithTx(tx))
}

func (s *baseServiceImpl[T]) Update(ctx context.Context, conditions types.Conditions, patch types.Patch, opts ...repository.Option) (*T, error) {
	return s.baseRepo().UpdateOne(ctx, conditions, patch, opts...)
}

func (s *baseServiceImpl[T]) Delete(ctx context.Context, ids []int64, opts ...repository.Option) error {
	return s.baseRepo().DeleteByIds(ctx, ids, opts...)
}

func (s *baseServiceImpl[T]) Repository() repository.Repository[T] {
	return s.baseRepo()
}

func (s *baseServiceImpl[T]) SelectBuilder() *bun.SelectQuery {
	return s.baseRepo().NewSelect()
}

// Transaction runs fn inside a transaction on the global database. Pass tx to
// repository operations with repository.WithTx so they join it.
func Transaction(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	db := database.GetDB()
	if db == nil {
		return errNotInitialized
	}
	return db.RunInTx(ctx, nil, fn)
}
