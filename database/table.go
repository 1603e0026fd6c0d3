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

package database

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/uptrace/bun"
)

// ErrUnknownTable is returned for table names that were never registered.
var ErrUnknownTable = errors.New("unknown table")

var defaultRegistry = newModelRegistry()

// SQLModel is a registered table: its name, a nil pointer of its row type for
// Bun, and a creation priority (lower values are created first, so parents
// precede children that reference them).
type SQLModel interface {
	Name() string
	Instance() interface{}
	Priority() int
}

// Table identifies one table and binds it to its row type T. Values are
// declared once per table; a Table[Product] can only ever produce Product rows.
type Table[T any] struct {
	name     string
	priority int
}

var _ SQLModel = Table[struct{}]{}

// NewTable declares a table identifier for row type T.
func NewTable[T any](name string, priority int) Table[T] {
	return Table[T]{name: name, priority: priority}
}

func (t Table[T]) Name() string { return t.name }

func (t Table[T]) Priority() int { return t.priority }

// Instance returns a nil *T, which Bun accepts as a model.
func (t Table[T]) Instance() interface{} { return (*T)(nil) }

func (t Table[T]) String() string { return t.name }

// ModelRegistry stores SQL models and exposes them in a deterministic order.
type ModelRegistry interface {
	Register(models ...SQLModel)
	Models() []SQLModel
	Lookup(name string) (SQLModel, error)
}

type modelRegistry struct {
	models map[string]SQLModel
	mutex  sync.RWMutex
}

func newModelRegistry() ModelRegistry {
	return &modelRegistry{
		models: make(map[string]SQLModel),
	}
}

// NewModelRegistry returns an empty registry.
func NewModelRegistry() ModelRegistry {
	return newModelRegistry()
}

// Register adds models keyed by name. Registering a name again replaces it.
func (r *modelRegistry) Register(models ...SQLModel) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for _, m := range models {
		r.models[m.Name()] = m
	}
}

func (r *modelRegistry) Models() []SQLModel {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]SQLModel, 0, len(r.models))
	for _, m := range r.models {
		result = append(result, m)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Priority() != result[j].Priority() {
			return result[i].Priority() < result[j].Priority()
		}
		return result[i].Name() < result[j].Name()
	})
	return result
}

func (r *modelRegistry) Lookup(name string) (SQLModel, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	m, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	return m, nil
}

// GetRegisteredModels returns all models registered in the default registry
// sorted by ascending priority.
func GetRegisteredModels() []SQLModel {
	return defaultRegistry.Models()
}

// RegisterModels adds models to the default registry.
func RegisterModels(models ...SQLModel) {
	defaultRegistry.Register(models...)
}

// LookupTable finds a registered model by table name.
func LookupTable(name string) (SQLModel, error) {
	return defaultRegistry.Lookup(name)
}

// RegisteredModelInstances returns the Bun model of every registered table in
// creation order.
func RegisteredModelInstances() []interface{} {
	models := GetRegisteredModels()
	modelInstances := make([]interface{}, len(models))
	for i, model := range models {
		modelInstances[i] = model.Instance()
	}
	return modelInstances
}

// VerifyTables checks that each registered identifier names the same table as
// its Bun model. A mismatch means the identifier and row type disagree.
func VerifyTables(db *bun.DB, models []SQLModel) error {
	var errs []error
	for _, m := range models {
		typ := reflect.TypeOf(m.Instance())
		if typ == nil || typ.Kind() != reflect.Ptr {
			errs = append(errs, fmt.Errorf("table %q: model must be a struct pointer", m.Name()))
			continue
		}
		if got := db.Table(typ.Elem()).Name; got != m.Name() {
			errs = append(errs, fmt.Errorf("table %q: model %s maps to %q", m.Name(), typ.Elem().Name(), got))
		}
	}
	return errors.Join(errs...)
}
