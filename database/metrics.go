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
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
)

const (
	statusOK     = "ok"
	statusNoRows = "no_rows"
	statusError  = "error"
)

var (
	queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_db_queries_total",
			Help: "Number of executed SQL statements by operation and outcome",
		},
		[]string{"operation", "status"},
	)
	queryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_db_query_duration_seconds",
			Help:    "Latency of executed SQL statements by operation",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// MustRegisterMetrics registers the query metrics on the given registerer.
func MustRegisterMetrics(registerer prometheus.Registerer) {
	registerer.MustRegister(queriesTotal, queryDuration)
}

// MetricsHook is a bun query hook feeding the query metrics.
type MetricsHook struct{}

var _ bun.QueryHook = (*MetricsHook)(nil)

func NewMetricsHook() *MetricsHook {
	return &MetricsHook{}
}

func (h *MetricsHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *MetricsHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	operation := event.Operation()
	status := statusOK
	switch {
	case event.Err == nil:
	case errors.Is(event.Err, sql.ErrNoRows):
		status = statusNoRows
	default:
		status = statusError
	}
	queriesTotal.WithLabelValues(operation, status).Inc()
	queryDuration.WithLabelValues(operation).Observe(time.Since(event.StartTime).Seconds())
}
