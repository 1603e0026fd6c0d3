// Package database provides connection management, the table registry,
// migrations with foreign keys, SQL seeding, configuration types, logging,
// query hooks, metrics, health checks and error classification built on Bun.
package database
