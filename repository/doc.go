// Package repository provides the generic query engine built on Bun: filtered,
// searched, sorted and paginated reads plus existence-checked writes, each
// optionally scoped to a caller-supplied transaction.
package repository
