// Package postgres implements the store contracts on PostgreSQL.
package postgres
