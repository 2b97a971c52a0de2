// Package config handles configuration loading and validation from
// environment variables and .env files. It provides type-safe access to
// the settings the server, storage, and background jobs need while
// keeping configuration details separate from business logic.
package config
