// Package config loads configuration structs from environment variables,
// with an optional .env file for local development.
//
// Struct fields declare their sources via `env` tags:
//
//	type QueueConfig struct {
//	    PullInterval time.Duration `env:"QUEUE_PULL_INTERVAL" envDefault:"1s"`
//	}
package config
