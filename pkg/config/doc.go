// Package config loads typed configuration structs from environment variables.
//
// It combines godotenv (optional .env file for local development) with
// caarlos0/env struct tags, and caches each configuration type so repeated
// loads across packages are cheap and consistent.
package config
