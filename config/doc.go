// Package config loads httpkit configuration.
//
// It uses Viper to read a YAML file and environment variables, and godotenv
// to load .env files, then unmarshals into Config (or any struct that embeds
// it).
//
// # Usage
//
//	cfg, err := config.Load("billing", config.WithConfigFile("config.yml"))
//
// Environment variables override file values using the HTTPKIT_ prefix with
// underscore-separated paths (e.g., HTTPKIT_HTTP_DEFAULT_TIMEOUT_SECONDS).
package config
