// Package config loads and validates application settings from the
// environment (BILI_-prefixed variables) and optional config files via
// viper, giving the rest of the application typed access to server,
// database, auth, and logging settings.
package config
