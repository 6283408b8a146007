// Package config loads and validates the wfc-server YAML configuration,
// with ${VAR} environment expansion and duration parsing.
package config
