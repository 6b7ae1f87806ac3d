// Package config provides the configuration for casewatch.
// It defines the defaults for the snapshot path, fetch timeout, source pages
// and notification transport, loads the optional YAML file, and validates
// the result before a run starts.
package config
