// Package config holds the runtime configuration for linkmirror.
//
// Configuration comes from two places: CLI flags populate the flat
// Config struct, and an optional YAML file (.linkmirror) supplies the
// static page copy and theme overrides that have no payload source.
package config
