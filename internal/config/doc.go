// Package config provides configuration structures and utilities for qmtools.
// It defines the server, paging and output directory settings shared by
// every command, and loads overrides from an optional .qmtools YAML file.
package config
