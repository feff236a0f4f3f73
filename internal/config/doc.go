// SPDX-License-Identifier: MPL-2.0

// Package config loads and validates oscontainer configuration.
//
// Configuration is layered: compiled-in defaults, then an optional CUE
// config file validated against an embedded schema, then environment
// variables, then command-line flags (applied by the CLI layer). The CUE
// schema catches type and range mistakes at load time with file/line
// positions instead of surfacing them later as odd tool behavior.
package config
