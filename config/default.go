package config

import _ "embed"

// DefaultConfigYAML is the baked-in default configuration. An external
// config.yaml or FABRIE_* environment variables override it.
//
//go:embed config.default.yaml
var DefaultConfigYAML []byte
