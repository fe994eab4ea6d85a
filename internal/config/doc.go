// Package config loads and persists pokedeck configuration.
//
// Configuration is layered: built-in defaults, then the YAML file at
// $XDG_CONFIG_HOME/pokedeck/config.yaml, then POKEDECK_* environment variables, and
// finally CLI flags applied by the cli package.
package config
