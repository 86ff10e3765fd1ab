// Package config defines the topology configuration consumed by the
// provisioner and the CLI.
//
// A [Config] is built in layers: [Default] values, then an optional YAML
// file, then a .env file and process environment, and finally CLI flags
// applied by the command handlers. [Config.Validate] runs after all layers
// and returns non-blocking warnings separately from hard errors.
package config
