// Package config loads notifier settings from defaults, an optional YAML
// file, a .env file and the process environment, in increasing order of
// precedence. Command-line flags are applied on top by the cli package.
package config
