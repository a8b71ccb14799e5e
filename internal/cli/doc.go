// Package cli implements the command-line interface for apex-rankmap.
//
// The root command runs one notification cycle: it loads configuration from
// flags, environment, an optional .env file and an optional YAML file, runs
// the pipeline, and reports the extracted rotation as text or JSON. The
// image subcommand prints the asset URL candidates for a map name.
package cli
