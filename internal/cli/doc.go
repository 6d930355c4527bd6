// Package cli implements the hoststat command-line interface.
//
// The root command runs a sampling session: it merges flags, HOSTSTAT_*
// environment variables and the config file into a config.Config, builds a
// supervisor for the requested number of cycles, and hands every frame to
// either the text report or the dashboard.
//
//	hoststat [samples [tdelay]]  - Sample memory, CPU and sessions
//	hoststat config              - Print the effective configuration
//	hoststat version             - Print version information
//
// Errors from the run are structured (see internal/errors). Execute prints
// them to stderr and exits with status 1.
package cli
