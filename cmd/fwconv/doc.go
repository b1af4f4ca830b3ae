// Package main hosts the fwconv CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into fixed-width
// generation and parsing runs, layout inspection, configuration scaffolding
// and conversion history queries. Configuration resolution, logger setup and
// run journaling live in the command context so subcommands only deal with
// their own flags and output.
package main
