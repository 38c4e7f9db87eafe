// Package metastrip provides the command-line interface for the metastrip
// tool. It configures subcommands (strip, inspect, completion), parses
// flags, and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/metastrip/metastrip/cmd/metastrip"
//	func main() { metastrip.Execute() }
package metastrip
