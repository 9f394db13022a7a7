// Package main hosts the cardwatch CLI entrypoint and command graph.
//
// The Cobra-based command tree starts the monitoring daemon, previews the
// next batch without side effects, reports processing history, browses the
// cycle journal, and scaffolds configuration. Commands stay thin: the
// internal packages own the monitoring semantics, and this package only
// translates flags and renders output.
package main
