// Package main hosts the whatswatched CLI entrypoint.
//
// A single Cobra command translates flags into one action per invocation:
// mutate the watch index (set or clear the current episode, mark files
// watched or unwatched), print progress statistics, or hand over to the
// playback controller for an interactive session. Config resolution, logger
// setup, and the index load/reconcile step live here so the internal
// packages stay free of terminal concerns.
package main
