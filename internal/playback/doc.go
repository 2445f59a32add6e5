// Package playback runs the interactive watch session.
//
// A Controller walks a small state machine: offer a candidate file, run the
// external player, ask whether the file was watched, then advance to the next
// unwatched file in sorted order. Prompts and the player process are injected
// as the Confirmer and Player interfaces; PromptConfirmer and CommandPlayer
// are the terminal implementations used by the CLI.
package playback
