// Package config loads, normalizes, and validates whatswatched configuration.
//
// It supplies defaults (mpv as the player, the .whatswatched.json index name,
// the media extension allow-list), reads the optional TOML file from the XDG
// config directory, and honours the WHATSWATCHED_PLAYER environment fallback.
// The Store and Controller receive their settings from the Config built here
// rather than from package-level globals.
package config
