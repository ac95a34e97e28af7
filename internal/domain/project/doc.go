// Package project loads workspace project files.
//
// A project lists the applications of a saved workspace. Files may be JSON
// (decoded with sonic), YAML (goccy/go-yaml) or TOML (go-toml); the
// extension decides. Discover finds project files with doublestar globs
// such as "**/*.{json,yaml,yml,toml}".
package project
