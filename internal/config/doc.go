// Package config implements the configuration model of dog and the first
// three stages of configuration resolution: reading one dog.config file
// into a fragment, following include-dog-config chains, and merging
// fragments in precedence order.
//
// A Config maps keys to tagged Values (string, int, bool, list of strings
// or an ordered string-to-string Mapping). Configs are values: every
// operation that changes one returns a new Config and leaves its inputs
// untouched, so fragments can be logged after merging.
//
// Which keys hold booleans and integers is declared once in Schema, which
// both the file reader and the typed accessors consult. Defaults returns
// the built-in default layer and conforms to that schema.
package config
