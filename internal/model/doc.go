// Package model defines the error taxonomy and exit codes shared by every
// layer of the dog CLI.
//
// Fatal conditions are carried as *CLIError values up to the cli package,
// which prints them with the "ERROR[dog]:" prefix and exits with the code
// attached to the error. Exit codes of the wrapped container command are
// carried unchanged as ExitStatus values.
package model
