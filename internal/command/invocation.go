package command

import "strings"

// Invocation is one external command line.
type Invocation struct {
	// Args holds the program name followed by its arguments.
	Args []string

	// Env lists extra NAME=value pairs added to the inherited environment.
	Env []string
}

// Program returns the name of the program to start.
func (i Invocation) Program() string {
	if len(i.Args) == 0 {
		return ""
	}
	return i.Args[0]
}

// String renders the command line for diagnostics.
func (i Invocation) String() string {
	return strings.Join(i.Args, " ")
}
