// Package command turns a resolved configuration into the command lines
// dog executes: the main container run (direct or through compose), the
// compose cleanup, image pulls, tool version queries and volumes-from
// helper containers.
//
// Builders only produce argument vectors; running them is the job of
// package runner. The argument order of Run and Compose is relied upon by
// scripts and tests and must not change.
package command
