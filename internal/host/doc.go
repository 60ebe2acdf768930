// Package host captures facts about the machine dog runs on: who the user
// is, where they are, and how host paths relate to container paths.
//
// Everything that touches the operating system is behind a small
// interface (FileSystem, HostPathing) so that configuration resolution can
// be tested with fakes.
package host
