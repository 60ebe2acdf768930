// Package main is the entry point for the dog CLI.
//
// dog runs a command inside the container image configured in the nearest
// dog.config. It delegates all functionality to the internal/cli package.
// Installing a symlink to the dog binary under another name (e.g. "make")
// runs that command in the container.
package main

import (
	"github.com/mmr-tortoise/dog/internal/cli"
)

func main() {
	cli.Execute()
}
