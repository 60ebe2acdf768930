// Package docker talks to the container runtime on behalf of dog for
// everything that is not the main run itself.
//
// This package handles:
//   - Docker client initialization with automatic socket detection
//     (Linux, macOS, Windows)
//   - Listing existing container names, through the Engine API when a
//     Docker daemon is reachable and through the runtime CLI otherwise
//     (podman, or a daemon the SDK cannot reach)
//   - Creating missing volumes-from helper containers concurrently
//   - Checking that the compose service dog is told to run exists
//
// The package uses github.com/docker/docker/client as the underlying
// Docker SDK, with version negotiation enabled for broad compatibility.
package docker
