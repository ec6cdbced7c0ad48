// Package build holds build-time information.
package build

// Version is the application version. It defaults to "dev" and is
// overwritten by linker flags at release build time.
var Version = "dev"

// Commit is the git commit the binary was built from, set by linker flags.
var Commit = "unknown"

// Date is the build timestamp, set by linker flags.
var Date = "unknown"
