// Package version reports the build version of the companion binary.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/companion/version.Version=1.2.0" ./cmd/companion
package version
