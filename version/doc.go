// Package version provides build version information for httpkit.
//
// Version and git commit are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/httpkit/version.Version=1.0.0"
//
// The transport engine uses UserAgent as its default User-Agent header.
package version
