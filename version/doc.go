// Package version reports the fgakit release compiled into a binary.
//
// The version is read from the module build info, so a program depending on
// github.com/kbukum/fgakit@v0.3.0 reports v0.3.0 without extra flags. It can
// be pinned at link time:
//
//	go build -ldflags "-X github.com/kbukum/fgakit/version.Version=v0.3.0"
package version
