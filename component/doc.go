// Package component defines the lifecycle interfaces shared by fgakit's
// infrastructure pieces and a Registry that starts and stops them in order.
package component
