package main

import (
	"io"
	"os"
)

// Environment groups the process-level dependencies of a run so tests
// can substitute buffers for the real streams.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultEnvironment returns the real process environment.
func DefaultEnvironment() *Environment {
	return &Environment{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
