// Tinyagents CI/CD
//
// Package main provides reproducible builds and tests locally and in GitHub actions.
// It is the main harness for handling nearly all dev operations.
package main

import (
	"context"

	"dagger/tinyagents/internal/dagger"
)

// Tinyagents is the main module for the tinyagents CI/CD pipeline
type Tinyagents struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

// New creates a new Tinyagents CI/CD module instance
func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", ".direnv", ".devenv", "build", "tmp"]
	source *dagger.Directory,
) *Tinyagents {
	return &Tinyagents{
		Source: source,
	}
}

// goContainer returns a Debian Bookworm-based Go container with the Go
// caches mounted and the project source mounted at /src.
//
// It is the shared foundation for tests, builds, and linting.
func (t *Tinyagents) goContainer() *dagger.Container {
	return dag.Container().
		From("golang:1.25-bookworm").
		WithEnvVariable("CGO_ENABLED", "0").
		WithEnvVariable("PATH", "/go/bin:$PATH", dagger.ContainerWithEnvVariableOpts{Expand: true}).
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", t.Source)
}

// Test runs the tinyagents unit tests via "go test"
func (t *Tinyagents) Test(ctx context.Context) (string, error) {
	return t.goContainer().
		WithExec([]string{"go", "test", "-v", "./..."}).
		Stdout(ctx)
}
