// Clausehound CI/CD
//
// Package main provides reproducible builds and tests locally and in GitHub actions.
// It is the main harness for handling nearly all dev operations.
package main

import (
	"context"

	"dagger/clausehound/internal/dagger"
)

// Clausehound is the main module for the Clausehound CI/CD pipeline
type Clausehound struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

// New creates a new Clausehound CI/CD module instance
func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", ".direnv", ".devenv", "build", "tmp"]
	source *dagger.Directory,
) *Clausehound {
	return &Clausehound{
		Source: source,
	}
}

// goContainer returns a Debian Bookworm-based Go container with the
// project source mounted.
//
// It is the shared foundation for tests, builds, and linting.
func (c *Clausehound) goContainer() *dagger.Container {
	return dag.Container().
		From("golang:1.25-bookworm").
		WithEnvVariable("CGO_ENABLED", "0").
		WithEnvVariable("GOEXPERIMENT", "jsonv2").
		WithEnvVariable("PATH", "/go/bin:$PATH", dagger.ContainerWithEnvVariableOpts{Expand: true}).
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", c.Source)
}

// Test runs the clausehound unit tests via "go test"
func (c *Clausehound) Test(ctx context.Context) (string, error) {
	return c.goContainer().
		WithExec([]string{"go", "test", "-v", "./..."}).
		Stdout(ctx)
}
