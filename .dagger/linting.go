package main

import (
	"context"
	"fmt"

	"dagger/clausehound/internal/dagger"
)

const golangciLintVersion = "v2.8.0"

// lintOpts returns the common GolangcilintOpts used by both CheckLint and FixLint.
// It layers golangci-lint on top of goContainer() so the Go caches
// and toolchain are already in place.
func (c *Clausehound) lintOpts() dagger.GolangcilintOpts {
	base := c.goContainer().
		WithExec([]string{
			"go",
			"install",
			fmt.Sprintf("github.com/golangci/golangci-lint/v2/cmd/golangci-lint@%s", golangciLintVersion),
		})

	return dagger.GolangcilintOpts{
		BaseCtr: base,
		Config:  c.Source.File(".golangci.yml"),
	}
}

// CheckLint runs golangci-lint against the clausehound source code without applying fixes.
func (c *Clausehound) CheckLint(ctx context.Context) (string, error) {
	return dag.Golangcilint(c.Source, c.lintOpts()).Check(ctx)
}

// FixLint runs golangci-lint against the clausehound source code with --fix, applying
// automatic fixes where possible, and returns the modified source directory.
func (c *Clausehound) FixLint(ctx context.Context) *dagger.Directory {
	return dag.Golangcilint(c.Source, c.lintOpts()).Lint()
}
