// Package ghactions reads the run context that GitHub Actions provides via
// environment variables and writes workflow commands and job summaries.
package ghactions
