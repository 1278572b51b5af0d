package ghactions

import (
	"os"
)

// AppendStepSummary appends markdown to the job summary file referenced by
// GITHUB_STEP_SUMMARY.
// It returns false if the environment variable is not set.
func AppendStepSummary(lookupEnv LookupEnvFunc, markdown string) (bool, error) {
	path, _ := lookupEnv("GITHUB_STEP_SUMMARY")
	if path == "" {
		return false, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, err
	}

	if _, err := f.WriteString(markdown); err != nil {
		_ = f.Close()
		return false, err
	}

	return true, f.Close()
}
