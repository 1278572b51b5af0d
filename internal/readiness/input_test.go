package readiness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplesurance/draftguard/internal/guarderr"
)

func TestInputValidateCommitSHA(t *testing.T) {
	type testcase struct {
		name        string
		sha         string
		expectedErr error
	}

	testcases := []testcase{
		{name: "full", sha: commitSHA},
		{name: "empty", sha: "", expectedErr: guarderr.ErrMissingCommit},
		{name: "short", sha: commitSHA[:7], expectedErr: guarderr.ErrInvalidCommit},
		{name: "uppercase", sha: strings.ToUpper(commitSHA), expectedErr: guarderr.ErrInvalidCommit},
		{name: "nonHex", sha: "z" + commitSHA[1:], expectedErr: guarderr.ErrInvalidCommit},
		{name: "tooLong", sha: commitSHA + "0", expectedErr: guarderr.ErrInvalidCommit},
		{name: "whitespace", sha: " " + commitSHA, expectedErr: guarderr.ErrInvalidCommit},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			in := testInput()
			in.CommitSHA = tc.sha

			err := in.Validate()
			if tc.expectedErr == nil {
				require.NoError(t, err)
				return
			}

			var inputErr *guarderr.InputError
			require.ErrorAs(t, err, &inputErr)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}
