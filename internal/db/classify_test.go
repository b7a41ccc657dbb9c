package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/laplataremata/remata-engine/internal/auctionerrors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected auctionerrors.Kind
	}{
		{
			name:     "missing_relation",
			err:      errors.New(`ERROR: relation "public.auctions" does not exist (SQLSTATE 42P01)`),
			expected: auctionerrors.NotFound,
		},
		{
			name:     "permission_denied",
			err:      errors.New("ERROR: permission denied for table bids (SQLSTATE 42501)"),
			expected: auctionerrors.Unauthorized,
		},
		{
			name:     "row_level_security",
			err:      errors.New(`new row violates row-level security policy for table "bids"`),
			expected: auctionerrors.Unauthorized,
		},
		{
			name:     "expired_token",
			err:      errors.New("invalid JWT: token is expired"),
			expected: auctionerrors.Unauthenticated,
		},
		{
			name:     "backend_down",
			err:      errors.New("dial tcp 127.0.0.1:54321: connect: connection refused"),
			expected: auctionerrors.ServiceUnavailable,
		},
		{
			name:     "check_constraint",
			err:      errors.New(`ERROR: new row violates check constraint "bids_amount_check" (SQLSTATE 23514)`),
			expected: auctionerrors.ValidationFailed,
		},
		{
			name:     "unclassified",
			err:      errors.New("duplicate key value violates unique constraint"),
			expected: auctionerrors.Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := classify(tt.err, "bids")
			require.Equal(t, tt.expected, auctionerrors.KindOf(classified))

			// The raw message always travels along for diagnostics
			f, ok := auctionerrors.AsFailure(classified)
			require.True(t, ok)
			require.ErrorIs(t, f, tt.err)
		})
	}
}

func TestClassifyNil(t *testing.T) {
	require.NoError(t, classify(nil, "auctions"))
}

func TestClassifyKeepsExistingFailure(t *testing.T) {
	f := auctionerrors.New(auctionerrors.ServiceUnavailable, "unreachable")
	require.Equal(t, auctionerrors.ServiceUnavailable, auctionerrors.KindOf(classify(f, "auctions")))
}
