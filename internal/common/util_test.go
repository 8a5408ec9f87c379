package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateRandByteArray(t *testing.T) {
	a := GenerateRandByteArray(32)
	b := GenerateRandByteArray(32)
	require.Len(t, a, 32)
	require.NotEqual(t, a, b)
}

func TestWipeByteArray(t *testing.T) {
	b := []byte{1, 2, 3}
	WipeByteArray(b)
	require.Equal(t, []byte{0, 0, 0}, b)
}

func TestRemoteError_Wraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Remote(cause)

	var re *RemoteError
	require.ErrorAs(t, err, &re)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "remote failure")

	require.Nil(t, Remote(nil))
}
