package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	got, err := NormalizeURL(" acme.io/pricing ")
	require.NoError(t, err)
	assert.Equal(t, "https://acme.io/pricing", got)

	got, err = NormalizeURL("http://acme.io")
	require.NoError(t, err)
	assert.Equal(t, "http://acme.io", got)

	for _, bad := range []string{"", "ftp://acme.io", "https://"} {
		_, err := NormalizeURL(bad)
		assert.Error(t, err, bad)
	}
}
