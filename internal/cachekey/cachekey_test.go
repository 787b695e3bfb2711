package cachekey_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"story-relay/internal/cachekey"
)

func TestDerive_Deterministic(t *testing.T) {
	for _, algo := range []cachekey.Algorithm{cachekey.MD5, cachekey.BLAKE2b128} {
		t.Run(string(algo), func(t *testing.T) {
			d, err := cachekey.NewDeriver(algo)
			require.NoError(t, err)

			prompt := "a quiet harbor at dawn"
			assert.Equal(t, d.Derive(prompt), d.Derive(prompt))
			assert.Len(t, d.Derive(prompt).String(), 32)
		})
	}
}

func TestDerive_KnownDigests(t *testing.T) {
	// md5("") и md5("abc") - эталонные значения RFC 1321.
	assert.Equal(t, cachekey.Key("d41d8cd98f00b204e9800998ecf8427e"), cachekey.Derive(""))
	assert.Equal(t, cachekey.Key("900150983cd24fb0d6963f7d28e17f72"), cachekey.Derive("abc"))

	d, err := cachekey.NewDeriver(cachekey.MD5)
	require.NoError(t, err)
	assert.Equal(t, cachekey.Derive("abc"), d.Derive("abc"))
}

func TestDerive_DistinctPrompts(t *testing.T) {
	corpus := []string{
		"",
		" ",
		"a quiet harbor at dawn",
		"a quiet harbor at dawn.",
		"A quiet harbor at dawn",
		"a quiet harbour at dawn",
		"a neon-lit alley after rain",
		"a snowy mountain pass",
		"замок на холме",
	}
	for i := 0; i < 50; i++ {
		corpus = append(corpus, fmt.Sprintf("location #%d", i))
	}

	for _, algo := range []cachekey.Algorithm{cachekey.MD5, cachekey.BLAKE2b128} {
		d, err := cachekey.NewDeriver(algo)
		require.NoError(t, err)

		seen := make(map[cachekey.Key]string, len(corpus))
		for _, p := range corpus {
			k := d.Derive(p)
			prev, dup := seen[k]
			assert.False(t, dup, "%s: %q and %q share key %s", algo, prev, p, k)
			seen[k] = p
		}
	}
}

func TestNewDeriver_Unsupported(t *testing.T) {
	_, err := cachekey.NewDeriver("sha1")
	assert.Error(t, err)
}
