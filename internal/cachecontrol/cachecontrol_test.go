package cachecontrol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_MaxAgeAndPublic(t *testing.T) {
	cc := Parse("public, max-age=3600, must-revalidate")
	assert.True(t, cc.Public)
	assert.True(t, cc.MustRevalidate)
	require.True(t, cc.HasMaxAge)
	assert.Equal(t, 3600, cc.MaxAge)
}

func TestParse_NoCacheWithFieldList(t *testing.T) {
	cc := Parse(`no-cache="Set-Cookie, ETag"`)
	require.True(t, cc.NoCache)
	assert.Equal(t, []string{"Set-Cookie", "ETag"}, cc.NoCacheFields)
}

func TestParse_MaxStaleWithoutValue(t *testing.T) {
	cc := Parse("max-stale")
	require.True(t, cc.HasMaxStale)
	assert.Equal(t, -1, cc.MaxStale)
}

func TestParse_NoStoreOnlyIfCachedNoTransform(t *testing.T) {
	cc := Parse("no-store, only-if-cached, no-transform")
	assert.True(t, cc.NoStore)
	assert.True(t, cc.OnlyIfCached)
	assert.True(t, cc.NoTransform)
}

func TestParse_StaleWhileRevalidateAndStaleIfError(t *testing.T) {
	cc := Parse("stale-while-revalidate=60, stale-if-error=300")
	require.True(t, cc.HasStaleWhileRevalidate)
	assert.Equal(t, 60, cc.StaleWhileRevalidate)
	require.True(t, cc.HasStaleIfError)
	assert.Equal(t, 300, cc.StaleIfError)
}

func TestString_RoundTrip(t *testing.T) {
	cc := CacheControl{Public: true, HasMaxAge: true, MaxAge: 60, Immutable: true}
	reparsed := Parse(cc.String())
	assert.True(t, reparsed.Public)
	assert.True(t, reparsed.Immutable)
	assert.Equal(t, 60, reparsed.MaxAge)
}
