package keyderiver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSameInputsYieldSameKey(t *testing.T) {
	require.Equal(t, Download("https://youtu.be/abc"), Download("https://youtu.be/abc"))
	require.Equal(t, Extract("/v/abc.mp4"), Extract("/v/abc.mp4"))
	require.Equal(t, Transcript("/a/abc.mp3"), Transcript("/a/abc.mp3"))
	require.Equal(t, Summary("hello world", "gpt-4"), Summary("hello world", "gpt-4"))
}

func TestDifferentInputsYieldDifferentKeys(t *testing.T) {
	require.NotEqual(t, Download("https://youtu.be/abc"), Download("https://youtu.be/def"))
	require.NotEqual(t, Extract("/v/abc.mp4"), Extract("/v/def.mp4"))
	require.NotEqual(t, Transcript("/a/abc.mp3"), Transcript("/a/def.mp3"))
	require.NotEqual(t, Summary("hello", "gpt-4"), Summary("hello", "gpt-3"))
	require.NotEqual(t, Summary("hello", "gpt-4"), Summary("world", "gpt-4"))
}

func TestKeysAreNamespacedByKind(t *testing.T) {
	require.NotEqual(t, Download("x"), Extract("x"))
	require.True(t, len(Download("x")) > len("download:"))
}

func TestGenericSortsNamedArgsByName(t *testing.T) {
	a := Generic("generic", []string{"p1"}, map[string]string{"b": "2", "a": "1"})
	b := Generic("generic", []string{"p1"}, map[string]string{"a": "1", "b": "2"})
	require.Equal(t, a, b)
}

func TestURLDigestIsStableMD5Hex(t *testing.T) {
	d1 := URLDigest("https://www.youtube.com/watch?v=abc")
	d2 := URLDigest("https://www.youtube.com/watch?v=abc")
	require.Equal(t, d1, d2)
	require.Len(t, d1, 32)
}
