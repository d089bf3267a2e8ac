package status

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	require.Equal(t, "OK", Text(OK))
	require.Equal(t, "Not Found", Text(NotFound))
	require.Equal(t, "Internal Server Error", Text(InternalServerError))
	require.Equal(t, "I'm a teapot", Text(Teapot))

	t.Run("unknown code", func(t *testing.T) {
		require.Empty(t, Text(Code(299)))
		require.Empty(t, Text(Code(0)))
	})
}

func TestParse(t *testing.T) {
	t.Run("custom", func(t *testing.T) {
		table, err := Parse(strings.NewReader(`{"200": "Fine", "599": "Custom"}`))
		require.NoError(t, err)
		require.Equal(t, "Fine", table.Text(OK))
		require.Equal(t, "Custom", table.Text(599))
		require.Empty(t, table.Text(NotFound))
	})

	t.Run("bad key", func(t *testing.T) {
		_, err := Parse(strings.NewReader(`{"two hundred": "OK"}`))
		require.Error(t, err)
	})

	t.Run("bad json", func(t *testing.T) {
		_, err := Parse(strings.NewReader(`{"200": `))
		require.Error(t, err)
	})
}

func Benchmark(b *testing.B) {
	codes := []Code{OK, NotFound, InternalServerError, Teapot}
	code := codes[rand.IntN(len(codes))]
	b.ResetTimer()

	for range b.N {
		_ = Text(code)
	}
}
