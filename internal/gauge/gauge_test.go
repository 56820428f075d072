package gauge

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_OnePerOwner(t *testing.T) {
	reg := NewRegistry(0, 0)

	g, err := reg.Acquire("session-1")
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Live())

	_, err = reg.Acquire("session-1")
	assert.ErrorIs(t, err, ErrAlreadyMounted)
	assert.Equal(t, 1, reg.Live())

	other, err := reg.Acquire("session-2")
	require.NoError(t, err)
	assert.NotEqual(t, g.ID(), other.ID())
	assert.Equal(t, 2, reg.Live())
}

func TestGauge_CloseReleases(t *testing.T) {
	reg := NewRegistry(0, 0)

	g, err := reg.Acquire("s")
	require.NoError(t, err)
	g.Close()
	assert.Equal(t, 0, reg.Live())

	// Double close must not drop a newer gauge held by the same owner.
	next, err := reg.Acquire("s")
	require.NoError(t, err)
	g.Close()
	assert.Equal(t, 1, reg.Live())
	assert.NotEqual(t, g.ID(), next.ID())

	next.Close()
	assert.Equal(t, 0, reg.Live())
}

func TestGauge_UpdateInPlace(t *testing.T) {
	reg := NewRegistry(0, 0)
	g, err := reg.Acquire("s")
	require.NoError(t, err)
	id := g.ID()

	require.NoError(t, g.Update(50))
	assert.Equal(t, 50, g.Percent())
	assert.Equal(t, "50%", g.Label())
	assert.Equal(t, id, g.ID())
	assert.Equal(t, 1, reg.Live())

	require.NoError(t, g.Update(130))
	assert.Equal(t, 100, g.Percent())
	require.NoError(t, g.Update(-4))
	assert.Equal(t, 0, g.Percent())
}

func TestGauge_ClosedRejectsUse(t *testing.T) {
	reg := NewRegistry(0, 0)
	g, err := reg.Acquire("s")
	require.NoError(t, err)
	g.Close()

	assert.ErrorIs(t, g.Update(10), ErrClosed)
	_, err = g.SVG()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestGauge_RenderSVG(t *testing.T) {
	reg := NewRegistry(200, 40)
	g, err := reg.Acquire("s")
	require.NoError(t, err)
	require.NoError(t, g.Update(67))

	svg, err := g.SVG()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(svg), "<svg"), svg)
	assert.Contains(t, svg, "67%")
	assert.Contains(t, svg, `width="200"`)
}

func TestGauge_RenderEmpty(t *testing.T) {
	reg := NewRegistry(0, 0)
	g, err := reg.Acquire("s")
	require.NoError(t, err)

	svg, err := g.SVG()
	require.NoError(t, err)
	assert.Contains(t, svg, "0%")
}

func TestRegistry_ConcurrentAcquireRelease(t *testing.T) {
	reg := NewRegistry(0, 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g, err := reg.Acquire(fmt.Sprintf("owner-%d", i))
			if err != nil {
				return
			}
			_ = g.Update(i)
			g.Close()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, reg.Live())
}
