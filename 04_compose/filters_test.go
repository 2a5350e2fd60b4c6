package compose

import (
	"testing"

	"pulse-video-pipeline/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKenBurnsFilter(t *testing.T) {
	in := kenBurnsFilter(0.02, true, 15, 24, 1280, 720)
	assert.Contains(t, in, "scale=3840:2160")
	assert.Contains(t, in, "zoompan=z='min(zoom+")
	assert.Contains(t, in, "d=360")
	assert.Contains(t, in, "s=1280x720")

	out := kenBurnsFilter(0.02, false, 15, 24, 1280, 720)
	assert.Contains(t, out, "if(eq(on,1)")
	assert.Contains(t, out, "max(zoom-")
}

func TestClipFilter(t *testing.T) {
	plain := clipFilter(1.0, 1280, 720)
	assert.Contains(t, plain, "force_original_aspect_ratio=decrease")
	assert.NotContains(t, plain, "setpts")

	fast := clipFilter(1.2, 1280, 720)
	assert.Contains(t, fast, "setpts=PTS/1.20")
}

func TestTitleFilterUppercasesAndEscapes(t *testing.T) {
	f := titleFilter("it's dawn", "#E8F4F8", 2.5)
	assert.Contains(t, f, `IT\'S DAWN`)
	assert.Contains(t, f, "fontcolor=0xE8F4F8")
	assert.Contains(t, f, "enable='lte(t,2.50)'")
}

func TestSubtitleFilter(t *testing.T) {
	bg := types.RGBA{R: 20, G: 40, B: 60, A: 150}
	f := subtitleFilter("/tmp/sub.txt", "#FFFFFF", bg, 720)
	assert.Contains(t, f, "textfile=")
	assert.Contains(t, f, "boxcolor=0x14283C@0.59")
	assert.Contains(t, f, "y=570")
}

func TestFFColor(t *testing.T) {
	assert.Equal(t, "0xE8F4F8", ffColor("#E8F4F8"))
	assert.Equal(t, "0xFFFFFF", ffColor("FFFFFF"))
}

func TestEscapeDrawText(t *testing.T) {
	assert.Equal(t, `a\\b\'c\:d\%e`, escapeDrawText(`a\b'c:d%e`))
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, "", wrapText("   ", 10))
	assert.Equal(t, "one two", wrapText("one two", 10))
	assert.Equal(t, "one two\nthree", wrapText("one two three", 8))

	// A word longer than the width gets its own line.
	assert.Equal(t, "hi\nextraordinarily\nso", wrapText("hi extraordinarily so", 5))
}

func TestXfadeOffsets(t *testing.T) {
	assert.Nil(t, xfadeOffsets([]float64{10}))

	offs := xfadeOffsets([]float64{3, 15, 15, 15, 3})
	require.Len(t, offs, 4)
	assert.InDelta(t, 2.6, offs[0], 1e-9)
	assert.InDelta(t, 17.2, offs[1], 1e-9)
	assert.InDelta(t, 31.8, offs[2], 1e-9)
	assert.InDelta(t, 46.4, offs[3], 1e-9)
}

func TestTotalDuration(t *testing.T) {
	// Intro card + 45s of scenes + outro card with four joins.
	assert.InDelta(t, 49.4, TotalDuration([]float64{3, 15, 15, 15, 3}), 1e-9)
	assert.InDelta(t, 10.0, TotalDuration([]float64{10}), 1e-9)
	assert.InDelta(t, 5.6, TotalDuration([]float64{3, 3}), 1e-9)
}
