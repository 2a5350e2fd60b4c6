package compose

import (
	"image"
	"os"
	"strings"
	"testing"

	"pulse-video-pipeline/config"
	"pulse-video-pipeline/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "image/jpeg"
)

func testAssembler(t *testing.T) *Assembler {
	t.Helper()
	cfg := config.Default()
	cfg.Width = 640
	cfg.Height = 360
	cfg.TempDir = t.TempDir()
	cfg.OutputDir = t.TempDir()
	return NewAssembler(cfg)
}

func testScript() *types.VideoScript {
	return &types.VideoScript{
		VideoID:     "abc12345",
		Topic:       "ocean waves",
		State:       types.StateCalm,
		Category:    "nature",
		TotalS:      45,
		Title:       "Ocean Calm",
		Description: "A calming minute by the sea.",
		Scenes: []types.Scene{
			{SceneID: 1, Title: "Opening", Narration: "Welcome.", DurationS: 15, Mood: "neutral"},
			{SceneID: 2, Title: "Journey", Narration: "Settle in.", DurationS: 15, Mood: "serene"},
			{SceneID: 3, Title: "Closing", Narration: "Carry this.", DurationS: 15, Mood: "serene"},
		},
	}
}

func decodeCard(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, format, err := image.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	return img
}

func TestRenderTitleCard(t *testing.T) {
	a := testAssembler(t)
	path, err := a.renderTitleCard(testScript())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "abc12345_title.jpg"))

	img := decodeCard(t, path)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 360, img.Bounds().Dy())
}

func TestRenderOutroCard(t *testing.T) {
	a := testAssembler(t)
	path, err := a.renderOutroCard(testScript())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "abc12345_outro.jpg"))
	decodeCard(t, path)
}

func TestRenderTitleCardTruncatesLongDescription(t *testing.T) {
	a := testAssembler(t)
	s := testScript()
	s.Description = strings.Repeat("long descriptive sentence ", 20)
	_, err := a.renderTitleCard(s)
	require.NoError(t, err)
}

func TestUpper(t *testing.T) {
	assert.Equal(t, "OCEAN CALM", upper("Ocean Calm"))
	assert.Equal(t, "ABC 123", upper("abc 123"))
}
