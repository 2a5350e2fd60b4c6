package compose

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"path/filepath"

	"pulse-video-pipeline/types"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// cardDurationS is how long the intro and outro cards hold on screen.
const cardDurationS = 3.0

// renderTitleCard writes the intro card image for a script and returns
// its path.
func (a *Assembler) renderTitleCard(script *types.VideoScript) (string, error) {
	path := filepath.Join(a.cfg.TempDir, fmt.Sprintf("%s_title.jpg", script.VideoID))
	desc := script.Description
	if len(desc) > 80 {
		desc = desc[:80]
	}
	err := a.renderCard(path,
		upper(script.Title),
		script.State.Title()+" Mode",
		desc,
		types.RGB{R: 15, G: 15, B: 30},
		types.VisualFor(script.State).Accent,
	)
	return path, err
}

// renderOutroCard writes the closing card image and returns its path.
func (a *Assembler) renderOutroCard(script *types.VideoScript) (string, error) {
	path := filepath.Join(a.cfg.TempDir, fmt.Sprintf("%s_outro.jpg", script.VideoID))
	err := a.renderCard(path,
		"Thanks for watching",
		upper(script.Title),
		"State: "+script.State.Title(),
		types.RGB{R: 10, G: 10, B: 20},
		types.VisualFor(script.State).Accent,
	)
	return path, err
}

// renderCard draws a three-line card with accent rules above and below
// the text block.
func (a *Assembler) renderCard(path, line1, line2, line3 string, bg, accent types.RGB) error {
	w, h := a.cfg.Width, a.cfg.Height
	cx, cy := w/2, h/2

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{bg.R, bg.G, bg.B, 255}), image.Point{}, draw.Src)

	accentC := color.NRGBA{accent.R, accent.G, accent.B, 255}
	fillRect(img, cx-260, cy-70, cx+260, cy-68, accentC)
	fillRect(img, cx-260, cy+80, cx+260, cy+82, accentC)

	drawCentered(img, line1, cx, cy-38, color.NRGBA{255, 255, 255, 255})
	drawCentered(img, line2, cx, cy+4, accentC)
	drawCentered(img, line3, cx, cy+56, color.NRGBA{160, 160, 180, 255})

	return imaging.Save(img, path, imaging.JPEGQuality(92))
}

func fillRect(img *image.NRGBA, x0, y0, x1, y1 int, c color.NRGBA) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

func drawCentered(dst *image.NRGBA, s string, cx, cy int, c color.NRGBA) {
	if s == "" {
		return
	}
	face := basicfont.Face7x13
	width := font.MeasureString(face, s).Ceil()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(cx-width/2, cy+face.Metrics().Ascent.Ceil()/2),
	}
	d.DrawString(s)
}

func upper(s string) string {
	out := []byte(s)
	for i, c := range out {
		if c >= 'a' && c <= 'z' {
			out[i] = c - ('a' - 'A')
		}
	}
	return string(out)
}
