package assets

import (
	"context"
	"image"
	"image/color"

	"pulse-video-pipeline/config"
	"pulse-video-pipeline/types"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// gradientProvider is the terminal entry of the chain: a procedurally
// generated two-color vertical gradient sized to the output frame, with
// the scene title centered in white. Colors come from the scene's mood;
// unrecognized moods use the neutral pair. It never goes unavailable
// and fails only on filesystem errors.
type gradientProvider struct {
	cfg *config.VideoConfig
}

// NewGradientProvider exposes the fallback generator on its own, for
// offline use and for reduced provider chains.
func NewGradientProvider(cfg *config.VideoConfig) Provider {
	return &gradientProvider{cfg: cfg}
}

func (p *gradientProvider) Name() string    { return "gradient" }
func (p *gradientProvider) Available() bool { return true }

func (p *gradientProvider) Fetch(_ context.Context, scene types.Scene, _ types.StateLabel, dest string) (MediaAsset, error) {
	w, h := p.cfg.Width, p.cfg.Height
	top, bottom := types.GradientFor(scene.Mood)

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		ratio := float64(y) / float64(h)
		c := color.NRGBA{
			R: lerp(top.R, bottom.R, ratio),
			G: lerp(top.G, bottom.G, ratio),
			B: lerp(top.B, bottom.B, ratio),
			A: 255,
		}
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}

	blurred := imaging.Blur(img, 3)
	drawCenteredText(blurred, scene.Title, w/2, h/2)

	if err := imaging.Save(blurred, dest, imaging.JPEGQuality(88)); err != nil {
		return MediaAsset{}, err
	}
	return MediaAsset{Path: dest, Kind: KindImage}, nil
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a)*(1-t) + float64(b)*t)
}

// drawCenteredText renders s in white, centered on (cx, cy).
func drawCenteredText(dst *image.NRGBA, s string, cx, cy int) {
	if s == "" {
		return
	}
	face := basicfont.Face7x13
	width := font.MeasureString(face, s).Ceil()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: face,
		Dot: fixed.P(
			cx-width/2,
			cy+face.Metrics().Ascent.Ceil()/2,
		),
	}
	d.DrawString(s)
}
