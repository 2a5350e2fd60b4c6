package compose

import (
	"fmt"
	"strings"

	"pulse-video-pipeline/types"
)

// crossfadeOverlap is the segment overlap used when concatenating, so
// adjacent segments blend instead of hard-cutting.
const crossfadeOverlap = 0.4

// kenBurnsFilter builds the zoompan chain for a still image: upscale to
// smooth the pan, zoom in or out by the state's magnitude over the
// scene, then downscale to the output frame.
func kenBurnsFilter(zoomMag float64, zoomIn bool, durationS, fps, w, h int) string {
	frames := durationS * fps
	maxZoom := 1.0 + zoomMag
	step := zoomMag / float64(frames)

	var zExpr string
	if zoomIn {
		zExpr = fmt.Sprintf("min(zoom+%.6f,%.3f)", step, maxZoom)
	} else {
		// zoompan starts at z=1; jump to max on the first frame and
		// step back down.
		zExpr = fmt.Sprintf("if(eq(on,1),%.3f,max(zoom-%.6f,1.001))", maxZoom, step)
	}

	return fmt.Sprintf(
		"scale=%d:%d,zoompan=z='%s':x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':d=%d:s=%dx%d:fps=%d",
		w*3, h*3, zExpr, frames, w, h, fps,
	)
}

// clipFilter builds the scale/pad/speed chain for a motion clip.
func clipFilter(speed float64, w, h int) string {
	f := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1",
		w, h, w, h,
	)
	if speed != 1.0 {
		f += fmt.Sprintf(",setpts=PTS/%.2f", speed)
	}
	return f
}

// overlayFilter dims the whole frame by the state's overlay opacity.
func overlayFilter(opacity float64) string {
	return fmt.Sprintf("drawbox=color=black@%.2f:t=fill", opacity)
}

// titleFilter shows the scene title top-left for titleDur seconds.
func titleFilter(title, fontColor string, titleDur float64) string {
	return fmt.Sprintf(
		"drawtext=text='%s':fontcolor=%s:fontsize=30:x=55:y=45:enable='lte(t,%.2f)'",
		escapeDrawText(strings.ToUpper(title)), ffColor(fontColor), titleDur,
	)
}

// subtitleFilter renders the word-wrapped narration from a text file in
// a background box across the bottom of the frame.
func subtitleFilter(textFile, fontColor string, bg types.RGBA, h int) string {
	return fmt.Sprintf(
		"drawtext=textfile='%s':fontcolor=%s:fontsize=24:box=1:boxcolor=0x%02X%02X%02X@%.2f:boxborderw=12:x=(w-text_w)/2:y=%d",
		escapeDrawText(textFile), ffColor(fontColor),
		bg.R, bg.G, bg.B, float64(bg.A)/255.0,
		h-150,
	)
}

// fadeFilter fades the segment in and out over 0.4s each.
func fadeFilter(durationS float64) string {
	return fmt.Sprintf("fade=t=in:st=0:d=0.4,fade=t=out:st=%.2f:d=0.4", durationS-0.4)
}

// ffColor converts "#RRGGBB" to ffmpeg's 0xRRGGBB form.
func ffColor(hex string) string {
	return "0x" + strings.TrimPrefix(hex, "#")
}

// escapeDrawText escapes the characters the drawtext filter treats
// specially.
func escapeDrawText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "'", "\\'")
	s = strings.ReplaceAll(s, ":", "\\:")
	s = strings.ReplaceAll(s, "%", "\\%")
	return s
}

// wrapText word-wraps s to at most width characters per line.
func wrapText(s string, width int) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

// xfadeOffsets returns the xfade start offset for each join between
// consecutive segments. The final video duration is the sum of segment
// durations minus one overlap per join.
func xfadeOffsets(durations []float64) []float64 {
	if len(durations) < 2 {
		return nil
	}
	offsets := make([]float64, 0, len(durations)-1)
	off := durations[0] - crossfadeOverlap
	offsets = append(offsets, off)
	for _, d := range durations[1 : len(durations)-1] {
		off += d - crossfadeOverlap
		offsets = append(offsets, off)
	}
	return offsets
}

// TotalDuration reports the expected output duration for a set of
// segment durations joined with the standard overlap.
func TotalDuration(durations []float64) float64 {
	var sum float64
	for _, d := range durations {
		sum += d
	}
	return sum - crossfadeOverlap*float64(len(durations)-1)
}
