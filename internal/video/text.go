package video

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var textFace = basicfont.Face7x13

// drawText renders s with the bitmap face scaled by scale, top-left at (x, y).
func drawText(dst draw.Image, s string, x, y, scale int, c color.Color) {
	if s == "" {
		return
	}
	scale = max(scale, 1)

	width := font.MeasureString(textFace, s).Ceil()
	height := textFace.Metrics().Height.Ceil()
	glyphs := image.NewRGBA(image.Rect(0, 0, width, height))

	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(c),
		Face: textFace,
		Dot:  fixed.P(0, textFace.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)

	target := image.Rect(x, y, x+width*scale, y+height*scale)
	draw.NearestNeighbor.Scale(dst, target, glyphs, glyphs.Bounds(), draw.Over, nil)
}

// drawCentered draws each line horizontally centered, starting at y.
func drawCentered(dst draw.Image, lines []string, y, scale int, c color.Color) {
	bounds := dst.Bounds()
	lineHeight := textFace.Metrics().Height.Ceil() * scale
	for i, line := range lines {
		w := font.MeasureString(textFace, line).Ceil() * scale
		x := bounds.Min.X + (bounds.Dx()-w)/2
		drawText(dst, line, x, y+i*lineHeight, scale, c)
	}
}

func textHeight(lines, scale int) int {
	return lines * textFace.Metrics().Height.Ceil() * scale
}

// charsPerLine returns how many glyphs fit in width at the given scale.
func charsPerLine(width, scale int) int {
	return max(width/(textFace.Advance*max(scale, 1)), 1)
}

// wrapText breaks s into at most maxLines lines of maxChars, marking
// truncation with "...".
func wrapText(s string, maxChars, maxLines int) []string {
	words := strings.Fields(s)
	if len(words) == 0 || maxChars <= 0 || maxLines <= 0 {
		return nil
	}

	var lines []string
	var current string
	for i, w := range words {
		if len(w) > maxChars {
			w = w[:maxChars]
		}
		switch {
		case current == "":
			current = w
		case len(current)+1+len(w) <= maxChars:
			current += " " + w
		default:
			lines = append(lines, current)
			current = w
		}

		if len(lines) == maxLines {
			last := lines[maxLines-1]
			if len(last)+3 > maxChars {
				last = last[:max(maxChars-3, 0)]
			}
			lines[maxLines-1] = last + "..."
			return lines
		}
		if i == len(words)-1 {
			lines = append(lines, current)
		}
	}
	return lines
}
