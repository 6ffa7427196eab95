package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/image/draw"

	"cryptocast/internal/storage"
	"cryptocast/pkg/httputil"
)

const (
	maxTitleLines   = 3
	maxCaptionLines = 2
	clipZoom        = 0.12
	placeholderText = "Image unavailable"
)

var (
	canvasColor      = color.RGBA{R: 15, G: 23, B: 42, A: 255}
	backgroundShade  = color.RGBA{A: 140}
	panelColor       = color.RGBA{R: 51, G: 65, B: 85, A: 255}
	titleBandColor   = color.RGBA{A: 190}
	textColor        = color.RGBA{R: 248, G: 250, B: 252, A: 255}
	mutedTextColor   = color.RGBA{R: 148, G: 163, B: 184, A: 255}
	captionTextColor = color.RGBA{R: 250, G: 204, B: 21, A: 255}
)

type RendererOptions struct {
	Width       int
	Height      int
	ClipSeconds int
	ClipFPS     int
	HTTPClient  httputil.Doer
	Backgrounds storage.BackgroundProvider
}

// Renderer draws the still frame and the animated preview clip for a video.
type Renderer struct {
	width       int
	height      int
	clipFrames  int
	frameDelay  int
	client      httputil.Doer
	backgrounds storage.BackgroundProvider
}

type RenderRequest struct {
	Dir               string
	FramePath         string
	ClipPath          string
	Title             string
	ImageURL          string
	IncludeBackground bool
	Captions          []CaptionCue
	Duration          int
}

type RenderResult struct {
	FramePath string
	ClipPath  string
}

func NewRenderer(opts RendererOptions) *Renderer {
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 720
	}
	if opts.ClipSeconds <= 0 {
		opts.ClipSeconds = 3
	}
	if opts.ClipFPS <= 0 {
		opts.ClipFPS = 10
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = httputil.NewRetryClient(nil, httputil.DefaultRetryConfig())
	}

	return &Renderer{
		width:       opts.Width,
		height:      opts.Height,
		clipFrames:  opts.ClipSeconds * opts.ClipFPS,
		frameDelay:  max(100/opts.ClipFPS, 1),
		client:      opts.HTTPClient,
		backgrounds: opts.Backgrounds,
	}
}

// Render writes the frame and clip. If the frame is written but the clip
// is not, the partial result is returned together with the error.
func (r *Renderer) Render(ctx context.Context, req RenderRequest) (*RenderResult, error) {
	if req.FramePath == "" || req.ClipPath == "" {
		return nil, errors.New("frame and clip paths are required")
	}

	base := r.composeBase(ctx, req)

	frame := cloneRGBA(base)
	r.drawTitle(frame, req.Title)
	if err := writePNG(req.FramePath, frame); err != nil {
		return nil, fmt.Errorf("write frame: %w", err)
	}
	result := &RenderResult{FramePath: req.FramePath}

	clip := r.renderClip(ctx, base, req)
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if err := writeGIF(req.ClipPath, clip); err != nil {
		return result, fmt.Errorf("write clip: %w", err)
	}
	result.ClipPath = req.ClipPath

	return result, nil
}

func (r *Renderer) composeBase(ctx context.Context, req RenderRequest) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(canvasColor), image.Point{}, draw.Src)

	if req.IncludeBackground && r.backgrounds != nil {
		if bg, err := r.loadBackground(ctx); err != nil {
			slog.Warn("Background unavailable", "error", err)
		} else {
			draw.CatmullRom.Scale(canvas, canvas.Bounds(), bg, coverRect(bg.Bounds(), canvas.Bounds()), draw.Src, nil)
			draw.Draw(canvas, canvas.Bounds(), image.NewUniform(backgroundShade), image.Point{}, draw.Over)
		}
	}

	box := r.imageBox()
	img, err := r.fetchImage(ctx, req.ImageURL)
	if err != nil {
		slog.Debug("Article image unavailable", "url", req.ImageURL, "error", err)
		drawPlaceholder(canvas, box, r.textScale())
		return canvas
	}

	draw.CatmullRom.Scale(canvas, containRect(img.Bounds(), box), img, img.Bounds(), draw.Over, nil)
	return canvas
}

func (r *Renderer) loadBackground(ctx context.Context) (image.Image, error) {
	path, err := r.backgrounds.RandomBackground(ctx)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open background: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode background %s: %w", path, err)
	}
	return img, nil
}

func (r *Renderer) fetchImage(ctx context.Context, url string) (image.Image, error) {
	if url == "" || url == "#" {
		return nil, errors.New("no image url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	body, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// imageBox is the area reserved for the article image, above the title band.
func (r *Renderer) imageBox() image.Rectangle {
	w := r.width * 3 / 4
	h := r.height * 11 / 20
	x := (r.width - w) / 2
	y := r.height / 12
	return image.Rect(x, y, x+w, y+h)
}

func (r *Renderer) textScale() int {
	return max(r.height/240, 1)
}

func (r *Renderer) drawTitle(dst *image.RGBA, title string) {
	scale := r.textScale()
	lines := wrapText(title, charsPerLine(r.width*9/10, scale), maxTitleLines)
	if len(lines) == 0 {
		return
	}

	pad := 4 * scale
	bandTop := r.height - textHeight(len(lines), scale) - 2*pad
	band := image.Rect(0, bandTop, r.width, r.height)
	draw.Draw(dst, band, image.NewUniform(titleBandColor), image.Point{}, draw.Over)
	drawCentered(dst, lines, bandTop+pad, scale, textColor)
}

func (r *Renderer) renderClip(ctx context.Context, base *image.RGBA, req RenderRequest) *gif.GIF {
	cw, ch := max(r.width/2, 1), max(r.height/2, 1)
	bounds := image.Rect(0, 0, cw, ch)
	scale := max(r.textScale()/2, 1)
	anim := &gif.GIF{LoopCount: 0}

	for i := 0; i < r.clipFrames; i++ {
		if ctx.Err() != nil {
			return anim
		}

		progress := 0.0
		if r.clipFrames > 1 {
			progress = float64(i) / float64(r.clipFrames-1)
		}

		frame := image.NewRGBA(bounds)
		draw.ApproxBiLinear.Scale(frame, bounds, base, zoomRect(base.Bounds(), progress*clipZoom), draw.Src, nil)

		caption := CaptionAt(req.Captions, progress*float64(req.Duration))
		if caption == "" && len(req.Captions) == 0 {
			caption = req.Title
		}
		lines := wrapText(caption, charsPerLine(cw*9/10, scale), maxCaptionLines)
		if len(lines) > 0 {
			pad := 2 * scale
			top := ch - textHeight(len(lines), scale) - 2*pad
			draw.Draw(frame, image.Rect(0, top, cw, ch), image.NewUniform(titleBandColor), image.Point{}, draw.Over)
			drawCentered(frame, lines, top+pad, scale, captionTextColor)
		}

		paletted := image.NewPaletted(bounds, palette.Plan9)
		draw.FloydSteinberg.Draw(paletted, bounds, frame, image.Point{})
		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, r.frameDelay)
	}

	return anim
}

func drawPlaceholder(dst *image.RGBA, box image.Rectangle, scale int) {
	draw.Draw(dst, box, image.NewUniform(panelColor), image.Point{}, draw.Src)
	lineHeight := textHeight(1, scale)
	sub := dst.SubImage(box).(*image.RGBA)
	drawCentered(sub, []string{placeholderText}, box.Min.Y+(box.Dy()-lineHeight)/2, scale, mutedTextColor)
}

// containRect fits src inside box, preserving aspect ratio and centering.
func containRect(src, box image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw == 0 || sh == 0 {
		return box
	}
	w := box.Dx()
	h := sh * w / sw
	if h > box.Dy() {
		h = box.Dy()
		w = sw * h / sh
	}
	x := box.Min.X + (box.Dx()-w)/2
	y := box.Min.Y + (box.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// coverRect returns the centered region of src with dst's aspect ratio.
func coverRect(src, dst image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	dw, dh := dst.Dx(), dst.Dy()
	if sw == 0 || sh == 0 || dw == 0 || dh == 0 {
		return src
	}
	w, h := sw, sw*dh/dw
	if h > sh {
		h = sh
		w = sh * dw / dh
	}
	x := src.Min.X + (sw-w)/2
	y := src.Min.Y + (sh-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// zoomRect shrinks r around its center by the given fraction.
func zoomRect(r image.Rectangle, zoom float64) image.Rectangle {
	w := int(float64(r.Dx()) / (1 + zoom))
	h := int(float64(r.Dy()) / (1 + zoom))
	x := r.Min.X + (r.Dx()-w)/2
	y := r.Min.Y + (r.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeGIF(path string, anim *gif.GIF) error {
	if len(anim.Image) == 0 {
		return errors.New("clip has no frames")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
