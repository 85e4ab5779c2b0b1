// Package render draws a board position to PNG. The images serve as reference
// frames for the camera layout reader and as shareable snapshots.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/park285/Cheese-Checkers/internal/checkers"
)

type Options struct {
	// SquareSize in pixels; zero means 64.
	SquareSize int
	// Highlight marks the squares of the last ply.
	Highlight []checkers.Move
	Title     string
}

type Renderer interface {
	RenderPNG(ctx context.Context, b *checkers.Board, opts Options) ([]byte, error)
}

type pngRenderer struct{}

func NewPNGRenderer() Renderer { return pngRenderer{} }

var (
	lightSquare     = color.RGBA{233, 207, 163, 255}
	darkSquare      = color.RGBA{120, 84, 56, 255}
	highlightFill   = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	titlePanelColor = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	titleTextColor  = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	coordTextColor  = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
	backgroundColor = color.RGBA{250, 247, 240, 255}
)

const (
	margin      = 28
	titleHeight = 34
	titleGap    = 10
)

func (pngRenderer) RenderPNG(ctx context.Context, b *checkers.Board, opts Options) ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("board is nil")
	}
	size := opts.SquareSize
	if size <= 0 {
		size = 64
	}
	top := margin
	if strings.TrimSpace(opts.Title) != "" {
		top += titleHeight + titleGap
	}
	boardPx := size * checkers.Size
	origin := image.Point{X: margin, Y: top}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, boardPx+margin*2, boardPx+top+margin))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	drawTitle(img, opts.Title, image.Rect(margin, margin, margin+boardPx, margin+titleHeight))
	drawSquares(img, size, origin)
	for _, mv := range opts.Highlight {
		drawOverlay(img, squareRect(mv.From, size, origin), highlightFill)
		drawOverlay(img, squareRect(mv.To, size, origin), highlightFill)
	}
	for _, p := range b.Pieces() {
		pieceImg, err := renderPieceImage(p.Color(), p.King(), size)
		if err != nil {
			return nil, err
		}
		imagedraw.Draw(img, squareRect(p.Location(), size, origin), pieceImg, image.Point{}, imagedraw.Over)
	}
	drawCoordinates(img, size, origin)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// squareRect places rank 1 at the top, matching the text board.
func squareRect(sq checkers.Square, size int, origin image.Point) image.Rectangle {
	x := origin.X + sq.Col*size
	y := origin.Y + sq.Row*size
	return image.Rect(x, y, x+size, y+size)
}

func drawSquares(dst imagedraw.Image, size int, origin image.Point) {
	for row := 0; row < checkers.Size; row++ {
		for col := 0; col < checkers.Size; col++ {
			sq := checkers.Square{Row: row, Col: col}
			clr := lightSquare
			if sq.Playable() {
				clr = darkSquare
			}
			imagedraw.Draw(dst, squareRect(sq, size, origin), image.NewUniform(clr), image.Point{}, imagedraw.Src)
		}
	}
}

func drawOverlay(img *image.RGBA, rect image.Rectangle, clr color.Color) {
	imagedraw.Draw(img, rect, image.NewUniform(clr), image.Point{}, imagedraw.Over)
}

func drawCoordinates(dst imagedraw.Image, size int, origin image.Point) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: dst, Face: face, Src: image.NewUniform(coordTextColor)}
	ascent := face.Metrics().Ascent.Ceil()
	for i := 0; i < checkers.Size; i++ {
		center := i*size + size/2
		drawCenteredText(drawer, string(rune('1'+i)), origin.X-margin/2, origin.Y+center+ascent/2)
		drawCenteredText(drawer, string(rune('A'+i)), origin.X+center, origin.Y+checkers.Size*size+ascent+4)
	}
}

func drawTitle(img *image.RGBA, title string, rect image.Rectangle) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}
	drawOverlay(img, rect, titlePanelColor)
	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: img, Face: face, Src: image.NewUniform(titleTextColor)}
	metrics := face.Metrics()
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawCenteredText(drawer, title, rect.Min.X+rect.Dx()/2, baseline)
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	if text == "" {
		return
	}
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}
