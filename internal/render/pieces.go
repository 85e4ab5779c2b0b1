package render

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/park285/Cheese-Checkers/internal/checkers"
)

//go:embed assets/*.svg
var pieceFiles embed.FS

type pieceCacheKey struct {
	color checkers.Color
	king  bool
	size  int
}

var (
	pieceCache   = map[pieceCacheKey]image.Image{}
	pieceCacheMu sync.RWMutex
)

var pieceColors = map[checkers.Color][2]string{
	checkers.Red:   {"#c0392b", "#6e1a12"},
	checkers.Black: {"#2b2b2b", "#0a0a0a"},
}

func renderPieceImage(c checkers.Color, king bool, size int) (image.Image, error) {
	key := pieceCacheKey{color: c, king: king, size: size}

	pieceCacheMu.RLock()
	if img, ok := pieceCache[key]; ok {
		pieceCacheMu.RUnlock()
		return img, nil
	}
	pieceCacheMu.RUnlock()

	name := "assets/man.svg"
	if king {
		name = "assets/king.svg"
	}
	data, err := pieceFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read piece asset %s: %w", name, err)
	}
	fill := pieceColors[c]
	data = bytes.ReplaceAll(data, []byte("{{FILL}}"), []byte(fill[0]))
	data = bytes.ReplaceAll(data, []byte("{{EDGE}}"), []byte(fill[1]))

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	pieceCacheMu.Lock()
	pieceCache[key] = img
	pieceCacheMu.Unlock()
	return img, nil
}
