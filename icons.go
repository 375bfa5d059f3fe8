package folio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"net/http"
	"os"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

// iconSizes maps the served icon names to their square edge in pixels.
var iconSizes = map[string]int{
	"icon-192.png": 192,
	"icon-512.png": 512,
	"blog.png":     96,
}

// iconCache resizes the source icon once per size and keeps the PNGs.
type iconCache struct {
	src string

	mu      sync.Mutex
	resized map[int][]byte
}

func newIconCache(src string) *iconCache {
	return &iconCache{src: src, resized: make(map[int][]byte)}
}

// get returns the PNG for size, resizing the source on first use.
func (ic *iconCache) get(size int) ([]byte, error) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	if b, ok := ic.resized[size]; ok {
		return b, nil
	}

	f, err := os.Open(ic.src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := resizeSquare(f, size)
	if err != nil {
		return nil, fmt.Errorf("resize %s: %w", ic.src, err)
	}
	ic.resized[size] = b
	return b, nil
}

// resizeSquare decodes an image and scales it to size x size PNG.
func resizeSquare(src io.Reader, size int) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (a *App) handleIcon(c echo.Context) error {
	name := c.Param("name")
	if name == "icon.png" {
		return c.File(a.icons.src)
	}
	size, ok := iconSizes[name]
	if !ok {
		return echo.ErrNotFound
	}
	b, err := a.icons.get(size)
	if errors.Is(err, fs.ErrNotExist) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", b)
}
