//go:build ignore

// Генерирует иконки трея: капсула микрофона в рамке клавиши.
// Запуск: go run scripts/generate_icons.go [dir]
package main

import (
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
)

const size = 64

func main() {
	dir := "embedded"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("mkdir %s: %v", dir, err)
	}

	icons := []struct {
		name  string
		color color.RGBA
	}{
		{"icon_idle.png", color.RGBA{128, 128, 128, 255}},
		{"icon_recording.png", color.RGBA{220, 50, 50, 255}},
		{"icon_processing.png", color.RGBA{230, 160, 50, 255}},
	}
	for _, icon := range icons {
		path := filepath.Join(dir, icon.name)
		if err := writeIcon(path, drawIcon(icon.color)); err != nil {
			log.Fatalf("%s: %v", icon.name, err)
		}
		log.Printf("wrote %s", path)
	}
}

func drawIcon(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	// рамка клавиши
	for i := 4; i < size-4; i++ {
		for _, w := range []int{4, 5, size - 6, size - 5} {
			img.Set(i, w, c)
			img.Set(w, i, c)
		}
	}

	// капсула микрофона
	const cx, top, bottom, r = size / 2, 14, 36, 8
	for y := top - r; y <= bottom+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx := x - cx
			var dy int
			switch {
			case y < top:
				dy = y - top
			case y > bottom:
				dy = y - bottom
			}
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, c)
			}
		}
	}

	// ножка
	for y := bottom + r; y < bottom+r+8; y++ {
		for x := cx - 2; x <= cx+2; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writeIcon(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
