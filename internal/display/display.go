// Package display implements the monochrome framebuffer of the interpreter.
package display

// Screen dimensions of the two resolution modes.
const (
	LowResWidth   = 64
	LowResHeight  = 32
	HighResWidth  = 128
	HighResHeight = 64
)

// Framebuffer holds a low-res and a high-res pixel grid, one of them is active.
type Framebuffer struct {
	low     []bool
	high    []bool
	highRes bool
}

// New returns a cleared framebuffer in low-res mode.
func New() *Framebuffer {
	return &Framebuffer{
		low:  make([]bool, LowResWidth*LowResHeight),
		high: make([]bool, HighResWidth*HighResHeight),
	}
}

// Reset switches to low-res mode and clears both grids.
func (f *Framebuffer) Reset() {
	clear(f.low)
	clear(f.high)
	f.highRes = false
}

// HighRes returns whether the high-res grid is active.
func (f *Framebuffer) HighRes() bool {
	return f.highRes
}

// SetHighRes selects the active grid and clears it.
func (f *Framebuffer) SetHighRes(enabled bool) {
	f.highRes = enabled
	f.Clear()
}

// Width returns the width of the active grid.
func (f *Framebuffer) Width() int {
	if f.highRes {
		return HighResWidth
	}
	return LowResWidth
}

// Height returns the height of the active grid.
func (f *Framebuffer) Height() int {
	if f.highRes {
		return HighResHeight
	}
	return LowResHeight
}

// Clear turns off all pixels of the active grid.
func (f *Framebuffer) Clear() {
	clear(f.active())
}

// Pixel returns the state of the pixel at x, y of the active grid.
// Coordinates outside of the grid are reported as off.
func (f *Framebuffer) Pixel(x, y int) bool {
	if x < 0 || y < 0 || x >= f.Width() || y >= f.Height() {
		return false
	}
	return f.active()[y*f.Width()+x]
}

// DrawSprite XORs a sprite onto the active grid and returns whether a set
// pixel was turned off. Each row of the sprite is width/8 bytes, most
// significant bit leftmost. The start position wraps around the screen, the
// parts of the sprite that cross an edge are clipped or wrapped.
func (f *Framebuffer) DrawSprite(x, y int, sprite []byte, width int, clip bool) bool {
	w, h := f.Width(), f.Height()
	pixels := f.active()
	x %= w
	y %= h

	bytesPerRow := width / 8
	rows := len(sprite) / bytesPerRow
	collision := false

	for row := range rows {
		py := y + row
		if py >= h {
			if clip {
				break
			}
			py %= h
		}

		for col := range width {
			b := sprite[row*bytesPerRow+col/8]
			if b&(0x80>>(col%8)) == 0 {
				continue
			}

			px := x + col
			if px >= w {
				if clip {
					break
				}
				px %= w
			}

			index := py*w + px
			if pixels[index] {
				collision = true
			}
			pixels[index] = !pixels[index]
		}
	}
	return collision
}

// ScrollDown moves the active grid down by n rows.
func (f *Framebuffer) ScrollDown(n int) {
	w, h := f.Width(), f.Height()
	pixels := f.active()
	n = min(n, h)

	copy(pixels[n*w:], pixels[:(h-n)*w])
	clear(pixels[:n*w])
}

// ScrollRight moves the active grid right by n columns.
func (f *Framebuffer) ScrollRight(n int) {
	w, h := f.Width(), f.Height()
	pixels := f.active()
	n = min(n, w)

	for y := range h {
		line := pixels[y*w : (y+1)*w]
		copy(line[n:], line[:w-n])
		clear(line[:n])
	}
}

// ScrollLeft moves the active grid left by n columns.
func (f *Framebuffer) ScrollLeft(n int) {
	w, h := f.Width(), f.Height()
	pixels := f.active()
	n = min(n, w)

	for y := range h {
		line := pixels[y*w : (y+1)*w]
		copy(line, line[n:])
		clear(line[w-n:])
	}
}

// Rows returns a copy of the active grid, indexed by row and column.
func (f *Framebuffer) Rows() [][]bool {
	w, h := f.Width(), f.Height()
	pixels := f.active()

	rows := make([][]bool, h)
	for y := range h {
		rows[y] = make([]bool, w)
		copy(rows[y], pixels[y*w:(y+1)*w])
	}
	return rows
}

func (f *Framebuffer) active() []bool {
	if f.highRes {
		return f.high
	}
	return f.low
}
