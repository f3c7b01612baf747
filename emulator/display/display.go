/*
Copyright (c) 2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package display

import "fmt"

const (
	DefaultWidth  = 64
	DefaultHeight = 32
)

type Option func(*Display)

// WithVerticalWrap makes sprite rows that pass the bottom edge re-enter at the top
// instead of being clipped.
func WithVerticalWrap() Option {
	return func(d *Display) {
		d.verticalWrap = true
	}
}

// WithHorizontalWrap makes the part of a sprite row that passes the right edge
// re-enter at the start of the same line instead of being clipped.
func WithHorizontalWrap() Option {
	return func(d *Display) {
		d.horizontalWrap = true
	}
}

// Display is a monochrome frame buffer packed one bit per pixel, row-major,
// most significant bit first.
type Display struct {
	width, height int
	verticalWrap,
	horizontalWrap bool
	buffer []byte
}

func New(width, height int, opts ...Option) *Display {
	if width <= 0 || width%8 != 0 || height <= 0 {
		panic(fmt.Sprintf("invalid display size %dx%d", width, height))
	}

	d := &Display{
		width:  width,
		height: height,
		buffer: make([]byte, (width*height+7)/8),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Display) Width() int {
	return d.width
}

func (d *Display) Height() int {
	return d.height
}

func (d *Display) Clear() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
}

// Draw XORs an 8 pixel wide sprite onto the display with its top-left corner at (x, y)
// and reports whether any pixel was switched off.
func (d *Display) Draw(x, y int, sprite []byte) bool {
	x %= d.width
	y %= d.height

	byteWidth := d.width / 8
	shift := uint(x % 8)
	first := x / 8
	second := first + 1
	if second >= byteWidth {
		second = -1
		if d.horizontalWrap && byteWidth > 1 {
			second = 0
		}
	}

	collide := false
	for i, row := range sprite {
		line := y + i
		if line >= d.height {
			if !d.verticalWrap {
				break
			}
			line %= d.height
		}

		offset := line * byteWidth
		if d.xor(offset+first, row>>shift) {
			collide = true
		}

		// The right half of an unaligned row is dropped at the right edge unless wrapping.
		if shift != 0 && second >= 0 {
			if d.xor(offset+second, row<<(8-shift)) {
				collide = true
			}
		}
	}
	return collide
}

func (d *Display) xor(i int, v byte) bool {
	before := d.buffer[i]
	after := before ^ v
	d.buffer[i] = after
	return before&^after != 0
}

func (d *Display) Get(x, y int) byte {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		panic(fmt.Sprintf("pixel (%d, %d) is outside the %dx%d display", x, y, d.width, d.height))
	}
	b := d.buffer[y*d.width/8+x/8]
	return (b >> (7 - uint(x%8))) & 1
}

// Bytes returns a copy of the packed frame buffer.
func (d *Display) Bytes() []byte {
	b := make([]byte, len(d.buffer))
	copy(b, d.buffer)
	return b
}
