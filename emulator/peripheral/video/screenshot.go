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

package video

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/andreas-jonsson/virtualchip/emulator/processor"
	"golang.org/x/image/draw"
)

func rgba(c uint32) color.RGBA {
	return color.RGBA{R: byte(c >> 16), G: byte(c >> 8), B: byte(c), A: 0xFF}
}

// Image returns the frame buffer scaled up by scale, using nearest neighbor so pixels stay sharp.
func Image(fb processor.FrameBuffer, fg, bg uint32, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}

	w, h := fb.ScreenWidth(), fb.ScreenHeight()
	src := image.NewRGBA(image.Rect(0, 0, w, h))
	on, off := rgba(fg), rgba(bg)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if fb.ScreenValue(x, y) != 0 {
				src.SetRGBA(x, y, on)
			} else {
				src.SetRGBA(x, y, off)
			}
		}
	}

	if scale == 1 {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Screenshot writes the current frame as PNG.
func (m *Device) Screenshot(w io.Writer, scale int) error {
	return png.Encode(w, Image(m.fb, m.Foreground, m.Background, scale))
}
