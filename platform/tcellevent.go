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

package platform

import (
	"time"

	"github.com/andreas-jonsson/virtualchip/platform/dialog"
	"github.com/gdamore/tcell"
)

func (p *tcellPlatform) initializeTcellEvents() error {
	go func() {
		s := p.screen
		for {
			ev := s.PollEvent()
			switch ev := ev.(type) {
			case nil:
				return
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyCtrlC {
					dialog.Quit()
					continue
				}
				p.pushKeyEvent(ev)
			case *tcell.EventResize:
				s.Sync()
			case *tcell.EventInterrupt:
				if _, ok := ev.Data().(frameEvent); ok {
					p.drawFrame()
				}
			}
		}
	}()
	return nil
}

// drawFrame packs two pixel rows into each terminal cell using the upper half block.
func (p *tcellPlatform) drawFrame() {
	p.Lock()
	defer p.Unlock()

	s := p.screen
	for y := 0; y < p.height; y += 2 {
		for x := 0; x < p.width; x++ {
			top := p.pixelColor(x, y)
			bottom := top
			if y+1 < p.height {
				bottom = p.pixelColor(x, y+1)
			}
			s.SetContent(x, y/2, '▀', nil, tcell.StyleDefault.Foreground(top).Background(bottom))
		}
	}
	s.Show()
}

func (p *tcellPlatform) pixelColor(x, y int) tcell.Color {
	offset := (y*p.width + x) * 4
	px := p.frame[offset : offset+3]
	return tcell.NewRGBColor(int32(px[0]), int32(px[1]), int32(px[2]))
}

func (p *tcellPlatform) pushKeyEvent(ev *tcell.EventKey) {
	scan := createEventFromTCELL(ev)
	if scan == ScanInvalid {
		return
	}

	p.Lock()
	defer p.Unlock()

	if p.keyboardHandler == nil {
		return
	}

	// Auto repeat only extends the hold.
	if t, ok := p.releaseTimers[scan]; ok {
		t.Reset(keyReleaseDelay)
		return
	}

	p.keyboardHandler(scan)
	p.releaseTimers[scan] = time.AfterFunc(keyReleaseDelay, func() {
		p.Lock()
		defer p.Unlock()

		delete(p.releaseTimers, scan)
		if p.keyboardHandler != nil {
			p.keyboardHandler(scan | KeyUpMask)
		}
	})
}

func createEventFromTCELL(ev *tcell.EventKey) Scancode {
	switch ev.Key() {
	case tcell.KeyEscape:
		return ScanEscape
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return ScanBackspace
	case tcell.KeyEnter:
		return ScanEnter
	case tcell.KeyUp:
		return ScanUp
	case tcell.KeyDown:
		return ScanDown
	case tcell.KeyLeft:
		return ScanLeft
	case tcell.KeyRight:
		return ScanRight
	case tcell.KeyRune:
		return RuneToScancode(ev.Rune())
	}
	return ScanInvalid
}
