//go:build sdl

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
	"log"
	"time"

	"github.com/andreas-jonsson/virtualchip/platform/dialog"
	"github.com/veandco/go-sdl2/sdl"
)

func (p *sdlPlatform) initializeSDLEvents() error {
	var err error
	sdl.Do(func() {
		err = sdl.InitSubSystem(sdl.INIT_EVENTS)
	})
	if err != nil {
		return err
	}

	p.quitChan = make(chan struct{})
	registerCleanup(p, shutdownSDLEvents)

	go func() {
		ticker := time.NewTicker(time.Second / 60)
		defer ticker.Stop()

		for {
			select {
			case <-p.quitChan:
				close(p.quitChan)
				return
			case <-ticker.C:
				sdl.Do(func() {
					for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
						switch ev := event.(type) {
						case *sdl.QuitEvent:
							dialog.Quit()
						case *sdl.KeyboardEvent:
							p.sdlProcessKey(ev)
						}
					}
				})
			}
		}
	}()
	return nil
}

func shutdownSDLEvents(p *sdlPlatform) {
	p.quitChan <- struct{}{}
	<-p.quitChan
	sdl.Do(func() {
		sdl.QuitSubSystem(sdl.INIT_EVENTS)
	})
}

func (p *sdlPlatform) sdlProcessKey(ev *sdl.KeyboardEvent) {
	if ev.Repeat != 0 {
		return
	}

	keyUp := ev.Type == sdl.KEYUP
	if ev.Keysym.Scancode == sdl.SCANCODE_F11 {
		if keyUp {
			if (p.window.GetFlags() & sdl.WINDOW_FULLSCREEN) != 0 {
				p.window.SetFullscreen(0)
			} else {
				p.window.SetFullscreen(sdl.WINDOW_FULLSCREEN_DESKTOP)
			}
		}
	} else if scan := sdlScanToScancode(ev.Keysym.Scancode); scan != ScanInvalid {
		if p.keyboardHandler == nil {
			return
		}
		if keyUp {
			scan |= KeyUpMask
		}
		p.keyboardHandler(scan)
	} else if !keyUp {
		log.Printf("Invalid key \"%s\"", sdl.GetKeyName(ev.Keysym.Sym))
	}
}

func (p *sdlPlatform) SetKeyboardHandler(h func(Scancode)) {
	sdl.Do(func() {
		p.keyboardHandler = h
	})
}

func sdlScanToScancode(scan sdl.Scancode) Scancode {
	switch {
	case scan >= sdl.SCANCODE_A && scan <= sdl.SCANCODE_Z:
		return ScanA + Scancode(scan-sdl.SCANCODE_A)
	case scan >= sdl.SCANCODE_1 && scan <= sdl.SCANCODE_9:
		return Scan1 + Scancode(scan-sdl.SCANCODE_1)
	}

	switch scan {
	case sdl.SCANCODE_0:
		return Scan0
	case sdl.SCANCODE_ESCAPE:
		return ScanEscape
	case sdl.SCANCODE_BACKSPACE:
		return ScanBackspace
	case sdl.SCANCODE_RETURN, sdl.SCANCODE_KP_ENTER:
		return ScanEnter
	case sdl.SCANCODE_SPACE:
		return ScanSpace
	case sdl.SCANCODE_UP:
		return ScanUp
	case sdl.SCANCODE_DOWN:
		return ScanDown
	case sdl.SCANCODE_LEFT:
		return ScanLeft
	case sdl.SCANCODE_RIGHT:
		return ScanRight
	default:
		return ScanInvalid
	}
}
