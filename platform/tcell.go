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
	"sync"
	"time"

	"github.com/gdamore/tcell"
	"github.com/spf13/afero"
)

// Terminals only report key presses, so a release is synthesized once a key has not
// repeated for this long.
const keyReleaseDelay = 150 * time.Millisecond

type tcellPlatform struct {
	sync.Mutex

	screen     tcell.Screen
	fileSystem afero.Fs

	frame         []byte
	width, height int

	releaseTimers   map[Scancode]*time.Timer
	keyboardHandler func(Scancode)
}

var tcellPlatformInstance tcellPlatform

type frameEvent struct{}

func tcellStart(mainLoop func(Platform), configs ...Config) {
	p := &tcellPlatformInstance
	for _, cfg := range configs {
		if err := cfg(p); err != nil {
			log.Fatal(err)
		}
	}

	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)

	var err error
	if p.screen, err = tcell.NewScreen(); err != nil {
		log.Fatal(err)
	}

	p.fileSystem = afero.NewOsFs()
	p.releaseTimers = make(map[Scancode]*time.Timer)
	Instance = p
	s := p.screen

	if err = s.Init(); err != nil {
		log.Fatal(err)
	}
	defer s.Fini()

	s.HideCursor()
	s.DisableMouse()
	s.Clear()

	if err := p.initializeTcellEvents(); err != nil {
		log.Fatal(err)
	}
	mainLoop(Instance)
}

func (p *tcellPlatform) FileSystem() afero.Fs {
	return p.fileSystem
}

func (p *tcellPlatform) HasAudio() bool {
	return false
}

func (p *tcellPlatform) RenderGraphics(backBuffer []byte, width, height int) {
	if len(backBuffer) != width*height*4 {
		log.Panic("invalid back buffer size")
	}

	p.Lock()
	p.frame = append(p.frame[:0], backBuffer...)
	p.width, p.height = width, height
	p.Unlock()
	p.screen.PostEvent(tcell.NewEventInterrupt(frameEvent{}))
}

func (p *tcellPlatform) SetTitle(title string) {
}

func (p *tcellPlatform) QueueAudio(soundBuffer []byte) {
}

func (p *tcellPlatform) AudioSpec() AudioSpec {
	return AudioSpec{}
}

func (p *tcellPlatform) EnableAudio(b bool) {
}

func (p *tcellPlatform) SetKeyboardHandler(h func(Scancode)) {
	p.Lock()
	p.keyboardHandler = h
	p.Unlock()
}
