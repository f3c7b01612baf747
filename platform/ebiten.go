//go:build ebiten && !sdl

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
	"flag"
	"log"
	"sync"
	"time"

	"github.com/andreas-jonsson/virtualchip/platform/dialog"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/afero"
)

var windowScale = 10

const (
	audioFrequency = 48000
	audioSamples   = 512
	audioLatency   = 20 * time.Millisecond
)

func init() {
	flag.IntVar(&windowScale, "scale", windowScale, "Window scale factor")
}

var ebitenKeys = map[ebiten.Key]Scancode{
	ebiten.KeyEscape:     ScanEscape,
	ebiten.KeyBackspace:  ScanBackspace,
	ebiten.KeyEnter:      ScanEnter,
	ebiten.KeySpace:      ScanSpace,
	ebiten.KeyArrowUp:    ScanUp,
	ebiten.KeyArrowDown:  ScanDown,
	ebiten.KeyArrowLeft:  ScanLeft,
	ebiten.KeyArrowRight: ScanRight,
}

func init() {
	for i := 0; i < 10; i++ {
		ebitenKeys[ebiten.KeyDigit0+ebiten.Key(i)] = Scan0 + Scancode(i)
	}
	for i := 0; i < 26; i++ {
		ebitenKeys[ebiten.KeyA+ebiten.Key(i)] = ScanA + Scancode(i)
	}
}

type ebitenPlatform struct {
	sync.Mutex

	fileSystem afero.Fs

	frame         []byte
	width, height int
	image         *ebiten.Image

	windowSizeX, windowSizeY int
	done                     chan struct{}
	keyboardHandler          func(Scancode)

	wantAudio bool
	player    *audio.Player
	samples   sampleQueue
}

var ebitenPlatformInstance ebitenPlatform

func ConfigWithWindowSize(w, h int) Config {
	return func(p internalPlatform) error {
		if ep, ok := p.(*ebitenPlatform); ok {
			ep.windowSizeX, ep.windowSizeY = w, h
		}
		return nil
	}
}

func ConfigWithAudio(p internalPlatform) error {
	if ep, ok := p.(*ebitenPlatform); ok {
		ep.wantAudio = true
	}
	return nil
}

func TextMode() bool {
	f := flag.Lookup("text")
	return f != nil && f.Value.(flag.Getter).Get().(bool)
}

func Start(mainLoop func(Platform), configs ...Config) {
	if TextMode() {
		tcellStart(mainLoop)
		return
	}

	p := &ebitenPlatformInstance
	p.windowSizeX = 64 * windowScale
	p.windowSizeY = 32 * windowScale
	p.width, p.height = 64, 32
	p.fileSystem = afero.NewOsFs()
	p.done = make(chan struct{})

	for _, cfg := range configs {
		if err := cfg(p); err != nil {
			log.Fatal(err)
		}
	}

	if p.wantAudio {
		p.openAudio()
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(p.windowSizeX, p.windowSizeY)
	ebiten.SetWindowTitle("VirtualChip")
	ebiten.SetWindowClosingHandled(true)

	Instance = p
	go func() {
		defer close(p.done)
		mainLoop(p)
	}()

	if err := ebiten.RunGame(p); err != nil {
		log.Print(err)
	}
	dialog.Quit()
	<-p.done
}

func (p *ebitenPlatform) openAudio() {
	p.samples.max = audioFrequency / 4

	ctx := audio.NewContext(audioFrequency)
	player, err := ctx.NewPlayer(&p.samples)
	if err != nil {
		log.Print("Could not open audio device: ", err)
		return
	}
	player.SetBufferSize(audioLatency)
	p.player = player
}

func (p *ebitenPlatform) Update() error {
	select {
	case <-p.done:
		return ebiten.Termination
	default:
	}

	if ebiten.IsWindowBeingClosed() {
		dialog.Quit()
	}

	p.Lock()
	h := p.keyboardHandler
	p.Unlock()
	if h == nil {
		return nil
	}

	for k, scan := range ebitenKeys {
		if inpututil.IsKeyJustPressed(k) {
			h(scan)
		} else if inpututil.IsKeyJustReleased(k) {
			h(scan | KeyUpMask)
		}
	}
	return nil
}

func (p *ebitenPlatform) Draw(screen *ebiten.Image) {
	p.Lock()
	defer p.Unlock()

	if len(p.frame) == 0 {
		return
	}
	if p.image == nil || p.image.Bounds().Dx() != p.width || p.image.Bounds().Dy() != p.height {
		p.image = ebiten.NewImage(p.width, p.height)
	}
	p.image.WritePixels(p.frame)
	screen.DrawImage(p.image, nil)
}

func (p *ebitenPlatform) Layout(outsideWidth, outsideHeight int) (int, int) {
	p.Lock()
	defer p.Unlock()
	return p.width, p.height
}

func (p *ebitenPlatform) FileSystem() afero.Fs {
	return p.fileSystem
}

func (p *ebitenPlatform) HasAudio() bool {
	return p.player != nil
}

func (p *ebitenPlatform) RenderGraphics(backBuffer []byte, width, height int) {
	if len(backBuffer) != width*height*4 {
		log.Panic("invalid back buffer size")
	}

	p.Lock()
	p.frame = append(p.frame[:0], backBuffer...)
	p.width, p.height = width, height
	p.Unlock()
}

func (p *ebitenPlatform) SetTitle(title string) {
	ebiten.SetWindowTitle(title)
}

func (p *ebitenPlatform) QueueAudio(soundBuffer []byte) {
	if p.HasAudio() {
		p.samples.push(soundBuffer)
	}
}

func (p *ebitenPlatform) AudioSpec() AudioSpec {
	if !p.HasAudio() {
		return AudioSpec{}
	}
	return AudioSpec{
		Freq:     audioFrequency,
		Channels: 1,
		Samples:  audioSamples,
	}
}

func (p *ebitenPlatform) EnableAudio(b bool) {
	if !p.HasAudio() {
		return
	}
	p.samples.clear()
	if b {
		p.player.Play()
	} else {
		p.player.Pause()
	}
}

func (p *ebitenPlatform) SetKeyboardHandler(h func(Scancode)) {
	p.Lock()
	p.keyboardHandler = h
	p.Unlock()
}
