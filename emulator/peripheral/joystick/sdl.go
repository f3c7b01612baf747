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

package joystick

import (
	"log"
	"time"

	"github.com/veandco/go-sdl2/sdl"
)

func (m *Device) startPolling() error {
	var (
		err   error
		stick *sdl.Joystick
	)

	sdl.Do(func() {
		if err = sdl.InitSubSystem(sdl.INIT_JOYSTICK); err != nil {
			return
		}
		if sdl.NumJoysticks() == 0 {
			log.Print("No joystick's found!")
			sdl.QuitSubSystem(sdl.INIT_JOYSTICK)
			return
		}

		stick = sdl.JoystickOpen(0)
		log.Printf("Joystick: %s", stick.Name())
	})
	if err != nil || stick == nil {
		return err
	}

	m.quitChan = make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Second / 60)
		defer ticker.Stop()

		for {
			select {
			case <-m.quitChan:
				sdl.Do(func() {
					if stick.Attached() {
						stick.Close()
					}
					sdl.QuitSubSystem(sdl.INIT_JOYSTICK)
				})
				close(m.quitChan)
				return
			case <-ticker.C:
				var s State
				sdl.Do(func() {
					sdl.JoystickUpdate()
					if stick.Attached() {
						s.X, s.Y = stick.Axis(0), stick.Axis(1)
						s.Buttons = stick.Button(0) | (stick.Button(1) << 1)
					}
				})
				m.setState(s)
			}
		}
	}()
	return nil
}
