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

package debug

import (
	"flag"
	"io"
	"log"
	"os"
)

var logFile string

func init() {
	flag.StringVar(&logFile, "log", "", "Write log output to file")
}

func MuteLogging(b bool) {
	if b {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
	}
}

// SetupLogging sends the log to the -log file if one is given. Otherwise the
// log is muted when mute is set, which is what the terminal front end needs.
func SetupLogging(mute bool) (io.Closer, error) {
	if logFile == "" {
		MuteLogging(mute)
		return io.NopCloser(nil), nil
	}

	fp, err := os.Create(logFile)
	if err != nil {
		return nil, err
	}
	log.SetOutput(fp)
	return fp, nil
}
