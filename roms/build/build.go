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

package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/andreas-jonsson/virtualchip/emulator/rom"
)

var (
	outputFile = "default.ch8"
	inputFile  = "default.hex"
)

func init() {
	flag.StringVar(&outputFile, "out", outputFile, "")
	flag.StringVar(&inputFile, "in", inputFile, "")
}

func main() {
	flag.Parse()
	log.Print("Building: " + inputFile)

	fp, err := os.Open(inputFile)
	if err != nil {
		log.Print(err)
		os.Exit(-1)
	}
	defer fp.Close()

	program, err := assemble(fp)
	if err != nil {
		log.Print(err)
		os.Exit(-1)
	}

	if err := os.WriteFile(outputFile, program, 0644); err != nil {
		log.Print(err)
		os.Exit(-1)
	}
	log.Printf("Size: %d bytes", len(program))
}

// assemble reads whitespace separated hex opcodes. Anything after '#' is a comment.
func assemble(r io.Reader) ([]byte, error) {
	var out bytes.Buffer
	scanner := bufio.NewScanner(r)

	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}

		for _, word := range strings.Fields(text) {
			if len(word) != 4 {
				return nil, fmt.Errorf("line %d: opcode %q is not 4 hex digits", line, word)
			}
			b, err := hex.DecodeString(word)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			out.Write(b)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if out.Len() == 0 {
		return nil, rom.ErrEmptyProgram
	}
	if out.Len() > rom.MaxSize {
		return nil, fmt.Errorf("program is %d bytes, at most %d fit", out.Len(), rom.MaxSize)
	}
	return out.Bytes(), nil
}
