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

package rom

import (
	"errors"
	"fmt"
	"os"

	"github.com/andreas-jonsson/virtualchip/emulator/memory"
	"github.com/spf13/afero"
)

const MaxSize = memory.Size - memory.ProgramStart

var ErrEmptyProgram = errors.New("program is empty")

// Load reads a program image from fs and checks that it fits above ProgramStart.
func Load(fs afero.Fs, name string) ([]byte, error) {
	if ok, err := afero.Exists(fs, name); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("could not find program %q: %w", name, os.ErrNotExist)
	}

	fp, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	data, err := afero.ReadAll(fp)
	if err != nil {
		return nil, err
	}

	switch {
	case len(data) == 0:
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyProgram)
	case len(data) > MaxSize:
		return nil, fmt.Errorf("%s is %d bytes, at most %d fit: %w", name, len(data), MaxSize, memory.ErrProgramTooLarge)
	}
	return data, nil
}
