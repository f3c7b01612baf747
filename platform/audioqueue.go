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
	"encoding/binary"
	"sync"
)

// sampleQueue buffers unsigned 8-bit mono samples and reads them back as
// signed 16-bit little-endian stereo. It reads silence when it runs dry.
type sampleQueue struct {
	sync.Mutex
	buf []byte
	max int
}

func (q *sampleQueue) push(samples []byte) {
	q.Lock()
	defer q.Unlock()

	q.buf = append(q.buf, samples...)
	if q.max > 0 && len(q.buf) > q.max {
		q.buf = append(q.buf[:0], q.buf[len(q.buf)-q.max:]...)
	}
}

func (q *sampleQueue) clear() {
	q.Lock()
	q.buf = q.buf[:0]
	q.Unlock()
}

func (q *sampleQueue) Read(p []byte) (int, error) {
	q.Lock()
	defer q.Unlock()

	n := len(p) &^ 3
	i := 0
	for ; i < n && len(q.buf) > 0; i += 4 {
		v := uint16(int16(int(q.buf[0])-0x80) << 8)
		binary.LittleEndian.PutUint16(p[i:], v)
		binary.LittleEndian.PutUint16(p[i+2:], v)
		q.buf = q.buf[1:]
	}
	for ; i < n; i++ {
		p[i] = 0
	}
	if len(q.buf) == 0 {
		q.buf = nil
	}
	return n, nil
}
