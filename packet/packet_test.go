// This file is part of armdbgstub.
//
// armdbgstub is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// armdbgstub is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with armdbgstub.  If not, see <https://www.gnu.org/licenses/>.

package packet_test

import (
	"testing"

	"armdbgstub/packet"
	"armdbgstub/test"
)

// fakeTransport feeds bytes from in one at a time and records every byte
// (or buffer) written to out.
type fakeTransport struct {
	in  []byte
	pos int
	out []byte
}

func (f *fakeTransport) ReadByte(b *byte) bool {
	if f.pos >= len(f.in) {
		return false
	}
	*b = f.in[f.pos]
	f.pos++
	return true
}

func (f *fakeTransport) WriteByte(b byte)     { f.out = append(f.out, b) }
func (f *fakeTransport) WriteData(buf []byte) { f.out = append(f.out, buf...) }
func (f *fakeTransport) Poll()                {}

func TestReceiveGoodChecksum(t *testing.T) {
	// $OK#9A decodes to "OK" and is acked.
	tr := &fakeTransport{in: []byte("$OK#9a")}

	payload := packet.Receive(tr)
	test.ExpectEquality(t, string(payload), "OK")
	test.ExpectEquality(t, string(tr.out), "+")
}

func TestReceiveBadChecksumThenRetry(t *testing.T) {
	// $OK#00 (wrong) is NAKed, then $OK#9a (correct) is ACKed.
	tr := &fakeTransport{in: []byte("$OK#00$OK#9a")}

	payload := packet.Receive(tr)
	test.ExpectEquality(t, string(payload), "OK")
	test.ExpectEquality(t, string(tr.out), "-+")
}

func TestReceiveRestartsOnEmbeddedDollar(t *testing.T) {
	tr := &fakeTransport{in: []byte("$gar$OK#9a")}

	payload := packet.Receive(tr)
	test.ExpectEquality(t, string(payload), "OK")
}

func TestReceiveStripsSequenceID(t *testing.T) {
	body := []byte("g")
	var sum byte
	sum += '0'
	sum += '1'
	sum += ':'
	for _, b := range body {
		sum += b
	}

	frame := []byte("$01:g#")
	frame = append(frame, "0123456789abcdef"[sum>>4])
	frame = append(frame, "0123456789abcdef"[sum&0xf])

	tr := &fakeTransport{in: frame}
	payload := packet.Receive(tr)

	test.ExpectEquality(t, string(payload), "g")
	test.ExpectEquality(t, string(tr.out), "+01")
}

func TestSendRetransmitsOnNak(t *testing.T) {
	tr := &fakeTransport{in: []byte("-+")}
	packet.Send(tr, []byte("OK"))

	// two full frames were written before the final ack was consumed
	test.ExpectEquality(t, string(tr.out), "$OK#9a$OK#9a")
}

func TestEscapeDecode(t *testing.T) {
	// the byte after 0x7d is XORed with 0x20: a literal 0x03 travels as
	// 0x7d then 0x03^0x20=0x23
	src := []byte{0x01, 0x7d, 0x23, 0x02}
	decoded, consumed := packet.EscapeDecode(src, 3)

	test.ExpectEquality(t, len(decoded), 3)
	test.ExpectEquality(t, decoded[0], byte(0x01))
	test.ExpectEquality(t, decoded[1], byte(0x03))
	test.ExpectEquality(t, decoded[2], byte(0x02))
	test.ExpectEquality(t, consumed, 4)
}

func TestHexRoundTrip(t *testing.T) {
	src := []byte{0xde, 0xad, 0xbe, 0xef}
	encoded := packet.HexEncode(nil, src)
	test.ExpectEquality(t, string(encoded), "deadbeef")

	decoded, consumed, ok := packet.HexDecode(encoded, len(src))
	test.ExpectEquality(t, ok, true)
	test.ExpectEquality(t, consumed, len(encoded))
	test.ExpectEquality(t, string(decoded), string(src))
}

func TestHexToUint32(t *testing.T) {
	value, consumed := packet.HexToUint32([]byte("02000100,4"))
	test.ExpectEquality(t, value, uint32(0x02000100))
	test.ExpectEquality(t, consumed, 8)
}
