// Package aivdm reassembles multi-sentence AIVDM/AIVDO AIS sentences,
// de-armors the 6-bit payload, and decodes the resulting bit buffer
// into typed messages, grounded on original_source/driver_aivdm.c.
package aivdm

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrIncomplete is returned by Assembler.Feed while a multi-sentence
// message is still waiting for its remaining parts.
var ErrIncomplete = fmt.Errorf("aivdm: awaiting remaining sentences")

// ErrMalformed marks an AIVDM sentence that doesn't carry enough
// comma-separated fields to parse.
var ErrMalformed = fmt.Errorf("aivdm: malformed sentence")

const maxBits = 1024 * 6 // generous upper bound; longest AIS payload is well under this

// Assembler accumulates the 6-bit payload across one or more AIVDM
// sentences belonging to the same multi-part message. One Assembler
// is shared across an entire session; part==1 always resets it, so a
// single instance safely tracks whichever message is currently being
// assembled regardless of channel or sequence id.
type Assembler struct {
	bits    []byte // bit buffer, one bit per byte (0/1) for simplicity
	bitlen  int
	await   int
	part    int
	channel string
}

// NewAssembler returns an empty Assembler ready to accept sentences.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Reset discards any partially assembled message.
func (a *Assembler) Reset() {
	a.bits = a.bits[:0]
	a.bitlen = 0
	a.await = 0
	a.part = 0
}

// Feed consumes one complete AIVDM/AIVDO sentence, split on commas:
// fields[0] is the talker/type tag (with or without its leading '!'),
// and anything after the payload field (fill bits, checksum, line
// ending) is not parsed. It returns the fully reassembled Message once
// the final part of a multi-part group has arrived. Until then it
// returns ErrIncomplete.
func (a *Assembler) Feed(sentence []byte) (*Message, error) {
	fields := strings.Split(string(sentence), ",")
	// fields[0] = talker+type (e.g. "AIVDM"), [1]=await, [2]=part,
	// [3]=seq id, [4]=channel, [5]=payload, [6]=fillbits.
	if len(fields) < 6 {
		return nil, ErrMalformed
	}

	await, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, ErrMalformed
	}
	part, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, ErrMalformed
	}
	payload := fields[5]
	channel := fields[4]

	if part == 1 {
		a.bits = a.bits[:0]
		a.bitlen = 0
	}
	a.await = await
	a.part = part
	a.channel = channel

	for i := 0; i < len(payload); i++ {
		ch := dearmor(payload[i])
		for shift := 5; shift >= 0; shift-- {
			if a.bitlen >= maxBits {
				a.Reset()
				return nil, fmt.Errorf("aivdm: payload exceeds %d bits", maxBits)
			}
			a.bits = append(a.bits, (ch>>uint(shift))&1)
			a.bitlen++
		}
	}

	if part != await {
		return nil, ErrIncomplete
	}

	buf := packBits(a.bits)
	msg, err := Decode(buf, a.bitlen)
	a.Reset()
	if err != nil {
		return nil, err
	}
	if msg != nil {
		msg.Channel = channel
	}
	return msg, nil
}

// packBits folds a one-bit-per-byte buffer (MSB-first order as
// appended) into a real byte slice for bits.UBits/SBits consumption.
func packBits(oneBitPerByte []byte) []byte {
	n := (len(oneBitPerByte) + 7) / 8
	out := make([]byte, n)
	for i, b := range oneBitPerByte {
		if b != 0 {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}
