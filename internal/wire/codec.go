package wire

import (
	"errors"
	"fmt"
)

// Universal MIDI SysEx framing bytes (MIDI Universal Non-Realtime System
// Exclusive, "General Information" sub-ID). These are part of the MIDI
// spec itself, not vendor-specific.
const (
	sysExStart           byte = 0xF0
	sysExEnd             byte = 0xF7
	universalNonRealtime byte = 0x7E
	generalInformation   byte = 0x06
	inquiryRequestSubID  byte = 0x01
	inquiryReplySubID    byte = 0x02

	// BroadcastChannel is the "all channels" marker used in a Universal
	// Device Inquiry sent with no specific channel in mind.
	BroadcastChannel uint8 = 0x7F

	ccStatusMask byte = 0xB0
)

// Vendor-framed opcodes for the POD family's program-dump SysEx
// messages. Not part of any public MIDI registry.
const (
	opProgramPatchDump           byte = 0x01
	opProgramPatchDumpRequest    byte = 0x02
	opProgramEditBufferDump      byte = 0x23
	opProgramEditBufferDumpReq   byte = 0x24
)

// Line 6's registered 3-byte MIDI manufacturer ID. Used to frame every
// vendor SysEx this controller emits or expects.
var Line6VendorID = [3]byte{0x00, 0x01, 0x0C}

// Sentinel errors for malformed or unrecognized frames.
var (
	ErrShortFrame    = errors.New("wire: frame too short")
	ErrBadVendor     = errors.New("wire: unrecognized vendor ID")
	ErrUnknownOpcode = errors.New("wire: unknown SysEx opcode")
	ErrUnknownMessage = errors.New("wire: unrecognized message")
)

// BadLengthError reports a dump payload whose length didn't match the
// catalog's program_size/all_programs_size.
type BadLengthError struct {
	Expected, Got int
}

func (e *BadLengthError) Error() string {
	return fmt.Sprintf("wire: bad dump length: expected %d, got %d", e.Expected, e.Got)
}

// Codec encodes and decodes messages for one device family. It carries no
// mutable state; PodID is fixed at construction from the catalog entry
// being talked to.
type Codec struct {
	PodID       uint8
	ProgramSize int
}

// NewCodec builds a Codec bound to a catalog entry's pod_id and
// program_size, used to validate dump payload lengths on decode.
func NewCodec(podID uint8, programSize int) Codec {
	return Codec{PodID: podID, ProgramSize: programSize}
}

// ToBytes encodes msg as a raw MIDI frame ready to hand to an output port.
func (c Codec) ToBytes(msg Message) ([]byte, error) {
	switch m := msg.(type) {
	case ControlChange:
		return []byte{ccStatusMask | (m.Channel & 0x0F), m.Control & 0x7F, m.Value & 0x7F}, nil

	case UniversalDeviceInquiry:
		return []byte{sysExStart, universalNonRealtime, m.Channel, generalInformation, inquiryRequestSubID, sysExEnd}, nil

	case UniversalDeviceInquiryResponse:
		ver := padVersion(m.Version)
		b := []byte{sysExStart, universalNonRealtime, m.Channel, generalInformation, inquiryReplySubID}
		b = append(b, Line6VendorID[:]...)
		b = append(b, byte(m.Family&0xFF), byte(m.Family>>8))
		b = append(b, byte(m.Member&0xFF), byte(m.Member>>8))
		b = append(b, ver...)
		b = append(b, sysExEnd)
		return b, nil

	case ProgramEditBufferDump:
		b := vendorPrefix(c.PodID, opProgramEditBufferDump)
		b = append(b, m.Ver)
		b = append(b, m.Data...)
		b = append(b, sysExEnd)
		return b, nil

	case ProgramEditBufferDumpRequest:
		b := vendorPrefix(c.PodID, opProgramEditBufferDumpReq)
		b = append(b, sysExEnd)
		return b, nil

	case ProgramPatchDump:
		b := vendorPrefix(c.PodID, opProgramPatchDump)
		b = append(b, m.Patch, m.Ver)
		b = append(b, m.Data...)
		b = append(b, sysExEnd)
		return b, nil

	case ProgramPatchDumpRequest:
		b := vendorPrefix(c.PodID, opProgramPatchDumpRequest)
		b = append(b, m.Patch, sysExEnd)
		return b, nil

	default:
		return nil, fmt.Errorf("wire: unsupported message type %T", msg)
	}
}

func vendorPrefix(podID, opcode byte) []byte {
	b := []byte{sysExStart}
	b = append(b, Line6VendorID[:]...)
	return append(b, podID, opcode)
}

func padVersion(v string) []byte {
	out := make([]byte, 4)
	copy(out, v)
	for i := len(v); i < 4; i++ {
		out[i] = ' '
	}
	return out
}

// FromBytes decodes one raw MIDI frame. Malformed framing (too short,
// unrecognized vendor ID, unknown opcode) is reported via the sentinel
// errors above; a dump whose payload length doesn't match the catalog's
// program_size is reported via *BadLengthError.
func (c Codec) FromBytes(b []byte) (Message, error) {
	if len(b) < 1 {
		return nil, ErrShortFrame
	}

	switch {
	case b[0]&0xF0 == ccStatusMask:
		if len(b) < 3 {
			return nil, ErrShortFrame
		}
		return ControlChange{Channel: b[0] & 0x0F, Control: b[1] & 0x7F, Value: b[2] & 0x7F}, nil

	case b[0] == sysExStart:
		return c.decodeSysEx(b)

	default:
		return nil, ErrUnknownMessage
	}
}

func (c Codec) decodeSysEx(b []byte) (Message, error) {
	if len(b) < 2 {
		return nil, ErrShortFrame
	}
	body := b[1:]
	if len(body) > 0 && body[len(body)-1] == sysExEnd {
		body = body[:len(body)-1]
	}

	if len(body) >= 4 && body[0] == universalNonRealtime {
		return c.decodeUniversal(body)
	}

	if len(body) >= 4 &&
		body[0] == Line6VendorID[0] && body[1] == Line6VendorID[1] && body[2] == Line6VendorID[2] {
		return c.decodeVendor(body[3:])
	}

	return nil, ErrBadVendor
}

func (c Codec) decodeUniversal(body []byte) (Message, error) {
	channel := body[1]
	subID1 := body[2]
	subID2 := body[3]
	if subID1 != generalInformation {
		return nil, ErrUnknownOpcode
	}

	switch subID2 {
	case inquiryRequestSubID:
		return UniversalDeviceInquiry{Channel: channel}, nil

	case inquiryReplySubID:
		rest := body[4:]
		if len(rest) < 3+2+2+4 {
			return nil, ErrShortFrame
		}
		if rest[0] != Line6VendorID[0] || rest[1] != Line6VendorID[1] || rest[2] != Line6VendorID[2] {
			return nil, ErrBadVendor
		}
		family := uint16(rest[3]) | uint16(rest[4])<<8
		member := uint16(rest[5]) | uint16(rest[6])<<8
		version := string(rest[7:11])
		return UniversalDeviceInquiryResponse{
			Channel: channel,
			Family:  family,
			Member:  member,
			Version: version,
		}, nil

	default:
		return nil, ErrUnknownOpcode
	}
}

func (c Codec) decodeVendor(body []byte) (Message, error) {
	if len(body) < 2 {
		return nil, ErrShortFrame
	}
	podID := body[0]
	opcode := body[1]
	payload := body[2:]

	if podID != c.PodID {
		return nil, ErrBadVendor
	}

	switch opcode {
	case opProgramEditBufferDumpReq:
		return ProgramEditBufferDumpRequest{}, nil

	case opProgramEditBufferDump:
		if len(payload) < 1 {
			return nil, ErrShortFrame
		}
		ver := payload[0]
		data := payload[1:]
		if c.ProgramSize > 0 && len(data) != c.ProgramSize {
			return nil, &BadLengthError{Expected: c.ProgramSize, Got: len(data)}
		}
		return ProgramEditBufferDump{Ver: ver, Data: data}, nil

	case opProgramPatchDumpRequest:
		if len(payload) < 1 {
			return nil, ErrShortFrame
		}
		return ProgramPatchDumpRequest{Patch: payload[0]}, nil

	case opProgramPatchDump:
		if len(payload) < 2 {
			return nil, ErrShortFrame
		}
		patch := payload[0]
		ver := payload[1]
		data := payload[2:]
		if c.ProgramSize > 0 && len(data) != c.ProgramSize {
			return nil, &BadLengthError{Expected: c.ProgramSize, Got: len(data)}
		}
		return ProgramPatchDump{Patch: patch, Ver: ver, Data: data}, nil

	default:
		return nil, ErrUnknownOpcode
	}
}
