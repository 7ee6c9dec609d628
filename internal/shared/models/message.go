package models

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

type Opcode uint16

const (
	OpLogin         Opcode = 0x02
	OpLoginSuccess  Opcode = 0x03
	OpMakeUser      Opcode = 0x07
	OpUsernameOK    Opcode = 0x08
	OpDownloadGet   Opcode = 0xCB
	OpDownloadGrant Opcode = 0xCC
	OpTell          Opcode = 0xCD
	OpDownloadDeny  Opcode = 0xCE
	OpBrowse        Opcode = 0xD3
	OpBrowseEntry   Opcode = 0xD4
	OpBrowseEnd     Opcode = 0xD5
)

var opcodeNames = map[Opcode]string{
	OpLogin:         "LOGIN",
	OpLoginSuccess:  "LOGSUCCESS",
	OpMakeUser:      "MKUSER",
	OpUsernameOK:    "UNOK",
	OpDownloadGet:   "DGET",
	OpDownloadGrant: "SGET",
	OpTell:          "TELL",
	OpDownloadDeny:  "NGET",
	OpBrowse:        "BROWSE",
	OpBrowseEntry:   "RBROWSE",
	OpBrowseEnd:     "DBROWSE",
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("0x%04x", uint16(o))
}

// ErrProtocolViolation marks data from the server or a peer that breaks the
// protocol. Errors wrapping it are never retried.
var ErrProtocolViolation = errors.New("protocol violation")

// MaxPayload is the largest payload a frame header can describe.
const MaxPayload = 0xFFFF

type Frame struct {
	Opcode  Opcode
	Payload []byte
}

func NewTextFrame(op Opcode, text string) Frame {
	return Frame{Opcode: op, Payload: []byte(text)}
}

// Text returns the payload as UTF-8 text.
func (f Frame) Text() (string, error) {
	if !utf8.Valid(f.Payload) {
		return "", fmt.Errorf("%w: %s payload is not valid utf-8", ErrProtocolViolation, f.Opcode)
	}
	return string(f.Payload), nil
}
