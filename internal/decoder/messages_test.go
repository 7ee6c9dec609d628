package decoder

import (
	"net"
	"testing"

	"github.com/WendelHime/napcheck/internal/shared/models"
	"github.com/stretchr/testify/assert"
)

func TestDecodeFileEntry(t *testing.T) {
	var tests = []struct {
		name   string
		input  string
		assert func(t *testing.T, actual models.FileEntry, err error)
	}{
		{
			name:  "browse response with quoted path",
			input: `nooopster "\shared\nooopster" cc852cef3cc4bbfc993ba055cca437fc 1024 128 44100 60`,
			assert: func(t *testing.T, actual models.FileEntry, err error) {
				assert.Nil(t, err)
				assert.Equal(t, models.FileEntry{
					Owner:     "nooopster",
					Path:      `\shared\nooopster`,
					MD5:       "cc852cef3cc4bbfc993ba055cca437fc",
					Size:      "1024",
					Bitrate:   "128",
					Frequency: "44100",
					Duration:  "60",
				}, actual)
			},
		},
		{
			name:  "too few fields",
			input: `nooopster "\shared\nooopster" cc852cef3cc4bbfc993ba055cca437fc 1024`,
			assert: func(t *testing.T, actual models.FileEntry, err error) {
				assert.ErrorIs(t, err, models.ErrProtocolViolation)
			},
		},
		{
			name:  "too many fields",
			input: `a b c d e f g h`,
			assert: func(t *testing.T, actual models.FileEntry, err error) {
				assert.ErrorIs(t, err, models.ErrProtocolViolation)
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			actual, err := DecodeFileEntry(tt.input)
			tt.assert(t, actual, err)
		})
	}
}

func TestDecodeGrant(t *testing.T) {
	var tests = []struct {
		name   string
		input  string
		assert func(t *testing.T, actual models.DownloadGrant, err error)
	}{
		{
			name:  "grant with little endian ip",
			input: `nooopster 16885952 6699 "\shared\nooopster" cc852cef3cc4bbfc993ba055cca437fc 0`,
			assert: func(t *testing.T, actual models.DownloadGrant, err error) {
				assert.Nil(t, err)
				assert.Equal(t, "nooopster", actual.Username)
				assert.Equal(t, net.IPv4(192, 168, 1, 1), actual.Addr.IP)
				assert.Equal(t, 6699, int(actual.Addr.Port))
				assert.Equal(t, "192.168.1.1:6699", actual.Addr.String())
				assert.Equal(t, `\shared\nooopster`, actual.Filename)
				assert.Equal(t, "cc852cef3cc4bbfc993ba055cca437fc", actual.MD5)
				assert.Equal(t, "0", actual.Linespeed)
			},
		},
		{
			name:  "ip out of range",
			input: `nooopster 4294967296 6699 "\shared\nooopster" md5 0`,
			assert: func(t *testing.T, actual models.DownloadGrant, err error) {
				assert.ErrorIs(t, err, models.ErrProtocolViolation)
			},
		},
		{
			name:  "port is not a number",
			input: `nooopster 16885952 http "\shared\nooopster" md5 0`,
			assert: func(t *testing.T, actual models.DownloadGrant, err error) {
				assert.ErrorIs(t, err, models.ErrProtocolViolation)
			},
		},
		{
			name:  "missing linespeed",
			input: `nooopster 16885952 6699 "\shared\nooopster" md5`,
			assert: func(t *testing.T, actual models.DownloadGrant, err error) {
				assert.ErrorIs(t, err, models.ErrProtocolViolation)
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			actual, err := DecodeGrant(tt.input)
			tt.assert(t, actual, err)
		})
	}
}
