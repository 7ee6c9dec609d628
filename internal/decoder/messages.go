package decoder

import (
	"fmt"
	"strconv"

	"github.com/WendelHime/napcheck/internal/shared/models"
)

// DecodeFileEntry parses a browse response:
// owner "path" md5 size bitrate frequency duration
func DecodeFileEntry(payload string) (models.FileEntry, error) {
	fields, err := tokenizeN(payload, 7)
	if err != nil {
		return models.FileEntry{}, err
	}

	return models.FileEntry{
		Owner:     fields[0],
		Path:      fields[1],
		MD5:       fields[2],
		Size:      fields[3],
		Bitrate:   fields[4],
		Frequency: fields[5],
		Duration:  fields[6],
	}, nil
}

// DecodeGrant parses a download grant:
// username ip port "filename" md5 linespeed
func DecodeGrant(payload string) (models.DownloadGrant, error) {
	fields, err := tokenizeN(payload, 6)
	if err != nil {
		return models.DownloadGrant{}, err
	}

	ip, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return models.DownloadGrant{}, fmt.Errorf("%w: invalid peer ip %q", models.ErrProtocolViolation, fields[1])
	}
	port, err := strconv.ParseUint(fields[2], 10, 16)
	if err != nil {
		return models.DownloadGrant{}, fmt.Errorf("%w: invalid peer port %q", models.ErrProtocolViolation, fields[2])
	}

	grant := models.DownloadGrant{
		Username:  fields[0],
		Filename:  fields[3],
		MD5:       fields[4],
		Linespeed: fields[5],
	}
	grant.Addr.ReadFromUint32(uint32(ip), uint16(port))

	return grant, nil
}
