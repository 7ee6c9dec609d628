package models

import (
	"fmt"
	"log/slog"
	"strconv"
)

// FileEntry is one shared file as reported by a browse response.
type FileEntry struct {
	Owner     string
	Path      string
	MD5       string
	Size      string
	Bitrate   string
	Frequency string
	Duration  string
}

// Length parses the decimal size string.
func (e FileEntry) Length() (int64, error) {
	n, err := strconv.ParseInt(e.Size, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid file size %q", e.Size)
	}
	return n, nil
}

// FileList maps a shared path to the last entry seen for it.
type FileList map[string]FileEntry

// DownloadGrant is the server's answer to a download request: where the
// owner's peer listens and what it claims to serve.
type DownloadGrant struct {
	Username  string
	Addr      Addr
	Filename  string
	MD5       string
	Linespeed string
}

type Session struct {
	Username string
	Password string
	DataPort int
}

// LogValue leaves the password out of every log record.
func (s Session) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("username", s.Username),
		slog.Int("data_port", s.DataPort),
	)
}
