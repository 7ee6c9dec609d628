package logic

import (
	"io"
	"time"
)

// Config describes one check run.
type Config struct {
	// Metaserver is asked for the server address unless Server is set.
	Metaserver string
	Server     string
	// ExpectedServer, when set, must match what the metaserver answers. It
	// is ignored when Server is set.
	ExpectedServer string

	// Username is generated per run when empty.
	Username   string
	ClientInfo string
	DataPort   int

	TargetUser  string
	TargetPath  string
	ExpectedMD5 string

	// IOTimeout bounds every single network step, Timeout the whole run.
	IOTimeout time.Duration
	Timeout   time.Duration

	// Progress receives the download progress bar. Nil disables it.
	Progress io.Writer
}

func DefaultConfig() Config {
	return Config{
		Metaserver:     "192.168.5.1:8875",
		ExpectedServer: "192.168.5.1:8888",
		ClientInfo:     "nooopster-v0.0.0",
		DataPort:       8080,
		TargetUser:     "nooopster",
		TargetPath:     `\shared\nooopster`,
		ExpectedMD5:    "cc852cef3cc4bbfc993ba055cca437fc",
		IOTimeout:      30 * time.Second,
		Timeout:        2 * time.Minute,
	}
}
