package logic

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"log/slog"

	"github.com/WendelHime/napcheck/internal/metaserver"
	"github.com/WendelHime/napcheck/internal/napster"
	"github.com/WendelHime/napcheck/internal/p2p"
	"github.com/WendelHime/napcheck/internal/shared/models"
)

// Checker runs the end to end check: log in, browse the target user, fetch
// the target file from its owner and verify it.
type Checker interface {
	Check(ctx context.Context) Result
}

var (
	ErrTargetNotFound = errors.New("target file not found")
	ErrServerChanged  = fmt.Errorf("%w: metaserver address changed", models.ErrProtocolViolation)
)

type checker struct {
	cfg       Config
	resolver  metaserver.Resolver
	expected  string
	newServer func() napster.NapClient
	newPeer   func() p2p.PeerClient
	log       *slog.Logger
}

func NewChecker(cfg Config, logger *slog.Logger) Checker {
	resolver := metaserver.Static(cfg.Server)
	expected := ""
	if cfg.Server == "" {
		resolver = metaserver.NewResolver(cfg.Metaserver, cfg.IOTimeout, logger)
		expected = cfg.ExpectedServer
	}

	return &checker{
		cfg:      cfg,
		resolver: resolver,
		expected: expected,
		newServer: func() napster.NapClient {
			return napster.NewClient(cfg.IOTimeout, logger)
		},
		newPeer: func() p2p.PeerClient {
			return p2p.NewClient(cfg.IOTimeout, cfg.Progress, logger)
		},
		log: logger,
	}
}

func (c *checker) Check(ctx context.Context) Result {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	result := c.check(ctx)
	if result.Err != nil {
		c.log.Error("check failed", slog.String("status", result.Status.String()), slog.Any("error", result.Err))
	} else {
		c.log.Info("check passed")
	}
	return result
}

func (c *checker) check(ctx context.Context) Result {
	session, err := newSession(c.cfg.Username, c.cfg.DataPort)
	if err != nil {
		return Result{Status: StatusAborted, Err: err}
	}

	server := c.newServer()
	defer server.Disconnect()

	err = c.login(ctx, server, session)
	if err != nil {
		return classify(phaseLogin, err)
	}

	c.log.Info("browsing files", slog.String("user", c.cfg.TargetUser))
	files, err := server.Browse(ctx, c.cfg.TargetUser)
	if err != nil {
		return classify(phaseBrowse, err)
	}

	entry, ok := files[c.cfg.TargetPath]
	if !ok {
		return classify(phaseBrowse, fmt.Errorf("%w: %s not shared by %s", ErrTargetNotFound, c.cfg.TargetPath, c.cfg.TargetUser))
	}

	err = c.download(ctx, server, session, entry)
	if err != nil {
		return classify(phaseDownload, err)
	}

	return Result{Status: StatusOK}
}

func (c *checker) login(ctx context.Context, server napster.NapClient, session models.Session) error {
	address, err := c.resolver.Resolve(ctx)
	if err != nil {
		return err
	}
	if c.expected != "" && address != c.expected {
		return fmt.Errorf("%w: expected %s, got %s", ErrServerChanged, c.expected, address)
	}

	c.log.Info("connecting to server", slog.String("server", address))
	err = server.Connect(ctx, address)
	if err != nil {
		return err
	}

	err = server.CreateAccount(ctx, session.Username)
	if err != nil {
		return err
	}

	return server.Login(ctx, session, c.cfg.ClientInfo)
}

func (c *checker) download(ctx context.Context, server napster.NapClient, session models.Session, entry models.FileEntry) error {
	size, err := entry.Length()
	if err != nil {
		return err
	}

	grant, err := server.RequestDownload(ctx, c.cfg.TargetUser, c.cfg.TargetPath)
	if err != nil {
		return err
	}

	peer := c.newPeer()
	c.log.Info("connecting to peer", slog.String("peer", grant.Username), slog.String("address", grant.Addr.String()))
	err = peer.Connect(ctx, grant.Addr)
	if err != nil {
		return err
	}
	defer peer.Disconnect()

	err = peer.Handshake(ctx, session.Username, c.cfg.TargetPath)
	if err != nil {
		return err
	}

	err = peer.ReadSize(ctx, entry.Size)
	if err != nil {
		return err
	}

	hash := md5.New()
	err = peer.ReadFile(ctx, hash, size)
	if err != nil {
		return err
	}

	return Verify(hash.Sum(nil), c.cfg.ExpectedMD5)
}
