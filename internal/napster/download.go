package napster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/WendelHime/napcheck/internal/decoder"
	"github.com/WendelHime/napcheck/internal/shared/models"
)

var ErrDownloadDeclined = errors.New("download declined")

// RequestDownload asks the server where path owned by username can be
// fetched from.
func (c *client) RequestDownload(ctx context.Context, username, path string) (models.DownloadGrant, error) {
	payload := fmt.Sprintf("%s \"%s\"", username, path)
	err := c.WriteFrame(ctx, models.NewTextFrame(models.OpDownloadGet, payload))
	if err != nil {
		return models.DownloadGrant{}, err
	}

	frame, err := c.ReadUntil(ctx, models.OpDownloadGrant, models.OpDownloadDeny)
	if err != nil {
		return models.DownloadGrant{}, err
	}
	if frame.Opcode == models.OpDownloadDeny {
		return models.DownloadGrant{}, ErrDownloadDeclined
	}

	text, err := frame.Text()
	if err != nil {
		return models.DownloadGrant{}, err
	}

	grant, err := decoder.DecodeGrant(text)
	if err != nil {
		return models.DownloadGrant{}, err
	}

	c.log.Info("download granted", slog.String("peer", grant.Username), slog.String("address", grant.Addr.String()), slog.String("linespeed", grant.Linespeed))
	return grant, nil
}
