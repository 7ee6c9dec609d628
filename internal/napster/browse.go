package napster

import (
	"context"
	"log/slog"

	"github.com/WendelHime/napcheck/internal/decoder"
	"github.com/WendelHime/napcheck/internal/shared/models"
)

// Browse lists the files username shares. The server streams one RBROWSE
// per file and closes the listing with DBROWSE.
func (c *client) Browse(ctx context.Context, username string) (models.FileList, error) {
	err := c.WriteFrame(ctx, models.NewTextFrame(models.OpBrowse, username))
	if err != nil {
		return nil, err
	}

	files := make(models.FileList)
	for {
		frame, err := c.ReadUntil(ctx, models.OpBrowseEntry, models.OpBrowseEnd)
		if err != nil {
			return nil, err
		}

		text, err := frame.Text()
		if err != nil {
			return nil, err
		}

		if frame.Opcode == models.OpBrowseEnd {
			c.log.Info("end of browse", slog.String("user", username), slog.String("info", text), slog.Int("files", len(files)))
			return files, nil
		}

		entry, err := decoder.DecodeFileEntry(text)
		if err != nil {
			return nil, err
		}
		files[entry.Path] = entry
	}
}
