package napster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/WendelHime/napcheck/internal/shared/models"
)

var (
	ErrUsernameRejected = errors.New("username rejected")
	ErrLoginRejected    = errors.New("login rejected")
)

// CreateAccount asks the server whether username is free to register.
func (c *client) CreateAccount(ctx context.Context, username string) error {
	err := c.WriteFrame(ctx, models.NewTextFrame(models.OpMakeUser, username))
	if err != nil {
		return err
	}

	resp, err := c.ReadFrame(ctx)
	if err != nil {
		return err
	}
	if resp.Opcode != models.OpUsernameOK {
		return fmt.Errorf("%w: server answered %s", ErrUsernameRejected, resp.Opcode)
	}

	c.log.Info("username available", slog.String("username", username))
	return nil
}

func (c *client) Login(ctx context.Context, session models.Session, clientInfo string) error {
	payload := fmt.Sprintf("%s %s %d \"%s\" 0", session.Username, session.Password, session.DataPort, clientInfo)
	err := c.WriteFrame(ctx, models.NewTextFrame(models.OpLogin, payload))
	if err != nil {
		return err
	}

	resp, err := c.ReadFrame(ctx)
	if err != nil {
		return err
	}
	if resp.Opcode != models.OpLoginSuccess {
		return fmt.Errorf("%w: server answered %s", ErrLoginRejected, resp.Opcode)
	}

	c.log.Info("login ok", slog.Any("session", session))
	return nil
}
