package napster

import (
	"context"
	"net"
	"testing"

	"github.com/WendelHime/napcheck/internal/shared/models"
	"github.com/stretchr/testify/assert"
)

func TestCreateAccount(t *testing.T) {
	var tests = []struct {
		name   string
		answer models.Opcode
		assert func(t *testing.T, err error)
	}{
		{
			name:   "username available",
			answer: models.OpUsernameOK,
			assert: func(t *testing.T, err error) {
				assert.Nil(t, err)
			},
		},
		{
			name:   "username taken",
			answer: 0x09,
			assert: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUsernameRejected)
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			c := newPipeClient(t, func(server net.Conn) {
				assert.Equal(t, "user42", expectFrame(t, server, models.OpMakeUser))
				sendFrame(server, tt.answer, "")
			})
			tt.assert(t, c.CreateAccount(context.Background(), "user42"))
		})
	}
}

func TestLogin(t *testing.T) {
	session := models.Session{Username: "user42", Password: "abcdEFGH", DataPort: 8080}
	var tests = []struct {
		name   string
		answer models.Opcode
		assert func(t *testing.T, err error)
	}{
		{
			name:   "login accepted",
			answer: models.OpLoginSuccess,
			assert: func(t *testing.T, err error) {
				assert.Nil(t, err)
			},
		},
		{
			name:   "login error",
			answer: 0x00,
			assert: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrLoginRejected)
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			c := newPipeClient(t, func(server net.Conn) {
				payload := expectFrame(t, server, models.OpLogin)
				assert.Equal(t, `user42 abcdEFGH 8080 "nooopster-v0.0.0" 0`, payload)
				sendFrame(server, tt.answer, "anon@napster.com")
			})
			tt.assert(t, c.Login(context.Background(), session, "nooopster-v0.0.0"))
		})
	}
}
