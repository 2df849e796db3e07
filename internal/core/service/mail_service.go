package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mci/portal-api/internal/core/domain"
	"github.com/mci/portal-api/internal/core/ports"
)

// MailService fills in the sender address and hands the message to the relay.
// Failures are logged and reported once; there are no retries.
type MailService struct {
	mailer ports.Mailer
	from   string
	log    zerolog.Logger
}

func NewMailService(mailer ports.Mailer, from string, log zerolog.Logger) *MailService {
	return &MailService{mailer: mailer, from: from, log: log}
}

func (s *MailService) Send(ctx context.Context, msg ports.MailMessage) error {
	if msg.From == "" {
		msg.From = s.from
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Error().
			Err(err).
			Strs("to", msg.To).
			Str("subject", msg.Subject).
			Msg("email dispatch failed")
		return fmt.Errorf("%w: %v", domain.ErrMailRelay, err)
	}

	s.log.Info().
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Msg("email dispatched")
	return nil
}
