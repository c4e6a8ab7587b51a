package allowlist

import (
	"log/slog"
	"strings"

	"ZapRelay/internal/config"
	"ZapRelay/internal/lib/sl"
	"ZapRelay/internal/locale"
)

// Service answers whether an inbound sender JID is on the configured
// allow-list. The list is loaded once at startup and read-only after.
type Service struct {
	numbers map[string]struct{}
	log     *slog.Logger
}

func NewService(conf *config.Config, logger *slog.Logger) *Service {
	numbers := make(map[string]struct{}, len(conf.Authorized))
	for _, number := range conf.Authorized {
		if number != "" {
			numbers[number] = struct{}{}
		}
	}
	return &Service{
		numbers: numbers,
		log:     logger.With(sl.Module("allowlist")),
	}
}

// IsAuthorized extracts the numeric part before the @ in the JID and
// checks set membership (exact match, no normalization). Malformed JIDs
// are treated as unauthorized, never as errors.
func (s *Service) IsAuthorized(senderJid string) bool {
	number, _, found := strings.Cut(senderJid, "@")
	if !found || number == "" {
		s.log.With(
			slog.String("jid", senderJid),
		).Warn("malformed sender jid")
		return false
	}

	if _, ok := s.numbers[number]; ok {
		return true
	}

	s.log.Warn(locale.Format(locale.KeyLogUnauthorizedNumber, "Log message missing",
		map[string]string{"number": number}))
	return false
}
