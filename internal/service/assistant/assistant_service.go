// Package assistant is the chatbot. It forwards the user's message to the
// text-generation provider and falls back to a canned apology when the
// provider is unreachable.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/avershin/flightledger/internal/domain"
)

const fallbackReply = "I'm sorry, I can't assist with that right now."

type AssistantUseCase interface {
	Reply(ctx context.Context, username, message string) (string, error)
}

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type AssistantService struct {
	completer Completer
	log       *slog.Logger
}

func NewAssistantService(completer Completer, log *slog.Logger) *AssistantService {
	if log == nil {
		log = slog.Default()
	}
	return &AssistantService{completer: completer, log: log}
}

// Reply answers the user's message. Provider failure is not the user's
// problem; they get the fallback text and the error stays in the log.
func (s *AssistantService) Reply(ctx context.Context, username, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("%w: message is required", domain.ErrValidation)
	}

	reply, err := s.completer.Complete(ctx, message)
	if err != nil {
		s.log.WarnContext(ctx, "chatbot completion failed", "user", username, "error", err)
		return fallbackReply, nil
	}

	s.log.InfoContext(ctx, "chatbot exchange", "user", username)
	return reply, nil
}

var _ AssistantUseCase = (*AssistantService)(nil)
