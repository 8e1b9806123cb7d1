package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/shabeb-irshed/portal/internal/models"
)

// ActionChat is the cooldown action type for chatbot messages
const ActionChat = "chat"

// TextGenerator produces a reply for a prompt
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const chatPersona = `You are a friendly, wise and motivating assistant for the youth association "Shabeb for Irshad".
Personality: warm, encouraging, and respectful, with a youthful but polished tone.
Tasks:
1. Answer questions about the association (registration, goals, vision) based on general knowledge of youth associations.
2. Give general advice to young people on self-development, the value of volunteering, leadership and life skills.
3. Do not limit your answers to the website content; be a broadly useful source of knowledge for young people.
4. Always reply in Arabic.`

// ChatService answers chatbot messages through the text generator, guarded
// by input limits and a short per-address cooldown
type ChatService struct {
	generator     TextGenerator
	rateLimits    *RateLimitService
	maxMessageLen int
	logger        *slog.Logger
}

// NewChatService creates a new ChatService
func NewChatService(generator TextGenerator, rateLimits *RateLimitService, maxMessageLen int, logger *slog.Logger) *ChatService {
	return &ChatService{
		generator:     generator,
		rateLimits:    rateLimits,
		maxMessageLen: maxMessageLen,
		logger:        logger,
	}
}

// Reply validates message, applies the chat cooldown and returns the generated answer
func (s *ChatService) Reply(ctx context.Context, sourceAddress, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("%w: message is required", models.ErrBadRequest)
	}
	if utf8.RuneCountInString(message) > s.maxMessageLen {
		return "", fmt.Errorf("%w: message exceeds %d characters", models.ErrBadRequest, s.maxMessageLen)
	}

	if err := s.rateLimits.Check(ctx, sourceAddress, ActionChat); err != nil {
		return "", err
	}

	reply, genErr := s.generator.Generate(ctx, buildChatPrompt(message))

	// The cooldown starts once the generator has been called, whatever the outcome
	if err := s.rateLimits.Record(context.WithoutCancel(ctx), sourceAddress, ActionChat); err != nil {
		s.logger.Error("failed to record chat cooldown", slog.Any("error", err))
	}

	if genErr != nil {
		s.logger.Error("text generation failed", slog.Any("error", genErr))
		return "", fmt.Errorf("%w: %v", models.ErrUpstream, genErr)
	}
	return reply, nil
}

// buildChatPrompt prepends the persona to the user message; the model in use
// does not accept a separate system instruction
func buildChatPrompt(message string) string {
	return chatPersona + "\n\nUser question: " + message
}
