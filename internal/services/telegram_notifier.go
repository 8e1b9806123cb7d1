package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/shabeb-irshed/portal/internal/metrics"
	"github.com/shabeb-irshed/portal/internal/models"
)

// Notifier pushes a formatted message to an operator channel
type Notifier interface {
	Send(ctx context.Context, chatID, text string) error
}

// TelegramConfig holds Bot API settings
type TelegramConfig struct {
	BotToken string
	APIBase  string
	Timeout  time.Duration
}

// TelegramNotifier sends HTML messages through the Telegram Bot API
type TelegramNotifier struct {
	client   *http.Client
	config   TelegramConfig
	endpoint string
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewTelegramNotifier creates a new TelegramNotifier. The bot is not
// contacted until the first Send.
func NewTelegramNotifier(config TelegramConfig, m *metrics.Metrics, logger *slog.Logger) *TelegramNotifier {
	endpoint := tgbotapi.APIEndpoint
	if base := strings.TrimRight(config.APIBase, "/"); base != "" {
		endpoint = base + "/bot%s/%s"
	}
	return &TelegramNotifier{
		client:   &http.Client{Timeout: config.Timeout},
		config:   config,
		endpoint: endpoint,
		metrics:  m,
		logger:   logger,
	}
}

// contextClient binds outgoing Bot API requests to the caller's context
type contextClient struct {
	ctx   context.Context
	inner *http.Client
}

func (c contextClient) Do(req *http.Request) (*http.Response, error) {
	return c.inner.Do(req.WithContext(c.ctx))
}

func (n *TelegramNotifier) bot(ctx context.Context) *tgbotapi.BotAPI {
	bot := &tgbotapi.BotAPI{
		Token:  n.config.BotToken,
		Client: contextClient{ctx: ctx, inner: n.client},
		Buffer: 100,
	}
	bot.SetAPIEndpoint(n.endpoint)
	return bot
}

// newTelegramMessage addresses numeric chat IDs directly and anything else
// as a channel username
func newTelegramMessage(chatID, text string) tgbotapi.MessageConfig {
	var msg tgbotapi.MessageConfig
	if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		msg = tgbotapi.NewMessage(id, text)
	} else {
		msg = tgbotapi.NewMessageToChannel(chatID, text)
	}
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	return msg
}

// Send posts text to chatID. Any transport error, non-2xx status or
// ok=false reply is reported as models.ErrGatewayFailed.
func (n *TelegramNotifier) Send(ctx context.Context, chatID, text string) error {
	if n.config.BotToken == "" {
		return fmt.Errorf("%w: bot token not configured", models.ErrGatewayFailed)
	}

	start := time.Now()
	_, err := n.bot(ctx).Send(newTelegramMessage(chatID, text))
	n.observe(start)
	if err != nil {
		n.fail()
		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) {
			n.logger.Error("telegram rejected message",
				slog.String("chat_id", chatID),
				slog.Int("code", apiErr.Code),
				slog.String("description", apiErr.Message))
			return fmt.Errorf("%w: telegram error %d", models.ErrGatewayFailed, apiErr.Code)
		}
		// Transport errors embed the request URL, which carries the bot token
		n.logger.Error("telegram request failed", slog.String("chat_id", chatID))
		return fmt.Errorf("%w: request failed", models.ErrGatewayFailed)
	}

	return nil
}

func (n *TelegramNotifier) observe(start time.Time) {
	if n.metrics != nil {
		n.metrics.GatewayDuration.WithLabelValues("telegram").Observe(time.Since(start).Seconds())
	}
}

func (n *TelegramNotifier) fail() {
	if n.metrics != nil {
		n.metrics.GatewayFailures.WithLabelValues("telegram").Inc()
	}
}
