// Package notify publishes predictions to chat channels
package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/fxsignal/models"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends predictions to a chat
type Telegram struct {
	bot    sender
	chatID int64
	logger zerolog.Logger
}

// NewTelegram connects the bot with token
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("initializing Telegram bot: %w", err)
	}
	return newTelegram(bot, chatID), nil
}

func newTelegram(bot sender, chatID int64) *Telegram {
	return &Telegram{
		bot:    bot,
		chatID: chatID,
		logger: log.With().Str("component", "telegram_notifier").Int64("chat_id", chatID).Logger(),
	}
}

// Notify sends the formatted prediction
func (t *Telegram) Notify(ctx context.Context, p *models.Prediction) error {
	if p == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(t.chatID, FormatPrediction(p))
	msg.ParseMode = "Markdown"

	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Error().Err(err).Str("symbol", p.Symbol).Msg("Failed to send prediction")
		return err
	}
	t.logger.Info().Str("symbol", p.Symbol).Str("direction", string(p.Direction)).Msg("Prediction sent")
	return nil
}

// FormatPrediction renders a prediction as a Markdown message
func FormatPrediction(p *models.Prediction) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*Prediction for %s (%s)*\n\n", p.Symbol, p.Timeframe))

	directionEmoji := "⚖️"
	switch p.Direction {
	case models.DirectionBuy:
		directionEmoji = "🔼"
	case models.DirectionSell:
		directionEmoji = "🔽"
	}

	sb.WriteString(fmt.Sprintf("*Direction:* %s %s\n", directionEmoji, p.Direction))
	sb.WriteString(fmt.Sprintf("*Confidence:* %.0f%%\n", p.Confidence*100))
	sb.WriteString(fmt.Sprintf("*Market Regime:* %s\n", p.MarketRegime))
	if p.Features.Sentiment {
		sb.WriteString(fmt.Sprintf("*Sentiment:* %.2f\n", p.SentimentScore))
	}

	if len(p.Factors) > 0 {
		sb.WriteString("\n*Decision Factors:*\n")
		for i, factor := range p.Factors {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, factor))
		}
	}

	sb.WriteString(fmt.Sprintf("\n*Current Price:* %.5f\n", p.EntryPrice))

	if p.Direction != models.DirectionNeutral {
		sb.WriteString("\n*Trading Recommendations:*\n")
		sb.WriteString(fmt.Sprintf("Stop Loss: %.5f\n", p.StopLoss))
		sb.WriteString(fmt.Sprintf("Take Profit: %.5f\n", p.TakeProfit))
		sb.WriteString(fmt.Sprintf("Risk/Reward Ratio: %.1f\n", p.RiskReward))
		sb.WriteString(fmt.Sprintf("Risk per Trade: %.1f%%\n", p.PositionRisk*100))
	}

	return sb.String()
}
