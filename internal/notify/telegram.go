// Package notify pushes operational alerts to a Telegram chat. It is
// optional: without a bot token the node runs exactly the same, just
// silently.
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"relaynode/backend/internal/activity"
	"relaynode/backend/internal/models"
)

// TelegramNotifier forwards noteworthy case-store mutations to an ops
// chat. It listens on the activity recorder's feed, so an alert is only
// ever sent for a mutation that was committed and audited.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *zap.SugaredLogger
}

func NewTelegramNotifier(token string, chatID int64, log *zap.SugaredLogger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Infow("telegram notifier authorized", "account", bot.Self.UserName)

	return &TelegramNotifier{bot: bot, chatID: chatID, log: log}, nil
}

// Listener returns the callback to register with the activity recorder.
func (n *TelegramNotifier) Listener() activity.Listener {
	return func(m activity.Mutation) {
		if !n.noteworthy(m) {
			return
		}
		text := fmt.Sprintf("[%s] %s (investigation %s, by %s)",
			m.Type, m.Description, m.InvestigationID, m.UserID)
		msg := tgbotapi.NewMessage(n.chatID, text)
		if _, err := n.bot.Send(msg); err != nil {
			n.log.Errorw("failed to send telegram alert", "error", err)
		}
	}
}

// noteworthy keeps the alert channel quiet: new cases and new evidence
// only.
func (n *TelegramNotifier) noteworthy(m activity.Mutation) bool {
	switch m.Type {
	case models.ActivityCreated, models.ActivityEvidenceAdded:
		return m.TargetType == "investigation" || m.TargetType == "evidence"
	default:
		return false
	}
}
