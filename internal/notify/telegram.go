package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/maryamMilad/ai-trading-agent/internal/model"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts run summaries to a single chat. The bot is created
// on first use since NewBotAPI calls getMe.
type TelegramNotifier struct {
	token  string
	chatID int64

	mu  sync.Mutex
	bot sender
}

func NewTelegramNotifier(token string, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{token: token, chatID: chatID}
}

func (n *TelegramNotifier) Notify(ctx context.Context, run *model.AnalysisRun, results []model.TickerResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bot, err := n.client()
	if err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, FormatSummary(run, results))
	msg.DisableWebPagePreview = true

	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("error sending telegram message: %w", err)
	}
	return nil
}

func (n *TelegramNotifier) client() (sender, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.bot != nil {
		return n.bot, nil
	}

	bot, err := tgbotapi.NewBotAPI(n.token)
	if err != nil {
		return nil, fmt.Errorf("error creating telegram bot: %w", err)
	}
	n.bot = bot
	return n.bot, nil
}

func FormatSummary(run *model.AnalysisRun, results []model.TickerResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Daily analysis %s\n", run.StartedAt.Format("2006-01-02"))
	fmt.Fprintf(&sb, "%d/%d tickers analyzed\n", run.Succeeded, run.TickerCount)

	if len(results) > 0 {
		sb.WriteString("\n")
	}

	for _, r := range results {
		if r.Status == model.TickerStatusSuccess {
			fmt.Fprintf(&sb, "%s: %s (%.0f%%)\n", r.Ticker, r.Signal, r.Confidence*100)
			continue
		}
		fmt.Fprintf(&sb, "%s: failed (%s)\n", r.Ticker, r.Error)
	}

	fmt.Fprintf(&sb, "\nrun %s", run.ID)
	return sb.String()
}
