package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/shopspring/decimal"
)

// OpsNotifier posts checkout events to an operations chat. A nil notifier is
// valid and drops everything, so callers never guard.
type OpsNotifier struct {
	bot    *bot.Bot
	chatID int64
}

func New(token string, chatID int64) (*OpsNotifier, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create notify bot: %w", err)
	}
	return &OpsNotifier{bot: b, chatID: chatID}, nil
}

func (n *OpsNotifier) send(text string) {
	if n == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    n.chatID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		slog.Error("failed to send ops notification", "error", err)
	}
}

func (n *OpsNotifier) OrderConfirmed(orderID, studentID string, total decimal.Decimal, couponCode string) {
	msg := fmt.Sprintf("✅ *Order Confirmed*\n\n*Order:* `%s`\n*Student:* `%s`\n*Total:* $%s",
		orderID, studentID, total.StringFixed(2))
	if couponCode != "" {
		msg += fmt.Sprintf("\n*Coupon:* `%s`", couponCode)
	}
	n.send(msg)
}

func (n *OpsNotifier) CheckoutFailed(studentID, kind string, err error) {
	n.send(fmt.Sprintf("❌ *Checkout Failed*\n\n*Student:* `%s`\n*Kind:* %s\n*Error:* `%s`",
		studentID, kind, err.Error()))
}
