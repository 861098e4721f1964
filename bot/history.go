package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"tableorder-telegram/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// refreshHistory re-fetches the session's order lines. Failures are logged
// and the previous list stays as it was. Overlapping refreshes are
// tolerated: the fetch is read-only and idempotent.
func (b *Bot) refreshHistory(chatID int64, s *session) bool {
	s.loadingHistory = true
	defer func() { s.loadingHistory = false }()

	entries, err := b.orders.Fetch(context.Background(), s.token)
	if err != nil {
		log.Printf("fetch history chat=%d: %v", chatID, err)
		return false
	}
	s.history = entries
	return true
}

// showHistory fetches and renders past order lines in the order the server
// delivered them, with a price × quantity subtotal underneath.
func (b *Bot) showHistory(chatID int64, s *session) {
	b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
	b.refreshHistory(chatID, s)

	var sb strings.Builder
	sb.WriteString("🕘 Order history\n")
	if len(s.history) == 0 {
		sb.WriteString("\nNo order history yet.")
	} else {
		for _, e := range s.history {
			fmt.Fprintf(&sb, "\n%s %s × %d — %d\n    %s",
				services.StatusBadge(e.Status), e.MenuName, e.Quantity,
				e.PriceAtTime*int64(e.Quantity), services.StatusLabel(e.Status))
			if len(e.Options) > 0 {
				var names []string
				for _, opt := range e.Options {
					names = append(names, opt.OptionChoice)
				}
				fmt.Fprintf(&sb, "\n    %s", strings.Join(names, ", "))
			}
		}
		fmt.Fprintf(&sb, "\n\nSubtotal: %d", services.HistorySubtotal(s.history))
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", "history"),
			tgbotapi.NewInlineKeyboardButtonData("⬅ Back to menu", "back"),
		),
	)
	b.sendWithInline(chatID, sb.String(), kb)
}
