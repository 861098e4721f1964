package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"tableorder-telegram/api"
	"tableorder-telegram/models"
	"tableorder-telegram/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// choiceNames resolves a line's selected choice names from the catalog for
// display; unresolvable selections are skipped (the names still get the
// "Unknown" fallback at submission time).
func choiceNames(menus []models.Menu, item models.CartLineItem) []string {
	menu := services.FindMenu(menus, item.MenuID)
	if menu == nil {
		return nil
	}
	var names []string
	for gid, cid := range item.Selections {
		mg := services.FindMenuOptionGroup(menu, gid)
		if mg == nil {
			continue
		}
		if ch := services.FindChoice(&mg.OptionGroup, cid); ch != nil {
			names = append(names, ch.Name)
		}
	}
	return names
}

func (b *Bot) cartView(s *session) (string, tgbotapi.InlineKeyboardMarkup) {
	items := b.carts.Items(s.tableNumber)

	var sb strings.Builder
	fmt.Fprintf(&sb, "🛒 My cart — table %s\n", s.tableNumber)

	var rows [][]tgbotapi.InlineKeyboardButton
	if len(items) == 0 {
		sb.WriteString("\nCart is empty.")
	} else {
		for i, it := range items {
			fmt.Fprintf(&sb, "\n%d. %s × %d — %d", i+1, it.Name, it.Quantity, it.TotalPrice)
			if names := choiceNames(s.menus, it); len(names) > 0 {
				fmt.Fprintf(&sb, "\n    %s", strings.Join(names, ", "))
			}
			if it.Note != "" {
				fmt.Fprintf(&sb, "\n    📝 %s", it.Note)
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✏️ %d", i+1), "edit:"+strconv.Itoa(i)),
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🗑 %d", i+1), "del:"+strconv.Itoa(i)),
			))
		}
		fmt.Fprintf(&sb, "\n\nTotal: %d", b.carts.Subtotal(s.tableNumber))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirm order", "submit"),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅ Back to menu", "back"),
	))

	return sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) showCart(chatID int64, s *session) {
	text, kb := b.cartView(s)
	b.sendWithInline(chatID, text, kb)
}

// handleEditItem reopens the configurator pre-filled from the cart line; on
// confirm the whole line is replaced at this index.
func (b *Bot) handleEditItem(chatID int64, s *session, index int) {
	items := b.carts.Items(s.tableNumber)
	if index < 0 || index >= len(items) {
		return
	}
	item := items[index]
	menu := services.FindMenu(s.menus, item.MenuID)
	if menu == nil {
		b.send(chatID, "That dish is no longer on the menu, so it can't be edited.")
		return
	}
	s.menu = menu
	s.quantity = item.Quantity
	s.note = item.Note
	s.selections = make(map[int64]int64, len(item.Selections))
	for gid, cid := range item.Selections {
		s.selections[gid] = cid
	}
	s.editingIndex = index
	s.awaitingNote = false
	b.sendConfigurator(chatID, s)
}

func (b *Bot) handleRemoveItem(chatID int64, s *session, index int) {
	items := b.carts.Items(s.tableNumber)
	if index < 0 || index >= len(items) {
		return
	}
	updated := make([]models.CartLineItem, 0, len(items)-1)
	updated = append(updated, items[:index]...)
	updated = append(updated, items[index+1:]...)
	if err := b.carts.Replace(context.Background(), s.tableNumber, updated); err != nil {
		log.Printf("save cart table=%s: %v", s.tableNumber, err)
	}
	b.showCart(chatID, s)
}

// handleSubmit sends the cart as one order. Empty cart and in-flight
// submissions are silent no-ops; a rejected order keeps the cart intact and
// surfaces the server message when there is one.
func (b *Bot) handleSubmit(chatID int64, s *session) {
	ctx := context.Background()
	err := b.submit.Submit(ctx, s.token, s.tableNumber, s.menus)
	switch {
	case err == nil:
		b.send(chatID, "✅ Order sent to the kitchen!")
		b.refreshHistory(chatID, s)
		b.showMenu(chatID, s)
	case errors.Is(err, services.ErrEmptyCart), errors.Is(err, services.ErrSubmitInFlight):
		// nothing to do; the button outran the state
	case errors.Is(err, services.ErrNoToken):
		b.send(chatID, "Your session has expired. Please scan the QR code on your table again.")
	default:
		var status *api.StatusError
		if errors.As(err, &status) && status.Message != "" {
			b.send(chatID, "Order failed: "+status.Message)
		} else {
			log.Printf("submit order table=%s: %v", s.tableNumber, err)
			b.send(chatID, "Order failed. Please try again.")
		}
	}
}
