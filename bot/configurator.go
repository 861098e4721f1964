package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"tableorder-telegram/models"
	"tableorder-telegram/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// openConfigurator starts configuring a fresh line for the menu: quantity 1,
// no note, no selections, append on confirm.
func (b *Bot) openConfigurator(chatID int64, s *session, menuID int64) {
	menu := services.FindMenu(s.menus, menuID)
	if menu == nil || menu.Disable {
		b.send(chatID, "That dish is no longer available.")
		return
	}
	s.menu = menu
	s.quantity = 1
	s.note = ""
	s.selections = make(map[int64]int64)
	s.editingIndex = -1
	s.awaitingNote = false
	b.sendConfigurator(chatID, s)
}

func (b *Bot) closeConfigurator(chatID int64, s *session) {
	s.menu = nil
	s.awaitingNote = false
	b.showMenu(chatID, s)
}

// configuratorView renders the item being configured: option groups with
// the picked choice marked, quantity controls, note control, and a confirm
// button carrying the live line total.
func (b *Bot) configuratorView(s *session) (string, tgbotapi.InlineKeyboardMarkup) {
	menu := s.menu

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s — %d\n", menu.Name, menu.Price)
	if s.note != "" {
		fmt.Fprintf(&sb, "📝 %s\n", s.note)
	}
	for _, mg := range services.EnabledOptionGroups(menu) {
		name := mg.OptionGroup.Name
		if mg.OptionGroup.IsRequired {
			name += " (required)"
		}
		fmt.Fprintf(&sb, "\n%s", name)
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, mg := range services.EnabledOptionGroups(menu) {
		gid := mg.OptionGroup.ID
		var row []tgbotapi.InlineKeyboardButton
		for _, ch := range mg.OptionGroup.Choices {
			if ch.Disable {
				continue
			}
			label := ch.Name
			if ch.Price > 0 {
				label = fmt.Sprintf("%s +%d", ch.Name, ch.Price)
			}
			if s.selections[gid] == ch.ID {
				label = "✅ " + label
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(
				label,
				fmt.Sprintf("opt:%d:%d", gid, ch.ID),
			))
			if len(row) == 2 {
				rows = append(rows, row)
				row = nil
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➖", "qty:dec"),
		tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(s.quantity), "noop"),
		tgbotapi.NewInlineKeyboardButtonData("➕", "qty:inc"),
	))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📝 Note", "note"),
	))

	confirm := "Add to cart"
	if s.editingIndex >= 0 {
		confirm = "Update item"
	}
	total := services.ComputeLineTotal(menu, s.selections, s.quantity)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s — %d", confirm, total), "additem"),
	))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✖ Close", "cfgclose"),
	))

	return sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) sendConfigurator(chatID int64, s *session) {
	text, kb := b.configuratorView(s)
	b.sendWithInline(chatID, text, kb)
}

func (b *Bot) editConfigurator(chatID int64, messageID int, s *session) {
	text, kb := b.configuratorView(s)
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ReplyMarkup = &kb
	if _, err := b.api.Send(edit); err != nil {
		if strings.Contains(err.Error(), "not modified") {
			return
		}
		log.Printf("edit error: %v", err)
	}
}

// handleOptionSelect records one choice for a group; picking another choice
// of the same group replaces the earlier one.
func (b *Bot) handleOptionSelect(chatID int64, messageID int, s *session, data string) {
	if s.menu == nil {
		return
	}
	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 {
		return
	}
	gid, err1 := strconv.ParseInt(parts[0], 10, 64)
	cid, err2 := strconv.ParseInt(parts[1], 10, 64)
	if err1 != nil || err2 != nil {
		return
	}
	if s.selections == nil {
		s.selections = make(map[int64]int64)
	}
	s.selections[gid] = cid
	b.editConfigurator(chatID, messageID, s)
}

// handleQuantity adjusts the line quantity; decrementing at 1 is a no-op.
func (b *Bot) handleQuantity(chatID int64, messageID int, s *session, delta int) {
	if s.menu == nil {
		return
	}
	q := s.quantity + delta
	if q < 1 {
		return
	}
	s.quantity = q
	b.editConfigurator(chatID, messageID, s)
}

func (b *Bot) handleNotePrompt(chatID int64, s *session) {
	if s.menu == nil {
		return
	}
	s.awaitingNote = true
	b.send(chatID, "Send a message with your note for the kitchen (e.g. \"no onions\").")
}

// handleAddToCart validates required options, builds the line snapshot and
// replaces the cart through the single write path. Editing replaces the
// line at the remembered index; otherwise the line is appended.
func (b *Bot) handleAddToCart(chatID int64, s *session) {
	if s.menu == nil {
		return
	}
	if err := services.ValidateSelections(s.menu, s.selections); err != nil {
		var missing *services.MissingRequiredOptionError
		if errors.As(err, &missing) {
			b.send(chatID, fmt.Sprintf("Please choose \"%s\" first.", missing.GroupName))
			return
		}
		b.send(chatID, "Please complete the required options first.")
		return
	}

	item := services.BuildLineItem(s.menu, s.quantity, s.note, s.selections)

	ctx := context.Background()
	updated := append([]models.CartLineItem(nil), b.carts.Items(s.tableNumber)...)
	if s.editingIndex >= 0 && s.editingIndex < len(updated) {
		updated[s.editingIndex] = item
	} else {
		updated = append(updated, item)
	}
	if err := b.carts.Replace(ctx, s.tableNumber, updated); err != nil {
		log.Printf("save cart table=%s: %v", s.tableNumber, err)
	}

	s.menu = nil
	s.awaitingNote = false
	s.editingIndex = -1
	b.showMenu(chatID, s)
}
