package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"tableorder-telegram/api"
	"tableorder-telegram/config"
	"tableorder-telegram/models"
	"tableorder-telegram/services"
	"tableorder-telegram/store"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// session is the per-chat UI state. One chat maps to one table session;
// everything mutable lives here so nothing leaks across tables.
type session struct {
	token       string
	tableNumber string

	categories []models.Category
	menus      []models.Menu

	selectedCategoryID int64

	// configurator state; menu is nil while the configurator is closed
	menu         *models.Menu
	quantity     int
	note         string
	selections   map[int64]int64
	editingIndex int // -1 appends, >= 0 replaces that cart line
	awaitingNote bool

	history        []models.HistoryEntry
	loadingHistory bool
}

type Bot struct {
	api      *tgbotapi.BotAPI
	cfg      *config.Config
	client   *api.Client
	carts    *services.CartStore
	resolver *services.SessionResolver
	submit   *services.OrderSubmitter
	orders   *services.HistoryService

	sessions   map[int64]*session // chat id -> table session
	sessionsMu sync.RWMutex
}

func New(cfg *config.Config, client *api.Client, kv *store.Store) (*Bot, error) {
	tg, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	carts := services.NewCartStore(kv)
	return &Bot{
		api:      tg,
		cfg:      cfg,
		client:   client,
		carts:    carts,
		resolver: services.NewSessionResolver(client),
		submit:   services.NewOrderSubmitter(client, carts),
		orders:   services.NewHistoryService(client),
		sessions: make(map[int64]*session),
	}, nil
}

func (b *Bot) getSession(chatID int64) *session {
	b.sessionsMu.RLock()
	defer b.sessionsMu.RUnlock()
	return b.sessions[chatID]
}

func (b *Bot) setSession(chatID int64, s *session) {
	b.sessionsMu.Lock()
	defer b.sessionsMu.Unlock()
	b.sessions[chatID] = s
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.SetMyCommandsConfig{
		Commands: []tgbotapi.BotCommand{
			{Command: "start", Description: "Start ordering (QR link)"},
			{Command: "menu", Description: "Menu"},
			{Command: "cart", Description: "My cart"},
			{Command: "orders", Description: "Order history"},
		},
	}
	_, err := b.api.Request(cfg)
	return err
}

func (b *Bot) Start() {
	_ = b.setBotCommands()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.CallbackQuery != nil {
			b.handleCallback(update.CallbackQuery)
			continue
		}
		if update.Message == nil {
			continue
		}
		msg := update.Message
		text := strings.TrimSpace(msg.Text)

		switch {
		case strings.HasPrefix(text, "/start"):
			token := strings.TrimSpace(strings.TrimPrefix(text, "/start"))
			b.handleStart(msg.Chat.ID, token)
		case text == "/menu":
			b.withSession(msg.Chat.ID, func(s *session) { b.showMenu(msg.Chat.ID, s) })
		case text == "/cart":
			b.withSession(msg.Chat.ID, func(s *session) { b.showCart(msg.Chat.ID, s) })
		case text == "/orders":
			b.withSession(msg.Chat.ID, func(s *session) { b.showHistory(msg.Chat.ID, s) })
		default:
			b.handleText(msg.Chat.ID, text)
		}
	}
}

// withSession runs fn when the chat has an active table session, otherwise
// replies with the access-denied state.
func (b *Bot) withSession(chatID int64, fn func(*session)) {
	s := b.getSession(chatID)
	if s == nil {
		b.sendAccessDenied(chatID)
		return
	}
	fn(s)
}

func (b *Bot) sendAccessDenied(chatID int64) {
	b.send(chatID, "Can't access the menu.\nPlease scan the QR code on your table to start ordering.")
}

// handleStart resolves the QR deep-link token into a table session and
// renders the ordering UI. A missing or rejected token is terminal: the
// customer gets the access-denied state and has to re-scan.
func (b *Bot) handleStart(chatID int64, token string) {
	ctx := context.Background()

	tableNumber, err := b.resolver.Resolve(ctx, token)
	if err != nil {
		log.Printf("session resolve chat=%d: %v", chatID, err)
		b.sendAccessDenied(chatID)
		return
	}

	s := &session{
		token:        token,
		tableNumber:  tableNumber,
		editingIndex: -1,
	}

	// Catalog failures degrade to an empty menu screen instead of refusing
	// the session; the table number is already confirmed valid.
	if s.categories, err = b.client.Categories(ctx); err != nil {
		log.Printf("fetch categories chat=%d: %v", chatID, err)
		s.categories = nil
	}
	if s.menus, err = b.client.Menus(ctx); err != nil {
		log.Printf("fetch menus chat=%d: %v", chatID, err)
		s.menus = nil
	}
	if active := services.ActiveCategories(s.categories); len(active) > 0 {
		s.selectedCategoryID = active[0].ID
	}

	b.carts.Load(ctx, tableNumber)
	b.setSession(chatID, s)

	b.send(chatID, fmt.Sprintf("Welcome! You are ordering for table %s.", tableNumber))
	b.showMenu(chatID, s)
}

// handleText consumes free text as the configurator note when one was
// requested; anything else is ignored.
func (b *Bot) handleText(chatID int64, text string) {
	s := b.getSession(chatID)
	if s == nil || !s.awaitingNote || s.menu == nil {
		return
	}
	s.note = text
	s.awaitingNote = false
	b.sendConfigurator(chatID, s)
}

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	data := cq.Data

	b.api.Request(tgbotapi.NewCallback(cq.ID, ""))

	s := b.getSession(chatID)
	if s == nil {
		b.sendAccessDenied(chatID)
		return
	}

	switch {
	case strings.HasPrefix(data, "cat:"):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, "cat:"), 10, 64)
		if err != nil {
			return
		}
		s.selectedCategoryID = id
		b.editMenu(chatID, cq.Message.MessageID, s)
	case strings.HasPrefix(data, "menu:"):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, "menu:"), 10, 64)
		if err != nil {
			return
		}
		b.openConfigurator(chatID, s, id)
	case strings.HasPrefix(data, "opt:"):
		b.handleOptionSelect(chatID, cq.Message.MessageID, s, strings.TrimPrefix(data, "opt:"))
	case data == "qty:inc":
		b.handleQuantity(chatID, cq.Message.MessageID, s, +1)
	case data == "qty:dec":
		b.handleQuantity(chatID, cq.Message.MessageID, s, -1)
	case data == "note":
		b.handleNotePrompt(chatID, s)
	case data == "additem":
		b.handleAddToCart(chatID, s)
	case data == "cfgclose":
		b.closeConfigurator(chatID, s)
	case data == "cart":
		b.showCart(chatID, s)
	case strings.HasPrefix(data, "edit:"):
		idx, err := strconv.Atoi(strings.TrimPrefix(data, "edit:"))
		if err != nil {
			return
		}
		b.handleEditItem(chatID, s, idx)
	case strings.HasPrefix(data, "del:"):
		idx, err := strconv.Atoi(strings.TrimPrefix(data, "del:"))
		if err != nil {
			return
		}
		b.handleRemoveItem(chatID, s, idx)
	case data == "submit":
		b.handleSubmit(chatID, s)
	case data == "history":
		b.showHistory(chatID, s)
	case data == "back":
		b.showMenu(chatID, s)
	}
}

// menuView builds the catalog screen: header with table number and cart
// summary, category row, and the enabled menus of the selected category.
func (b *Bot) menuView(s *session) (string, tgbotapi.InlineKeyboardMarkup) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🍽 Menu — table %s\n", s.tableNumber)

	active := services.ActiveCategories(s.categories)
	menus := services.MenusForCategory(s.menus, s.selectedCategoryID)
	if len(active) == 0 && len(menus) == 0 {
		sb.WriteString("\nThe menu is not available right now. Please try again later.")
	}

	if n := b.carts.Count(s.tableNumber); n > 0 {
		fmt.Fprintf(&sb, "\n🛒 Cart: %d item(s) — %d\n", n, b.carts.Subtotal(s.tableNumber))
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var catRow []tgbotapi.InlineKeyboardButton
	for _, c := range active {
		label := c.Name
		if c.ID == s.selectedCategoryID {
			label = "• " + c.Name
		}
		catRow = append(catRow, tgbotapi.NewInlineKeyboardButtonData(label, "cat:"+strconv.FormatInt(c.ID, 10)))
		if len(catRow) == 3 {
			rows = append(rows, catRow)
			catRow = nil
		}
	}
	if len(catRow) > 0 {
		rows = append(rows, catRow)
	}

	for _, m := range menus {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s — %d", m.Name, m.Price),
				"menu:"+strconv.FormatInt(m.ID, 10),
			),
		))
	}

	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🛒 Cart (%d)", b.carts.Count(s.tableNumber)), "cart"),
		tgbotapi.NewInlineKeyboardButtonData("🕘 History", "history"),
	})

	return sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) showMenu(chatID int64, s *session) {
	text, kb := b.menuView(s)
	b.sendWithInline(chatID, text, kb)
}

func (b *Bot) editMenu(chatID int64, messageID int, s *session) {
	text, kb := b.menuView(s)
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ReplyMarkup = &kb
	if _, err := b.api.Send(edit); err != nil {
		if strings.Contains(err.Error(), "not modified") {
			return
		}
		log.Printf("edit error: %v", err)
	}
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send error: %v", err)
	}
}

func (b *Bot) sendWithInline(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send error: %v", err)
	}
}
