package telegram

import (
	"context"
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"retail-assistant/internal/assistant"
	"retail-assistant/internal/history"
	"retail-assistant/internal/storage"
)

const (
	historyCmd   = "history"
	startCmd     = "start"
	maxMsgLength = 4000
)

// Bot is the Telegram front-end: plain text is a question, /history shows the log.
type Bot struct {
	api      *tgbotapi.BotAPI
	s        sender
	svc      *assistant.Service
	store    storage.Store
	sessions *history.Manager
}

func New(botToken string, svc *assistant.Service, store storage.Store, sessions *history.Manager) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:      api,
		s:        botAPISender{api: api},
		svc:      svc,
		store:    store,
		sessions: sessions,
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	log.Printf("🤖 Telegram bot @%s started", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				b.handleIncomingMessage(ctx, update.Message)
				continue
			}
			if update.CallbackQuery != nil {
				b.handleCallback(update.CallbackQuery)
			}
		}
	}
}

func sessionKey(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

func historyKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Get History", historyCmd),
		),
	)
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		switch msg.Command() {
		case historyCmd:
			b.sendHistory(msg.Chat.ID)
		case startCmd:
			b.sendMessage(msg.Chat.ID, "Ask me anything about our products, sales or inventory.")
		default:
			b.sendMessage(msg.Chat.ID, "Unknown command. Use /history to see past questions.")
		}
		return
	}

	// Stickers, photos and other media carry no text to ask about.
	if msg.Text == "" {
		b.sendMessage(msg.Chat.ID, "Please send your question as text.")
		return
	}

	log.Printf("Incoming message from chat %d: %q", msg.Chat.ID, msg.Text)

	out, err := b.svc.Ask(ctx, b.sessions.Get(sessionKey(msg.Chat.ID)), msg.Text)
	if err != nil {
		log.Printf("failed to answer question: %v", err)
		b.sendMessage(msg.Chat.ID, "Sorry, something went wrong.")
		return
	}

	chunks := splitMessage(out.Text(), maxMsgLength)
	for i, chunk := range chunks {
		m := tgbotapi.NewMessage(msg.Chat.ID, chunk)
		if i == len(chunks)-1 {
			m.ReplyMarkup = historyKeyboard()
		}
		if _, err := b.s.Send(m); err != nil {
			log.Printf("failed to send message: %v", err)
		}
	}
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	if _, err := b.s.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("failed to answer callback: %v", err)
	}
	if cb.Data == historyCmd && cb.Message != nil {
		b.sendHistory(cb.Message.Chat.ID)
	}
}

// sendHistory always reads the file, so it shows turns from every session.
func (b *Bot) sendHistory(chatID int64) {
	text := assistant.HistoryText(assistant.History(b.store))
	for _, chunk := range splitMessage(text, maxMsgLength) {
		b.sendMessage(chatID, chunk)
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

// splitMessage cuts text into pieces of at most limit runes, preferring line breaks.
func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}
	var out []string
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		out = append(out, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}
