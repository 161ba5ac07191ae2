package telegram

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/klaus04-hub/maya"
	"github.com/klaus04-hub/maya/observability"
)

const (
	greetingReply    = "Oi! 👋\nSou a Maya, sua assistente virtual!\nPode me perguntar o que quiser 😊"
	genericErrReply  = "Ops, algo deu errado. Tenta de novo?"
	photoFailReply   = "Não consegui ver a foto. Tenta de novo?"
	statsErrReply    = "Erro ao buscar stats"
	clearUsageReply  = "Uso: /clearmemory <user_id>"
	clearDoneReply   = "✅ Memória limpa"
	photoMimeType    = "image/jpeg"
	typingDelay      = 2 * time.Second
	chatActionTyping = "typing"
)

// Bot routes inbound updates: commands are handled locally (the admin
// ones gated by a fixed ID allow-list), everything else goes through the
// conversation orchestrator and the reply is sent back to the chat.
type Bot struct {
	client       *Client
	orchestrator *maya.Orchestrator
	admins       map[int64]struct{}
	logger       observability.Logger
}

// NewBot creates a Bot. adminIDs is the fixed allow-list for /stats and
// /clearmemory.
func NewBot(client *Client, orchestrator *maya.Orchestrator, adminIDs []int64, logger observability.Logger) *Bot {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Bot{
		client:       client,
		orchestrator: orchestrator,
		admins:       admins,
		logger:       logger,
	}
}

// IsAdmin reports whether the given user may run administrative commands.
func (b *Bot) IsAdmin(userID int64) bool {
	_, ok := b.admins[userID]
	return ok
}

// HandleUpdate processes one webhook update. It never lets a failure
// escape: anything unexpected is logged and answered with a generic
// apology so the process keeps serving other messages.
func (b *Bot) HandleUpdate(ctx context.Context, update Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			b.logger.WithFields(map[string]interface{}{"panic": r, "chat_id": msg.Chat.ID}).
				Error("update handling panicked")
			b.reply(msg.Chat.ID, genericErrReply)
		}
	}()

	if strings.HasPrefix(msg.Text, "/") {
		b.handleCommand(ctx, msg)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	b.handleText(ctx, msg)
}

func (b *Bot) handleCommand(ctx context.Context, msg *Message) {
	fields := strings.Fields(msg.Text)
	command := strings.SplitN(fields[0], "@", 2)[0]

	switch command {
	case "/start":
		b.reply(msg.Chat.ID, greetingReply)
	case "/stats":
		if !b.IsAdmin(msg.From.ID) {
			return
		}
		count, err := b.orchestrator.Stats(ctx)
		if err != nil {
			b.logger.WithErr(err).Error("stats lookup failed")
			b.reply(msg.Chat.ID, statsErrReply)
			return
		}
		b.reply(msg.Chat.ID, "📊 Usuários com conversas: "+strconv.Itoa(count))
	case "/clearmemory":
		if !b.IsAdmin(msg.From.ID) {
			return
		}
		if len(fields) < 2 {
			b.reply(msg.Chat.ID, clearUsageReply)
			return
		}
		if err := b.orchestrator.Clear(ctx, fields[1]); err != nil {
			b.logger.WithErr(err).Error("memory clear failed")
			b.reply(msg.Chat.ID, genericErrReply)
			return
		}
		b.logger.WithFields(map[string]interface{}{"user_id": fields[1]}).Info("memory cleared")
		b.reply(msg.Chat.ID, clearDoneReply)
	}
}

func (b *Bot) handlePhoto(ctx context.Context, msg *Message) {
	// Largest size last.
	photo := msg.Photo[len(msg.Photo)-1]

	file, err := b.client.GetFile(photo.FileID)
	if err != nil {
		b.logger.WithErr(err).Error("photo lookup failed")
		b.reply(msg.Chat.ID, photoFailReply)
		return
	}
	encoded, err := b.client.DownloadFileBase64(file.FilePath)
	if err != nil {
		b.logger.WithErr(err).Error("photo download failed")
		b.reply(msg.Chat.ID, photoFailReply)
		return
	}

	if err := b.client.SendChatAction(msg.Chat.ID, chatActionTyping); err != nil {
		b.logger.WithErr(err).Debug("chat action failed")
	}

	image := &maya.ImageData{MimeType: photoMimeType, Base64: encoded}
	reply := b.orchestrator.Handle(ctx, b.userID(msg), msg.Caption, image)
	b.reply(msg.Chat.ID, reply)
}

func (b *Bot) handleText(ctx context.Context, msg *Message) {
	if err := b.client.SendChatAction(msg.Chat.ID, chatActionTyping); err != nil {
		b.logger.WithErr(err).Debug("chat action failed")
	}
	time.Sleep(typingDelay)

	reply := b.orchestrator.Handle(ctx, b.userID(msg), msg.Text, nil)
	b.reply(msg.Chat.ID, reply)
}

func (b *Bot) userID(msg *Message) string {
	return strconv.FormatInt(msg.From.ID, 10)
}

func (b *Bot) reply(chatID int64, text string) {
	if err := b.client.SendMessage(chatID, text); err != nil {
		b.logger.WithErr(err).WithFields(map[string]interface{}{"chat_id": chatID}).
			Error("failed to send reply")
	}
}
