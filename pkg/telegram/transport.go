// Package telegram implements the transport collaborator: long-polling for
// inbound updates, publishing them on the event bus, and sending replies.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"hr-intake-bot/internal/constant"
	"hr-intake-bot/internal/dto"
	"hr-intake-bot/internal/gateway"
	"hr-intake-bot/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	tele "gopkg.in/telebot.v3"
)

type Transport struct {
	bot       *tele.Bot
	publisher message.Publisher
	topic     string
	log       logger.ILogger
}

func New(token string, publisher message.Publisher, topic string, log logger.ILogger) (*Transport, error) {
	bot, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 30 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &Transport{
		bot:       bot,
		publisher: publisher,
		topic:     topic,
		log:       log,
	}, nil
}

// Run polls for updates until ctx is done, mapping each message to an
// InboundEvent and publishing it on the bus. The transport itself makes no
// routing decisions; commands are forwarded raw and parsed downstream.
func (t *Transport) Run(ctx context.Context) error {
	forward := func(c tele.Context) error {
		return t.publish(c)
	}
	t.bot.Handle(tele.OnText, forward)
	t.bot.Handle(tele.OnDocument, forward)
	t.bot.Handle(tele.OnPhoto, forward)
	t.bot.Handle(tele.OnMedia, forward)

	go func() {
		<-ctx.Done()
		t.bot.Stop()
	}()

	t.log.Info("telegram", "polling started", map[string]interface{}{
		"bot": t.bot.Me.Username,
	})
	t.bot.Start()
	return ctx.Err()
}

func (t *Transport) publish(c tele.Context) error {
	ev := mapMessage(c.Update().ID, c.Message())
	if ev == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal inbound event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := t.publisher.Publish(t.topic, msg); err != nil {
		t.log.Error("telegram", "failed to publish inbound event", map[string]interface{}{
			"update": c.Update().ID,
			"error":  err.Error(),
		})
	}
	return nil
}

// mapMessage flattens a Telegram message into the transport-agnostic event
// shape.
func mapMessage(updateID int, msg *tele.Message) *dto.InboundEvent {
	if msg == nil || msg.Chat == nil {
		return nil
	}

	ev := &dto.InboundEvent{
		UpdateID:  updateID,
		ChatID:    msg.Chat.ID,
		ThreadID:  msg.ThreadID,
		MessageID: msg.ID,
		Text:      msg.Text,
		IsGroup:   msg.Chat.Type == tele.ChatGroup || msg.Chat.Type == tele.ChatSuperGroup,
	}
	if ev.Text == "" {
		ev.Text = msg.Caption
	}
	if msg.Sender != nil {
		ev.Identity = msg.Sender.ID
		ev.Username = msg.Sender.Username
		ev.FullName = strings.TrimSpace(msg.Sender.FirstName + " " + msg.Sender.LastName)
	} else {
		ev.Identity = msg.Chat.ID
	}
	if cmd, ok := parseCommand(ev.Text); ok {
		ev.Command = cmd
	}
	if msg.Document != nil {
		ev.Document = &dto.ArtifactRef{
			FileID:   msg.Document.FileID,
			FileName: msg.Document.FileName,
			MimeType: msg.Document.MIME,
		}
	}
	if msg.Photo != nil {
		ev.Photo = &dto.ArtifactRef{FileID: msg.Photo.FileID}
	}
	return ev
}

// parseCommand extracts "/cmd" or "/cmd@BotName" from the start of text.
func parseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	cmd := strings.Fields(text)[0][1:]
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}
	if cmd == "" {
		return "", false
	}
	return strings.ToLower(cmd), true
}

// Reply sends text to the identity, optionally with the menu keyboard or
// inline URL buttons.
func (t *Transport) Reply(identity int64, text string, opts ...gateway.ReplyOption) error {
	var options gateway.ReplyOptions
	for _, opt := range opts {
		opt(&options)
	}

	var markup *tele.ReplyMarkup
	switch {
	case len(options.Buttons) > 0:
		markup = &tele.ReplyMarkup{}
		rows := make([][]tele.InlineButton, 0, len(options.Buttons))
		for _, b := range options.Buttons {
			rows = append(rows, []tele.InlineButton{{Text: b.Label, URL: b.URL}})
		}
		markup.InlineKeyboard = rows
	case options.MainMenu:
		markup = mainMenuKeyboard()
	}

	var err error
	if markup != nil {
		_, err = t.bot.Send(tele.ChatID(identity), text, markup)
	} else {
		_, err = t.bot.Send(tele.ChatID(identity), text)
	}
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// Download pulls a transport-held file to destPath.
func (t *Transport) Download(ctx context.Context, fileID, destPath string) error {
	if err := t.bot.Download(&tele.File{FileID: fileID}, destPath); err != nil {
		return fmt.Errorf("telegram download: %w", err)
	}
	return nil
}

func mainMenuKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(
		menu.Row(menu.Text(constant.BtnSendCV)),
		menu.Row(menu.Text(constant.BtnVacancies), menu.Text(constant.BtnContact)),
	)
	return menu
}
