package handler

import (
	"context"
	"fmt"
	"strings"

	"hr-intake-bot/internal/config"
	"hr-intake-bot/internal/constant"
	"hr-intake-bot/internal/dto"
	"hr-intake-bot/internal/gateway"
	"hr-intake-bot/internal/pkg/logger"
	"hr-intake-bot/internal/service"
)

// UpdateHandler routes one inbound event to the right service. It is the
// top of the per-event call stack: nothing below it may crash the loop, so
// Handle recovers panics and degrades to a generic user-visible failure.
type UpdateHandler struct {
	intake    service.IIntakeService
	vacancies service.IVacancyService
	replier   gateway.Replier
	log       logger.ILogger
	hr        config.HRConfig
	siteURL   string
}

func NewUpdateHandler(
	intake service.IIntakeService,
	vacancies service.IVacancyService,
	replier gateway.Replier,
	log logger.ILogger,
	hr config.HRConfig,
	siteURL string,
) *UpdateHandler {
	return &UpdateHandler{
		intake:    intake,
		vacancies: vacancies,
		replier:   replier,
		log:       log,
		hr:        hr,
		siteURL:   siteURL,
	}
}

// Handle processes a single inbound event to completion. Any error is
// terminal to this turn only.
func (h *UpdateHandler) Handle(ctx context.Context, ev *dto.InboundEvent) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("handler", "panic while handling update", map[string]interface{}{
				"identity": ev.Identity,
				"update":   ev.UpdateID,
				"panic":    fmt.Sprint(r),
			})
			if !ev.IsGroup {
				_ = h.replier.Reply(ev.Identity, constant.MsgGenericErr)
			}
		}
	}()

	if err := h.route(ctx, ev); err != nil {
		h.log.Error("handler", "update failed", map[string]interface{}{
			"identity": ev.Identity,
			"update":   ev.UpdateID,
			"error":    err.Error(),
		})
	}
}

func (h *UpdateHandler) route(ctx context.Context, ev *dto.InboundEvent) error {
	// The id diagnostic works everywhere: its whole point is running it
	// inside the vacancies topic to read off the chat and thread ids.
	if ev.Command == constant.CmdWhereAmI {
		return h.whereAmI(ev)
	}

	// Group posts only feed the vacancy capture; the intake flow is
	// private-chat territory.
	if ev.IsGroup {
		if h.vacancies.Matches(ev) && ev.Text != "" && ev.Command == "" {
			return h.vacancies.Capture(ctx, ev)
		}
		return nil
	}

	if ev.Command != "" {
		return h.handleCommand(ctx, ev)
	}

	// Artifacts are accepted in any state, including outside the flow.
	if ev.HasArtifact() {
		return h.intake.HandleArtifact(ctx, ev)
	}

	// Menu buttons double as conversational entry phrases.
	switch strings.ToLower(strings.TrimSpace(ev.Text)) {
	case strings.ToLower(constant.BtnSendCV):
		return h.intake.Start(ctx, ev)
	case strings.ToLower(constant.BtnVacancies):
		return h.viewVacancies(ctx, ev)
	case strings.ToLower(constant.BtnContact):
		return h.contactHR(ev)
	}

	if handled, err := h.intake.HandleText(ctx, ev); handled || err != nil {
		return err
	}

	h.log.Debug("handler", "unrouted text ignored", map[string]interface{}{
		"identity": ev.Identity,
	})
	return nil
}

func (h *UpdateHandler) handleCommand(ctx context.Context, ev *dto.InboundEvent) error {
	switch ev.Command {
	case constant.CmdStart:
		return h.replier.Reply(ev.Identity, constant.MsgGreeting, gateway.WithMainMenu())
	case constant.CmdMenu:
		return h.replier.Reply(ev.Identity, constant.MsgChooseMenu, gateway.WithMainMenu())
	case constant.CmdApply:
		return h.intake.Start(ctx, ev)
	case constant.CmdCancel:
		return h.intake.Cancel(ctx, ev)
	case constant.CmdVacancies:
		return h.viewVacancies(ctx, ev)
	case constant.CmdContact:
		return h.contactHR(ev)
	}
	return nil
}

// whereAmI answers into the chat the command came from, group or private.
func (h *UpdateHandler) whereAmI(ev *dto.InboundEvent) error {
	return h.replier.Reply(ev.ChatID, fmt.Sprintf("chat_id = %d\nmessage_thread_id (topic_id) = %d", ev.ChatID, ev.ThreadID))
}

func (h *UpdateHandler) viewVacancies(ctx context.Context, ev *dto.InboundEvent) error {
	if link := h.vacancies.TopicLink(); link != "" {
		return h.replier.Reply(ev.Identity,
			"Our vacancies are posted in our Telegram topic:",
			gateway.WithURLButtons(gateway.URLButton{Label: "Open vacancies topic", URL: link}),
		)
	}

	items, err := h.vacancies.List(ctx, 10)
	if err != nil {
		h.log.Error("handler", "vacancies fetch failed", map[string]interface{}{
			"error": err.Error(),
		})
		items = nil
	}
	if len(items) == 0 {
		if h.siteURL != "" {
			return h.replier.Reply(ev.Identity, "No open vacancies right now.",
				gateway.WithURLButtons(gateway.URLButton{Label: "More on site", URL: h.siteURL}))
		}
		return h.replier.Reply(ev.Identity,
			"Vacancies page is not configured yet.\nPlease contact HR for the latest openings.",
			gateway.WithMainMenu())
	}

	buttons := make([]gateway.URLButton, 0, len(items)+1)
	for _, it := range items {
		label := it.Title
		if it.Location != "" {
			label += " — " + it.Location
		}
		if r := []rune(label); len(r) > 64 {
			label = string(r[:64])
		}
		url := it.URL
		if url == "" {
			url = h.siteURL
		}
		if url == "" {
			continue
		}
		buttons = append(buttons, gateway.URLButton{Label: label, URL: url})
	}
	if h.siteURL != "" {
		buttons = append(buttons, gateway.URLButton{Label: "More on site", URL: h.siteURL})
	}
	return h.replier.Reply(ev.Identity, "Open roles:", gateway.WithURLButtons(buttons...))
}

func (h *UpdateHandler) contactHR(ev *dto.InboundEvent) error {
	lines := []string{"You can reach our HR team here:"}
	if h.hr.Email != "" {
		lines = append(lines, "• Email: "+h.hr.Email)
	}
	if h.hr.Telegram != "" {
		handle := h.hr.Telegram
		if !strings.HasPrefix(handle, "@") {
			handle = "@" + handle
		}
		lines = append(lines, "• Telegram: "+handle)
	}
	if h.hr.Email == "" && h.hr.Telegram == "" {
		lines = append(lines, "• Email: "+constant.DefaultHREmail)
	}
	return h.replier.Reply(ev.Identity, strings.Join(lines, "\n"), gateway.WithMainMenu())
}
