package handler

import (
	"context"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"hr-intake-bot/internal/config"
	"hr-intake-bot/internal/constant"
	"hr-intake-bot/internal/dto"
	"hr-intake-bot/internal/gateway"
	"hr-intake-bot/internal/model"
	"hr-intake-bot/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIntake struct {
	started   int
	cancelled int
	artifacts int
	texts     []string
	handled   bool
}

func (f *fakeIntake) Start(ctx context.Context, ev *dto.InboundEvent) error {
	f.started++
	return nil
}

func (f *fakeIntake) HandleText(ctx context.Context, ev *dto.InboundEvent) (bool, error) {
	f.texts = append(f.texts, ev.Text)
	return f.handled, nil
}

func (f *fakeIntake) HandleArtifact(ctx context.Context, ev *dto.InboundEvent) error {
	f.artifacts++
	return nil
}

func (f *fakeIntake) Cancel(ctx context.Context, ev *dto.InboundEvent) error {
	f.cancelled++
	return nil
}

func (f *fakeIntake) InFlow(identity int64) bool { return f.handled }

type fakeVacancies struct {
	matches  bool
	captured []string
	items    []model.Vacancy
	link     string
}

func (f *fakeVacancies) Matches(ev *dto.InboundEvent) bool { return f.matches }

func (f *fakeVacancies) Capture(ctx context.Context, ev *dto.InboundEvent) error {
	f.captured = append(f.captured, ev.Text)
	return nil
}

func (f *fakeVacancies) List(ctx context.Context, max int) ([]model.Vacancy, error) {
	return f.items, nil
}

func (f *fakeVacancies) TopicLink() string { return f.link }

type sentReply struct {
	to      int64
	text    string
	options gateway.ReplyOptions
}

type fakeReplier struct {
	mu      sync.Mutex
	replies []sentReply
}

func (f *fakeReplier) Reply(identity int64, text string, opts ...gateway.ReplyOption) error {
	var options gateway.ReplyOptions
	for _, opt := range opts {
		opt(&options)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, sentReply{to: identity, text: text, options: options})
	return nil
}

func (f *fakeReplier) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.replies))
	for i, r := range f.replies {
		out[i] = r.text
	}
	return out
}

func (f *fakeReplier) all() []sentReply {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentReply(nil), f.replies...)
}

type handlerFixture struct {
	intake    *fakeIntake
	vacancies *fakeVacancies
	replier   *fakeReplier
	handler   *UpdateHandler
}

func newHandlerFixture(hr config.HRConfig, siteURL string) *handlerFixture {
	f := &handlerFixture{
		intake:    &fakeIntake{},
		vacancies: &fakeVacancies{},
		replier:   &fakeReplier{},
	}
	f.handler = NewUpdateHandler(f.intake, f.vacancies, f.replier, logger.NewNopLogger(), hr, siteURL)
	return f
}

func TestRouteGroupPostCapturedOnlyWhenTopicMatches(t *testing.T) {
	f := newHandlerFixture(config.HRConfig{}, "")
	f.vacancies.matches = true

	f.handler.Handle(context.Background(), &dto.InboundEvent{IsGroup: true, Text: "New role"})
	require.Equal(t, []string{"New role"}, f.vacancies.captured)

	f.vacancies.matches = false
	f.handler.Handle(context.Background(), &dto.InboundEvent{IsGroup: true, Text: "Off topic"})
	assert.Len(t, f.vacancies.captured, 1)
}

func TestRouteGroupPostNeverEntersIntake(t *testing.T) {
	f := newHandlerFixture(config.HRConfig{}, "")
	f.vacancies.matches = true

	f.handler.Handle(context.Background(), &dto.InboundEvent{
		IsGroup:  true,
		Text:     "hello",
		Document: &dto.ArtifactRef{FileID: "x"},
	})

	assert.Zero(t, f.intake.artifacts)
	assert.Empty(t, f.intake.texts)
}

func TestRouteCommands(t *testing.T) {
	f := newHandlerFixture(config.HRConfig{}, "")

	f.handler.Handle(context.Background(), &dto.InboundEvent{Identity: 1, Command: constant.CmdApply})
	assert.Equal(t, 1, f.intake.started)

	f.handler.Handle(context.Background(), &dto.InboundEvent{Identity: 1, Command: constant.CmdCancel})
	assert.Equal(t, 1, f.intake.cancelled)

	f.handler.Handle(context.Background(), &dto.InboundEvent{Identity: 1, Command: constant.CmdStart})
	require.NotEmpty(t, f.replier.sent())
	assert.Equal(t, constant.MsgGreeting, f.replier.sent()[0])
}

func TestRouteWhereAmIEchoesChatAndTopic(t *testing.T) {
	f := newHandlerFixture(config.HRConfig{}, "")

	f.handler.Handle(context.Background(), &dto.InboundEvent{
		Identity: 1,
		ChatID:   1,
		ThreadID: 4,
		Command:  constant.CmdWhereAmI,
	})

	require.Len(t, f.replier.sent(), 1)
	assert.Contains(t, f.replier.sent()[0], "chat_id = 1")
	assert.Contains(t, f.replier.sent()[0], "topic_id) = 4")
}

func TestRouteWhereAmIWorksInsideGroups(t *testing.T) {
	f := newHandlerFixture(config.HRConfig{}, "")

	f.handler.Handle(context.Background(), &dto.InboundEvent{
		Identity: 1,
		ChatID:   -1001234567890,
		ThreadID: 77,
		IsGroup:  true,
		Command:  constant.CmdWhereAmI,
	})

	replies := f.replier.all()
	require.Len(t, replies, 1, "the id diagnostic must answer inside the group it was asked in")
	assert.Equal(t, int64(-1001234567890), replies[0].to)
	assert.Contains(t, replies[0].text, "chat_id = -1001234567890")
	assert.Contains(t, replies[0].text, "topic_id) = 77")
}

func TestRouteArtifactGoesToIntakeInAnyState(t *testing.T) {
	f := newHandlerFixture(config.HRConfig{}, "")

	f.handler.Handle(context.Background(), &dto.InboundEvent{
		Identity: 1,
		Photo:    &dto.ArtifactRef{FileID: "p"},
	})

	assert.Equal(t, 1, f.intake.artifacts)
}

func TestRouteMenuButtonsAreCaseInsensitive(t *testing.T) {
	f := newHandlerFixture(config.HRConfig{Email: "hr@example.com"}, "")

	f.handler.Handle(context.Background(), &dto.InboundEvent{Identity: 1, Text: "send cv"})
	assert.Equal(t, 1, f.intake.started)

	f.handler.Handle(context.Background(), &dto.InboundEvent{Identity: 1, Text: "  CONTACT HR  "})
	require.NotEmpty(t, f.replier.sent())
	assert.Contains(t, f.replier.sent()[len(f.replier.sent())-1], "hr@example.com")
}

func TestRouteFreeTextFallsThroughToIntake(t *testing.T) {
	f := newHandlerFixture(config.HRConfig{}, "")
	f.intake.handled = true

	f.handler.Handle(context.Background(), &dto.InboundEvent{Identity: 1, Text: "John Doe"})

	assert.Equal(t, []string{"John Doe"}, f.intake.texts)
}

func TestViewVacanciesPrefersTopicLink(t *testing.T) {
	f := newHandlerFixture(config.HRConfig{}, "https://example.com/jobs")
	f.vacancies.link = "https://t.me/c/123/4"
	f.vacancies.items = []model.Vacancy{{Title: "Unused", URL: "https://example.com/1"}}

	f.handler.Handle(context.Background(), &dto.InboundEvent{Identity: 1, Command: constant.CmdVacancies})

	require.Len(t, f.replier.sent(), 1)
	assert.Contains(t, f.replier.sent()[0], "Telegram topic")
}

func TestViewVacanciesListsSheetRowsWithoutTopic(t *testing.T) {
	f := newHandlerFixture(config.HRConfig{}, "")
	f.vacancies.items = []model.Vacancy{
		{Title: "Go Developer", URL: "https://example.com/1", Location: "Riga"},
	}

	f.handler.Handle(context.Background(), &dto.InboundEvent{Identity: 1, Command: constant.CmdVacancies})

	require.Len(t, f.replier.sent(), 1)
	assert.Equal(t, "Open roles:", f.replier.sent()[0])
}

func TestViewVacanciesTruncatesLabelsByRunes(t *testing.T) {
	f := newHandlerFixture(config.HRConfig{}, "")
	f.vacancies.items = []model.Vacancy{
		{Title: strings.Repeat("Ā", 80), URL: "https://example.com/1"},
	}

	f.handler.Handle(context.Background(), &dto.InboundEvent{Identity: 1, Command: constant.CmdVacancies})

	replies := f.replier.all()
	require.Len(t, replies, 1)
	require.Len(t, replies[0].options.Buttons, 1)
	label := replies[0].options.Buttons[0].Label
	assert.True(t, utf8.ValidString(label))
	assert.Equal(t, 64, utf8.RuneCountInString(label))
}

func TestViewVacanciesFallsBackToSite(t *testing.T) {
	f := newHandlerFixture(config.HRConfig{}, "https://example.com/jobs")

	f.handler.Handle(context.Background(), &dto.InboundEvent{Identity: 1, Command: constant.CmdVacancies})

	require.Len(t, f.replier.sent(), 1)
	assert.Contains(t, f.replier.sent()[0], "No open vacancies")
}

func TestContactHRDefaultsWhenUnconfigured(t *testing.T) {
	f := newHandlerFixture(config.HRConfig{}, "")

	f.handler.Handle(context.Background(), &dto.InboundEvent{Identity: 1, Command: constant.CmdContact})

	require.Len(t, f.replier.sent(), 1)
	assert.Contains(t, f.replier.sent()[0], constant.DefaultHREmail)
}

type panickyIntake struct{ fakeIntake }

func (p *panickyIntake) Start(ctx context.Context, ev *dto.InboundEvent) error {
	panic("boom")
}

func TestHandleRecoversFromPanic(t *testing.T) {
	replier := &fakeReplier{}
	h := NewUpdateHandler(&panickyIntake{}, &fakeVacancies{}, replier, logger.NewNopLogger(), config.HRConfig{}, "")

	h.Handle(context.Background(), &dto.InboundEvent{Identity: 1, Command: constant.CmdApply})

	require.Len(t, replier.sent(), 1)
	assert.Equal(t, constant.MsgGenericErr, replier.sent()[0])
}
