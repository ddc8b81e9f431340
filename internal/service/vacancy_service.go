package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"hr-intake-bot/internal/dto"
	"hr-intake-bot/internal/gateway"
	"hr-intake-bot/internal/model"
	"hr-intake-bot/internal/pkg/logger"
)

var urlRe = regexp.MustCompile(`https?://\S+`)

// IVacancyService captures vacancy posts from the configured group topic and
// lists current vacancies on request. It shares no state with the intake
// flow; each captured post is a one-shot transform.
type IVacancyService interface {
	// Matches reports whether the event comes from the configured
	// chat+topic pair.
	Matches(ev *dto.InboundEvent) bool
	// Capture appends a title/link row derived from the post text.
	Capture(ctx context.Context, ev *dto.InboundEvent) error
	// List returns up to max vacancies from the vacancies tab.
	List(ctx context.Context, max int) ([]model.Vacancy, error)
	// TopicLink builds a t.me link to the vacancies topic, or "" when the
	// chat+topic pair is not configured.
	TopicLink() string
}

type vacancyService struct {
	source  gateway.RuleSource
	sink    gateway.TabularSink
	tab     string
	chatID  int64
	topicID int
	log     logger.ILogger
	now     func() time.Time
}

func NewVacancyService(source gateway.RuleSource, sink gateway.TabularSink, tab string, chatID int64, topicID int, log logger.ILogger, now func() time.Time) IVacancyService {
	if now == nil {
		now = time.Now
	}
	return &vacancyService{
		source:  source,
		sink:    sink,
		tab:     tab,
		chatID:  chatID,
		topicID: topicID,
		log:     log,
		now:     now,
	}
}

func (s *vacancyService) Matches(ev *dto.InboundEvent) bool {
	if s.chatID == 0 || s.topicID == 0 {
		return false
	}
	return ev.IsGroup && ev.ChatID == s.chatID && ev.ThreadID == s.topicID
}

func (s *vacancyService) Capture(ctx context.Context, ev *dto.InboundEvent) error {
	title, url := ParseVacancyPost(ev.Text)
	if title == "" {
		return nil
	}
	row := []interface{}{
		s.now().UTC().Format("2006-01-02 15:04:05 MST"),
		title,
		url,
		"", // location
		"", // department
		fmt.Sprintf("%d", ev.ChatID),
		fmt.Sprintf("%d", ev.ThreadID),
		fmt.Sprintf("%d", ev.MessageID),
	}
	if err := s.sink.Append(ctx, s.tab, row); err != nil {
		return fmt.Errorf("append vacancy row: %w", err)
	}
	s.log.Info("vacancy", "post captured", map[string]interface{}{
		"title": title,
		"url":   url,
	})
	return nil
}

func (s *vacancyService) List(ctx context.Context, max int) ([]model.Vacancy, error) {
	rows, err := s.source.FetchRows(ctx, s.tab)
	if err != nil {
		return nil, fmt.Errorf("fetch vacancies: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := map[string]int{"title": -1, "url": -1, "location": -1, "department": -1}
	for i, name := range rows[0] {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, known := col[name]; known {
			col[name] = i
		}
	}

	var out []model.Vacancy
	for _, row := range rows[1:] {
		v := model.Vacancy{
			Title:      cell(row, col["title"]),
			URL:        cell(row, col["url"]),
			Location:   cell(row, col["location"]),
			Department: cell(row, col["department"]),
		}
		if v.Title == "" {
			continue
		}
		out = append(out, v)
		if len(out) >= max {
			break
		}
	}
	return out, nil
}

// TopicLink builds https://t.me/c/<id>/<topic> from the supergroup id, which
// carries a leading -100 prefix Telegram strips from links.
func (s *vacancyService) TopicLink() string {
	if s.chatID == 0 || s.topicID == 0 {
		return ""
	}
	cid := fmt.Sprintf("%d", s.chatID)
	cid = strings.TrimPrefix(cid, "-")
	cid = strings.TrimPrefix(cid, "100")
	return fmt.Sprintf("https://t.me/c/%s/%d", cid, s.topicID)
}

// ParseVacancyPost extracts the post title (first non-empty line) and link
// (first URL-looking substring).
func ParseVacancyPost(text string) (title, url string) {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			title = line
			break
		}
	}
	url = urlRe.FindString(text)
	return title, url
}
