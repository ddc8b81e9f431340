package service

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"hr-intake-bot/internal/gateway"
	"hr-intake-bot/internal/model"
	"hr-intake-bot/internal/pkg/logger"
)

// catalogTTL is how long a loaded rule list stays fresh before the next
// Load refetches it from the sheet.
const catalogTTL = 5 * time.Minute

type ICatalogService interface {
	// Load returns the catalog rules in source row order. Within the cache
	// window Load(false) serves the cached list; Load(true) always refetches.
	// A fetch or parse failure never reaches the caller: the last
	// successfully loaded list (or an empty one) is returned instead.
	Load(ctx context.Context, force bool) []model.Rule
	// LoadedAt reports when the cached list was last refreshed.
	LoadedAt() (time.Time, bool)
}

type catalogService struct {
	source gateway.RuleSource
	tab    string
	log    logger.ILogger
	now    func() time.Time

	mu         sync.Mutex
	rules      []model.Rule
	fetchedAt  time.Time
	loaded     bool
	refreshing bool
}

func NewCatalogService(source gateway.RuleSource, tab string, log logger.ILogger, now func() time.Time) ICatalogService {
	if now == nil {
		now = time.Now
	}
	return &catalogService{
		source: source,
		tab:    tab,
		log:    log,
		now:    now,
	}
}

func (s *catalogService) Load(ctx context.Context, force bool) []model.Rule {
	s.mu.Lock()
	fresh := s.loaded && s.now().Sub(s.fetchedAt) < catalogTTL
	if (fresh && !force) || s.refreshing {
		// Serve the current list without waiting; at most one refresh is in
		// flight and its result lands for the next caller.
		rules := s.rules
		s.mu.Unlock()
		return rules
	}
	s.refreshing = true
	stale := s.rules
	s.mu.Unlock()

	rows, err := s.source.FetchRows(ctx, s.tab)
	if err != nil {
		s.log.Error("catalog", "failed to load categories sheet", map[string]interface{}{
			"tab":   s.tab,
			"error": err.Error(),
		})
		s.mu.Lock()
		s.refreshing = false
		s.mu.Unlock()
		return stale // last-known-good, possibly nil
	}

	rules := parseRules(rows)
	s.mu.Lock()
	s.rules = rules
	s.fetchedAt = s.now()
	s.loaded = true
	s.refreshing = false
	s.mu.Unlock()
	s.log.Info("catalog", "categories refreshed", map[string]interface{}{
		"rules": len(rules),
	})
	return rules
}

func (s *catalogService) LoadedAt() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchedAt, s.loaded
}

// parseRules converts raw sheet rows to ordered rules. The first row is a
// case-insensitive header; any subset of the known columns may be present.
// Rows without a category are dropped. An invalid pattern leaves the rule
// matcherless rather than dropping it.
func parseRules(rows [][]string) []model.Rule {
	if len(rows) == 0 {
		return []model.Rule{}
	}

	col := headerIndex(rows[0])
	iCat := col["category"]
	iKw := col["keywords"]
	iFid := col["folderid"]
	iPat := col["pattern"]

	rules := make([]model.Rule, 0, len(rows)-1)
	for _, row := range rows[1:] {
		category := strings.TrimSpace(cell(row, iCat))
		if category == "" {
			continue
		}

		pattern := strings.TrimSpace(cell(row, iPat))
		if pattern == "" {
			pattern = keywordPattern(cell(row, iKw))
		}

		rule := model.Rule{
			Category: category,
			FolderID: strings.TrimSpace(cell(row, iFid)),
			Pattern:  pattern,
		}
		if pattern != "" {
			if rx, err := regexp.Compile("(?i)" + pattern); err == nil {
				rule.Matcher = rx
			}
		}
		rules = append(rules, rule)
	}
	return rules
}

// keywordPattern synthesizes a whole-word alternation over the comma-separated
// keywords cell. Empty cells and empty tokens yield no pattern at all.
func keywordPattern(keywords string) string {
	var tokens []string
	for _, tok := range strings.Split(keywords, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			tokens = append(tokens, regexp.QuoteMeta(tok))
		}
	}
	if len(tokens) == 0 {
		return ""
	}
	return `\b(` + strings.Join(tokens, "|") + `)\b`
}

func headerIndex(header []string) map[string]int {
	col := map[string]int{"category": -1, "keywords": -1, "folderid": -1, "pattern": -1}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, known := col[name]; known {
			col[name] = i
		}
	}
	return col
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
