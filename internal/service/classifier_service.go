package service

import (
	"context"
	"strings"
)

type IClassifierService interface {
	// Classify scans the catalog in source order and returns the folder and
	// category of the first rule matching anywhere in text. No match (or an
	// empty catalog) returns ("", ""). A matching rule with an empty folder
	// returns its category with an empty folder, meaning "use the default".
	Classify(ctx context.Context, text string) (folderID, category string)
}

type classifierService struct {
	catalog ICatalogService
}

func NewClassifierService(catalog ICatalogService) IClassifierService {
	return &classifierService{catalog: catalog}
}

func (s *classifierService) Classify(ctx context.Context, text string) (string, string) {
	for _, rule := range s.catalog.Load(ctx, false) {
		if rule.Matches(text) {
			return rule.FolderID, rule.Category
		}
	}
	return "", ""
}

// ClassificationText joins the non-empty parts with single spaces. The intake
// flow feeds it position, source and the sanitized filename.
func ClassificationText(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}
