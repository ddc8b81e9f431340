package service

import (
	"context"
	"testing"
	"time"

	"hr-intake-bot/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func newTestClassifier(rows [][]string) IClassifierService {
	source := &fakeRuleSource{rows: rows}
	catalog := NewCatalogService(source, "Categories", logger.NewNopLogger(), time.Now)
	return NewClassifierService(catalog)
}

func TestClassifyFirstMatchWins(t *testing.T) {
	classifier := newTestClassifier(catalogRows(
		[]string{"First", "developer", "F1", ""},
		[]string{"Second", "developer", "F2", ""},
	))

	folder, category := classifier.Classify(context.Background(), "junior developer")

	assert.Equal(t, "F1", folder)
	assert.Equal(t, "First", category)
}

func TestClassifyExampleScenario(t *testing.T) {
	classifier := newTestClassifier(catalogRows(
		[]string{"Engineering", "developer, engineer", "F1", ""},
	))

	folder, category := classifier.Classify(context.Background(), "Senior Backend Developer")
	assert.Equal(t, "F1", folder)
	assert.Equal(t, "Engineering", category)

	folder, category = classifier.Classify(context.Background(), "Sales Manager")
	assert.Empty(t, folder)
	assert.Empty(t, category)
}

func TestClassifyEmptyFolderStillReturnsCategory(t *testing.T) {
	classifier := newTestClassifier(catalogRows(
		[]string{"General", "cv", "", ""},
	))

	folder, category := classifier.Classify(context.Background(), "my cv attached")

	assert.Empty(t, folder)
	assert.Equal(t, "General", category)
}

func TestClassifyEmptyCatalog(t *testing.T) {
	classifier := newTestClassifier(nil)

	folder, category := classifier.Classify(context.Background(), "anything")

	assert.Empty(t, folder)
	assert.Empty(t, category)
}

func TestClassifyDeterministic(t *testing.T) {
	classifier := newTestClassifier(catalogRows(
		[]string{"A", "alpha, beta", "F1", ""},
		[]string{"B", "beta, gamma", "F2", ""},
	))

	for i := 0; i < 10; i++ {
		folder, category := classifier.Classify(context.Background(), "beta tester")
		assert.Equal(t, "F1", folder)
		assert.Equal(t, "A", category)
	}
}

func TestClassificationText(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{"all parts", []string{"Developer", "LinkedIn", "cv.pdf"}, "Developer LinkedIn cv.pdf"},
		{"skips empties", []string{"", "LinkedIn", ""}, "LinkedIn"},
		{"all empty", []string{"", "", ""}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassificationText(tt.parts...))
		})
	}
}
