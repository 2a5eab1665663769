package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyReader(t *testing.T) {
	thresholds := DefaultPersonalityThresholds()

	testCases := []struct {
		name     string
		input    PersonalityInput
		expected string
	}{
		{
			name:     "no sessions is a beginner whatever the books say",
			input:    PersonalityInput{Sessions: 0, BooksStarted: 10, BooksFinished: 10, CompletionRate: 100},
			expected: PersonalityBeginner,
		},
		{
			name:     "many short sessions",
			input:    PersonalityInput{Sessions: 101, AverageMinutes: 29.9},
			expected: PersonalityConstant,
		},
		{
			name:     "exactly 100 sessions is not constant",
			input:    PersonalityInput{Sessions: 100, AverageMinutes: 10, BooksStarted: 1, BooksFinished: 1, CompletionRate: 100},
			expected: PersonalityFinisher,
		},
		{
			name:     "average of exactly 30 is not constant",
			input:    PersonalityInput{Sessions: 150, AverageMinutes: 30},
			expected: PersonalityBalanced,
		},
		{
			name:     "few long sessions",
			input:    PersonalityInput{Sessions: 49, AverageMinutes: 45.5},
			expected: PersonalityIntensive,
		},
		{
			name:     "average of exactly 45 is not intensive",
			input:    PersonalityInput{Sessions: 10, AverageMinutes: 45},
			expected: PersonalityBalanced,
		},
		{
			name:     "50 sessions is not intensive",
			input:    PersonalityInput{Sessions: 50, AverageMinutes: 90, BooksStarted: 5, BooksFinished: 1, CompletionRate: 20},
			expected: PersonalityExplorer,
		},
		{
			name:     "started more than twice finished",
			input:    PersonalityInput{Sessions: 60, AverageMinutes: 35, BooksStarted: 5, BooksFinished: 2, CompletionRate: 40},
			expected: PersonalityExplorer,
		},
		{
			name:     "started exactly twice finished is not explorer",
			input:    PersonalityInput{Sessions: 60, AverageMinutes: 35, BooksStarted: 4, BooksFinished: 2, CompletionRate: 50},
			expected: PersonalityBalanced,
		},
		{
			name:     "high completion",
			input:    PersonalityInput{Sessions: 60, AverageMinutes: 35, BooksStarted: 5, BooksFinished: 5, CompletionRate: 100},
			expected: PersonalityFinisher,
		},
		{
			name:     "completion of exactly 80 is not finisher",
			input:    PersonalityInput{Sessions: 60, AverageMinutes: 35, BooksStarted: 5, BooksFinished: 4, CompletionRate: 80},
			expected: PersonalityBalanced,
		},
		{
			name:     "constant wins over explorer",
			input:    PersonalityInput{Sessions: 200, AverageMinutes: 10, BooksStarted: 9, BooksFinished: 0},
			expected: PersonalityConstant,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := ClassifyReader(tc.input, thresholds)
			assert.Equal(t, tc.expected, p.Type)
			assert.NotEmpty(t, p.Description)
		})
	}
}

func TestClassifyReader_CustomThresholds(t *testing.T) {
	thresholds := DefaultPersonalityThresholds()
	thresholds.ConstantMinSessions = 5

	p := ClassifyReader(PersonalityInput{Sessions: 6, AverageMinutes: 10}, thresholds)
	assert.Equal(t, PersonalityConstant, p.Type)
}
