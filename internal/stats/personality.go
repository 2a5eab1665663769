package stats

// Reader personality types
const (
	PersonalityBeginner  = "beginner"
	PersonalityConstant  = "constant_reader"
	PersonalityIntensive = "intensive_reader"
	PersonalityExplorer  = "explorer"
	PersonalityFinisher  = "finisher"
	PersonalityBalanced  = "balanced_reader"
)

var personalityDescriptions = map[string]string{
	PersonalityBeginner:  "You're just starting your reading journey!",
	PersonalityConstant:  "You're a constant reader! You prefer short, frequent sessions and make reading a daily habit.",
	PersonalityIntensive: "You're an intensive reader! When you read, you dive deep with long, immersive sessions.",
	PersonalityExplorer:  "You're an explorer! You love starting new books and discovering different stories.",
	PersonalityFinisher:  "You're a finisher! You're committed to completing what you start.",
	PersonalityBalanced:  "You're a balanced reader! You have a healthy mix of reading habits.",
}

// Personality is the reader type assigned by ClassifyReader
type Personality struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// PersonalityThresholds are the cutoffs of the reader personality rules.
// All comparisons are strict.
type PersonalityThresholds struct {
	ConstantMinSessions   int     // constant reader: more sessions than this...
	ConstantMaxAverage    float64 // ...averaging less than this many minutes
	IntensiveMaxSessions  int     // intensive reader: fewer sessions than this...
	IntensiveMinAverage   float64 // ...averaging more than this many minutes
	ExplorerRatio         float64 // explorer: started books exceed finished books times this
	FinisherMinCompletion float64 // finisher: completion rate percentage above this
}

// DefaultPersonalityThresholds returns the stock cutoffs
func DefaultPersonalityThresholds() PersonalityThresholds {
	return PersonalityThresholds{
		ConstantMinSessions:   100,
		ConstantMaxAverage:    30,
		IntensiveMaxSessions:  50,
		IntensiveMinAverage:   45,
		ExplorerRatio:         2,
		FinisherMinCompletion: 80,
	}
}

// PersonalityInput is the year's activity the classifier looks at
type PersonalityInput struct {
	Sessions       int
	AverageMinutes float64
	BooksStarted   int
	BooksFinished  int
	CompletionRate float64
}

// ClassifyReader applies the personality rules in priority order; the first match wins.
// A reader with no sessions is a beginner whatever the book counts say.
func ClassifyReader(in PersonalityInput, t PersonalityThresholds) Personality {
	kind := PersonalityBalanced
	switch {
	case in.Sessions == 0:
		kind = PersonalityBeginner
	case in.Sessions > t.ConstantMinSessions && in.AverageMinutes < t.ConstantMaxAverage:
		kind = PersonalityConstant
	case in.Sessions < t.IntensiveMaxSessions && in.AverageMinutes > t.IntensiveMinAverage:
		kind = PersonalityIntensive
	case float64(in.BooksStarted) > float64(in.BooksFinished)*t.ExplorerRatio:
		kind = PersonalityExplorer
	case in.CompletionRate > t.FinisherMinCompletion:
		kind = PersonalityFinisher
	}
	return Personality{Type: kind, Description: personalityDescriptions[kind]}
}
