package model

// Suggestion is a candidate category proposed by a model backend.
// Confidence is the raw value as returned by the model: it may already be in
// [0,1], may be a percentage, or may be missing entirely.
type Suggestion struct {
	Confidence    *float64
	Name          string
	Justification string
}

// ConfidenceBucket classifies a normalized confidence value for display.
type ConfidenceBucket string

// Confidence buckets.
const (
	BucketHigh   ConfidenceBucket = "high"
	BucketMedium ConfidenceBucket = "medium"
	BucketLow    ConfidenceBucket = "low"
	BucketNone   ConfidenceBucket = ""
)

// NormalizeConfidence maps a raw confidence to [0,1]. Values above 1 are
// treated as percentages, values still above 1 after that are capped, and
// negative values are treated as absent.
func NormalizeConfidence(raw *float64) *float64 {
	if raw == nil {
		return nil
	}
	v := *raw
	if v > 1 {
		v /= 100
	}
	if v > 1 {
		v = 1
	}
	if v < 0 {
		return nil
	}
	return &v
}

// Bucket classifies a normalized confidence: high >= 0.80, medium >= 0.50,
// low otherwise. A nil confidence has no bucket.
func Bucket(normalized *float64) ConfidenceBucket {
	if normalized == nil {
		return BucketNone
	}
	switch {
	case *normalized >= 0.80:
		return BucketHigh
	case *normalized >= 0.50:
		return BucketMedium
	default:
		return BucketLow
	}
}

// AnnotatedSuggestion is a validated suggestion prepared for presentation:
// its name resolved to a canonical category id, its confidence normalized
// and bucketed.
type AnnotatedSuggestion struct {
	Confidence    *float64
	Name          string
	Justification string
	Bucket        ConfidenceBucket
	CategoryID    int
}

// Approval is the render request presented to the user for one transaction:
// the transaction itself, the validated and annotated suggestions, and the
// full category list as a manual fallback.
type Approval struct {
	Transaction   Transaction
	SuggestionErr string
	Suggestions   []AnnotatedSuggestion
	Categories    []Category
	PreselectedID int
}

// DecisionAction is the kind of decision resolved by the approval gate.
type DecisionAction int

// Decision actions. Exactly one is produced per presented transaction.
const (
	DecisionSkip DecisionAction = iota
	DecisionCommit
	DecisionCancel
)

func (a DecisionAction) String() string {
	switch a {
	case DecisionSkip:
		return "skip"
	case DecisionCommit:
		return "commit"
	case DecisionCancel:
		return "cancel"
	}
	return "unknown"
}

// Decision is the user's resolution for one transaction. CategoryID is set
// only for DecisionCommit.
type Decision struct {
	Action     DecisionAction
	CategoryID int
}
