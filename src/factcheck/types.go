package factcheck

// Verdict is the four-way outcome of a claim check.
type Verdict string

const (
	VerdictVerified   Verdict = "VERIFIED"
	VerdictFalse      Verdict = "FALSE"
	VerdictMisleading Verdict = "MISLEADING"
	VerdictUnverified Verdict = "UNVERIFIED"
)

// Valid reports whether v is one of the four defined verdicts.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictVerified, VerdictFalse, VerdictMisleading, VerdictUnverified:
		return true
	}
	return false
}

// Sentiment is a source's stance relative to the claim.
type Sentiment string

const (
	SentimentSupport Sentiment = "SUPPORT"
	SentimentDispute Sentiment = "DISPUTE"
	SentimentNeutral Sentiment = "NEUTRAL"
)

// Source is a single piece of evidence cited by the model.
type Source struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Domain    string    `json:"domain"`
	Sentiment Sentiment `json:"sentiment"`
}

// Result is the verdict returned to callers. Field names match the wire format.
type Result struct {
	Verdict          Verdict  `json:"verdict"`
	ConfidenceScore  int      `json:"confidenceScore"`
	Summary          string   `json:"summary"`
	KeyFacts         []string `json:"keyFacts"`
	IsDeveloping     bool     `json:"isDeveloping"`
	LogicExplanation string   `json:"logicExplanation"`
	Sources          []Source `json:"sources"`
}

const (
	parseErrorSummary = "Error parsing AI response."
	parseErrorLogic   = "Parse Error"

	untrustedSummary = "Sources found did not match our strict trusted whitelist. Therefore, this claim remains unverified by our standards."
)

var untrustedKeyFacts = []string{
	"Use of non-whitelisted sources detected and filtered.",
	"No trusted global reports found.",
}

// ParseFailureResult is the degraded payload returned when the model output
// could not be turned into a Result. It is a success value, not an error.
func ParseFailureResult() *Result {
	return &Result{
		Verdict:          VerdictUnverified,
		ConfidenceScore:  0,
		Summary:          parseErrorSummary,
		KeyFacts:         []string{},
		IsDeveloping:     false,
		LogicExplanation: parseErrorLogic,
		Sources:          []Source{},
	}
}
