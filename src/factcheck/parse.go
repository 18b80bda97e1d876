package factcheck

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrParse marks model output that could not be turned into a Result.
var ErrParse = errors.New("factcheck: unparseable model response")

var validate = validator.New(validator.WithRequiredStructEnabled())

// wireResult mirrors Result with loose types so that malformed values can be
// reported instead of silently zeroed.
type wireResult struct {
	Verdict          *string          `json:"verdict"`
	ConfidenceScore  *json.RawMessage `json:"confidenceScore"`
	Summary          string           `json:"summary"`
	KeyFacts         []string         `json:"keyFacts"`
	IsDeveloping     bool             `json:"isDeveloping"`
	LogicExplanation string           `json:"logicExplanation"`
	Sources          []wireSource     `json:"sources"`
}

type wireSource struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Domain    string `json:"domain"`
	Sentiment string `json:"sentiment"`
}

type checkedResult struct {
	Verdict         string          `validate:"required,oneof=VERIFIED FALSE MISLEADING UNVERIFIED"`
	ConfidenceScore int             `validate:"min=0,max=100"`
	Sources         []checkedSource `validate:"dive"`
}

type checkedSource struct {
	Sentiment string `validate:"oneof=SUPPORT DISPUTE NEUTRAL"`
}

// ParseResult decodes model output into a Result. raw may contain prose or
// markdown around the object. Every failure wraps ErrParse.
func ParseResult(raw string) (*Result, error) {
	res, err := decodeResult([]byte(ExtractJSON(raw)))
	if err == nil {
		return res, nil
	}
	// Braces in leading prose end up in the slice; retry with the object
	// that closes the text.
	if obj, ok := trailingObject(raw); ok {
		if r, scanErr := decodeResult(obj); scanErr == nil {
			return r, nil
		}
	}
	return nil, err
}

func decodeResult(data []byte) (*Result, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no JSON object found", ErrParse)
	}

	var w wireResult
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if w.Verdict == nil {
		return nil, fmt.Errorf("%w: missing verdict", ErrParse)
	}
	if w.ConfidenceScore == nil {
		return nil, fmt.Errorf("%w: missing confidenceScore", ErrParse)
	}
	score, err := parseScore(*w.ConfidenceScore)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Verdict:          Verdict(strings.ToUpper(strings.TrimSpace(*w.Verdict))),
		ConfidenceScore:  score,
		Summary:          w.Summary,
		KeyFacts:         w.KeyFacts,
		IsDeveloping:     w.IsDeveloping,
		LogicExplanation: w.LogicExplanation,
		Sources:          make([]Source, 0, len(w.Sources)),
	}
	if res.KeyFacts == nil {
		res.KeyFacts = []string{}
	}

	checked := checkedResult{Verdict: string(res.Verdict), ConfidenceScore: score}
	for _, s := range w.Sources {
		sentiment := Sentiment(strings.ToUpper(strings.TrimSpace(s.Sentiment)))
		if sentiment == "" {
			sentiment = SentimentNeutral
		}
		res.Sources = append(res.Sources, Source{
			Title:     s.Title,
			URL:       s.URL,
			Domain:    s.Domain,
			Sentiment: sentiment,
		})
		checked.Sources = append(checked.Sources, checkedSource{Sentiment: string(sentiment)})
	}
	if err := validate.Struct(checked); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	sanitizeResult(res)
	return res, nil
}

// parseScore accepts a JSON number holding a whole value in [0,100].
// Strings, booleans, null and fractional numbers are rejected.
func parseScore(raw json.RawMessage) (int, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || !(text[0] == '-' || (text[0] >= '0' && text[0] <= '9')) {
		return 0, fmt.Errorf("%w: confidenceScore %s is not a number", ErrParse, text)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: confidenceScore %s: %v", ErrParse, text, err)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: confidenceScore %s is not an integer", ErrParse, text)
	}
	if f < 0 || f > 100 {
		return 0, fmt.Errorf("%w: confidenceScore %s out of range", ErrParse, text)
	}
	return int(f), nil
}
