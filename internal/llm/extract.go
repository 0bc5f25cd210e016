package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var (
	fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	braceObject = regexp.MustCompile(`(?s)\{.*\}`)
)

// Strategy is one named way of pulling a JSON object out of model text
type Strategy struct {
	Name    string
	Extract func(text string) (json.RawMessage, error)
}

// Strategies are tried in order until one yields a JSON object.
var Strategies = []Strategy{
	{Name: "direct", Extract: extractDirect},
	{Name: "fenced", Extract: extractFenced},
	{Name: "brace", Extract: extractBrace},
}

var errNoCandidate = errors.New("no candidate found")

// ExtractError lists every strategy that was attempted
type ExtractError struct {
	Attempts []StrategyFailure
}

type StrategyFailure struct {
	Strategy string
	Err      error
}

func (e *ExtractError) Error() string {
	names := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		names[i] = a.Strategy + ": " + a.Err.Error()
	}
	return "no JSON object found (tried " + strings.Join(names, ", ") + ")"
}

// Tried returns the attempted strategy names in order.
func (e *ExtractError) Tried() []string {
	names := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		names[i] = a.Strategy
	}
	return names
}

// ExtractJSON returns the first JSON object found and the name of the
// strategy that found it.
func ExtractJSON(text string) (json.RawMessage, string, error) {
	extractErr := &ExtractError{}
	for _, s := range Strategies {
		raw, err := s.Extract(text)
		if err == nil {
			return raw, s.Name, nil
		}
		extractErr.Attempts = append(extractErr.Attempts, StrategyFailure{Strategy: s.Name, Err: err})
	}
	return nil, "", extractErr
}

func extractDirect(text string) (json.RawMessage, error) {
	return asObject(strings.TrimSpace(text))
}

func extractFenced(text string) (json.RawMessage, error) {
	m := fencedBlock.FindStringSubmatch(text)
	if m == nil {
		return nil, errNoCandidate
	}
	return asObject(strings.TrimSpace(m[1]))
}

func extractBrace(text string) (json.RawMessage, error) {
	m := braceObject.FindString(text)
	if m == "" {
		return nil, errNoCandidate
	}
	return asObject(m)
}

func asObject(candidate string) (json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return nil, err
	}
	return json.RawMessage(candidate), nil
}
