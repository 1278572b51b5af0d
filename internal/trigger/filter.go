package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// Filter decides via a jq query if an event causes evaluations.
type Filter struct {
	query *gojq.Query
}

// NewFilter parses jqQuery.
// The query is run on the JSON payload of events and must return a single
// boolean value.
// An empty query matches all events.
func NewFilter(jqQuery string) (*Filter, error) {
	if strings.TrimSpace(jqQuery) == "" {
		return &Filter{}, nil
	}

	query, err := gojq.Parse(jqQuery)
	if err != nil {
		return nil, fmt.Errorf("parsing trigger query failed: %w", err)
	}

	return &Filter{query: query}, nil
}

func goJQIterToSlice(iter gojq.Iter) ([]any, []error) {
	var result []any
	var errs []error

	for {
		res, ok := iter.Next()
		if !ok {
			return result, errs
		}

		if err, isErr := res.(error); isErr {
			errs = append(errs, err)
			continue
		}

		result = append(result, res)
	}
}

func errString(errs []error) string {
	var result strings.Builder

	for i, err := range errs {
		if i > 0 {
			result.WriteString("; ")
		}

		result.WriteString(fmt.Sprintf("error %d: %s", i, err))
	}

	return result.String()
}

// Match returns Match if the filter query evaluates to true for the JSON
// representation of the event.
func (f *Filter) Match(ctx context.Context, event *Event) (MatchResult, error) {
	var evUn any

	if f.query == nil {
		return Match, nil
	}

	if len(event.JSON) == 0 {
		return MatchResultUndefined, errors.New("json field of event is empty")
	}

	err := json.Unmarshal(event.JSON, &evUn)
	if err != nil {
		return MatchResultUndefined, fmt.Errorf("unmarshaling json failed: %w", err)
	}

	result, errs := goJQIterToSlice(f.query.RunWithContext(ctx, evUn))
	if len(errs) != 0 {
		return MatchResultUndefined, fmt.Errorf("json query returned errors, query: %q, errors: %s", f.query.String(), errString(errs))
	}

	if len(result) != 1 {
		return MatchResultUndefined, fmt.Errorf("json query returned %d results, expected 1, query: %q", len(result), f.query.String())
	}

	val, ok := result[0].(bool)
	if !ok {
		return MatchResultUndefined, fmt.Errorf(
			"json query returned non-bool result: %+v (%T), query: %q",
			result[0], result[0], f.query.String(),
		)
	}

	if val {
		return Match, nil
	}

	return Mismatch, nil
}

func (f *Filter) String() string {
	if f.query == nil {
		return ""
	}

	return f.query.String()
}
