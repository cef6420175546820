package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"logit-backend/internal/shared/metrics"
	"logit-backend/internal/shared/telemetry"
)

// Verdict is the validated part of a monthly analysis. The model's echoed
// employee and period are never trusted.
type Verdict struct {
	Summary string
	Rating  float64
	Model   string
}

// ResultPayload documents the object the monthly prompt asks for.
type ResultPayload struct {
	EmpID     string  `json:"emp_id" jsonschema:"required"`
	MonthYear string  `json:"month_year" jsonschema:"required"`
	Summary   string  `json:"summary" jsonschema:"required"`
	Rating    float64 `json:"rating" jsonschema:"required,minimum=0,maximum=10"`
}

var resultSchema = SchemaFor[ResultPayload]()

// Analyzer runs one generation under a deadline and extracts its JSON payload.
// There are no retries.
type Analyzer struct {
	Gen     Generator
	Timeout time.Duration
	// Structured sends the payload schema to providers that support constrained output.
	Structured bool
}

// Complete generates for req and returns the single JSON object in the output.
func (a *Analyzer) Complete(ctx context.Context, req Request) (json.RawMessage, Response, error) {
	if a == nil || a.Gen == nil {
		return nil, Response{}, errors.New("analyzer not configured")
	}
	if !a.Structured {
		req.Schema = nil
	}
	callCtx := ctx
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := a.Gen.Generate(callCtx, req)
	elapsed := metrics.SinceMs(start)
	metrics.ObserveLLMLatencyMs(elapsed)

	fields := telemetry.WithContext(ctx, map[string]any{
		"provider":      a.Gen.Name(),
		"model":         resp.Model,
		"duration_ms":   int64(elapsed),
		"prompt_tokens": resp.PromptTokens,
		"output_tokens": resp.OutputTokens,
	})
	if err != nil {
		fields["err"] = err
		telemetry.Error("llm.generate", fields)
		if errors.Is(err, ErrTimeout) || errors.Is(ctx.Err(), context.Canceled) {
			return nil, resp, err
		}
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
			return nil, resp, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, resp, err
	}
	telemetry.Info("llm.generate", fields)

	obj, err := ExtractObject(resp.Text)
	if err != nil {
		return nil, resp, err
	}
	return obj, resp, nil
}

// Analyze runs the monthly summary prompt and validates summary and rating.
func (a *Analyzer) Analyze(ctx context.Context, prompt string) (Verdict, error) {
	obj, resp, err := a.Complete(ctx, Request{
		Prompt:     prompt,
		Schema:     resultSchema,
		SchemaName: "MonthlySummary",
	})
	if err != nil {
		return Verdict{}, err
	}
	summary, rating, err := DecodeVerdict(obj)
	if err != nil {
		return Verdict{}, err
	}
	return Verdict{Summary: summary, Rating: rating, Model: resp.Model}, nil
}

// DecodeVerdict reads summary and rating from obj. Rating may be a number or a
// numeric string and must lie in [0, 10].
func DecodeVerdict(obj json.RawMessage) (string, float64, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(obj, &fields); err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	var summary string
	if raw, ok := fields["summary"]; ok {
		if err := json.Unmarshal(raw, &summary); err != nil {
			return "", 0, fmt.Errorf("%w: summary must be a string", ErrMalformedPayload)
		}
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", 0, fmt.Errorf("%w: summary is empty", ErrMalformedPayload)
	}

	raw, ok := fields["rating"]
	if !ok {
		return "", 0, fmt.Errorf("%w: rating is missing", ErrMalformedPayload)
	}
	rating, err := parseRating(raw)
	if err != nil {
		return "", 0, err
	}
	return summary, rating, nil
}

func parseRating(raw json.RawMessage) (float64, error) {
	var rating float64
	if err := json.Unmarshal(raw, &rating); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("%w: rating must be a number", ErrMalformedPayload)
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: rating must be a number", ErrMalformedPayload)
		}
		rating = parsed
	}
	if math.IsNaN(rating) || math.IsInf(rating, 0) || rating < 0 || rating > 10 {
		return 0, fmt.Errorf("%w: rating %v outside [0, 10]", ErrMalformedPayload, rating)
	}
	return rating, nil
}
