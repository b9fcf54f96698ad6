package prioritize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"opportunity-radar/config"
	"opportunity-radar/models"
)

// FailureKind classifies why the remote strategy failed.
type FailureKind string

const (
	FailureTransport FailureKind = "transport"
	FailureStatus    FailureKind = "status"
	FailureMalformed FailureKind = "malformed"
)

var (
	ErrNoCandidates = errors.New("no response content from Gemini")
	ErrNotArray     = errors.New("response is not an array")
)

// RemoteError wraps a Gemini failure with its classification.
type RemoteError struct {
	Kind       FailureKind
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.Kind == FailureStatus {
		return fmt.Sprintf("Gemini API error (%d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("Gemini %s failure: %v", e.Kind, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Gemini asks a generative model for prioritized actions.
type Gemini struct {
	client *genai.Client
	model  string
	now    func() time.Time
}

// NewGemini builds the remote strategy. cfg.APIKey must be set.
func NewGemini(ctx context.Context, cfg config.GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not configured")
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultGeminiModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: timeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gemini{client: client, model: model, now: time.Now}, nil
}

func (g *Gemini) Name() string {
	return "gemini:" + g.model
}

// Prioritize sends a single request. It does not retry; the engine decides
// what to do with a failure.
func (g *Gemini) Prioritize(ctx context.Context, events []models.GlobalEvent, domain string, n int) ([]models.PrioritizedAction, error) {
	prompt, err := BuildPrompt(events, domain, n)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.7),
		TopK:             genai.Ptr[float32](40),
		TopP:             genai.Ptr[float32](0.95),
		MaxOutputTokens:  4096,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, classify(err)
	}

	text, err := firstText(resp)
	if err != nil {
		return nil, &RemoteError{Kind: FailureMalformed, Err: err}
	}

	raw, err := ParseActionArray(text)
	if err != nil {
		return nil, &RemoteError{Kind: FailureMalformed, Err: err}
	}
	return ValidateActions(raw, g.now()), nil
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &RemoteError{Kind: FailureStatus, StatusCode: apiErr.Code, Err: err}
	}
	return &RemoteError{Kind: FailureTransport, Err: err}
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrNoCandidates
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil || len(c.Content.Parts) == 0 || c.Content.Parts[0] == nil {
		return "", ErrNoCandidates
	}
	text := c.Content.Parts[0].Text
	if text == "" {
		return "", ErrNoCandidates
	}
	return text, nil
}

// ParseActionArray decodes model text that must be a JSON array.
func ParseActionArray(text string) ([]json.RawMessage, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, fmt.Errorf("failed to parse Gemini response as JSON: %w", err)
	}
	if _, ok := v.([]any); !ok {
		return nil, ErrNotArray
	}
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse Gemini response as JSON: %w", err)
	}
	return raw, nil
}

type promptEvent struct {
	ID                    string          `json:"id"`
	Title                 string          `json:"title"`
	Summary               string          `json:"summary"`
	Category              models.Category `json:"category"`
	Heat                  int             `json:"heat"`
	RelevanceToUserDomain int             `json:"relevanceToUserDomain"`
	Related               string          `json:"related"`
	Impact                string          `json:"impact"`
}

// BuildPrompt renders the analyst prompt for n actions.
func BuildPrompt(events []models.GlobalEvent, domain string, n int) (string, error) {
	simplified := make([]promptEvent, 0, len(events))
	for _, e := range events {
		related := make([]string, 0, len(e.Related))
		for _, r := range e.Related {
			related = append(related, fmt.Sprintf("%s (%s)", r.Name, r.Type))
		}
		impact := make([]string, 0, len(e.Impact))
		for _, i := range e.Impact {
			impact = append(impact, fmt.Sprintf("%s: %s", i.Area, i.Level))
		}
		simplified = append(simplified, promptEvent{
			ID:                    e.ID,
			Title:                 e.Title,
			Summary:               e.Summary,
			Category:              e.Category,
			Heat:                  e.Heat,
			RelevanceToUserDomain: e.RelevanceToUserDomain,
			Related:               strings.Join(related, ", "),
			Impact:                strings.Join(impact, ", "),
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(simplified); err != nil {
		return "", err
	}
	eventsJSON := strings.TrimRight(buf.String(), "\n")

	return fmt.Sprintf(`You are a strategic business analyst helping a company in the "%[1]s" industry identify actionable opportunities based on global market events.

## Context
The user operates in the "%[1]s" space. Analyze the following market events and generate %[2]d prioritized strategic actions.

## Events Data
%[3]s

## Scoring Guidelines
For each action, provide scores from 0-100:
- priorityScore: Overall priority (calculated from other scores, higher = more urgent)
- impactScore: Potential business impact (higher = more impactful)
- riskScore: Associated risk level (higher = riskier, but may indicate opportunity)
- relevanceScore: How relevant to "%[1]s" (higher = more relevant)
- difficultyScore: Implementation difficulty (higher = more difficult)
- costScore: Resource/cost requirements (higher = more expensive)

## Action Types
Choose from: %[4]s

## Required Output Format
Return a JSON array of %[2]d actions. Each action must have this exact structure:
{
  "id": "unique-string-id",
  "title": "Concise action title (max 80 chars)",
  "explanation": "2-3 sentence explanation of why this action matters and its strategic value",
  "priorityScore": number,
  "riskScore": number,
  "difficultyScore": number,
  "costScore": number,
  "impactScore": number,
  "relevanceScore": number,
  "recommendedSteps": ["Step 1", "Step 2", "Step 3", "Step 4"],
  "sourceEventIds": ["event-id-1"],
  "actionType": "one-of-the-action-types"
}

IMPORTANT: Return ONLY the JSON array, no markdown formatting, no additional text. Sort by priorityScore descending.`,
		domain, n, eventsJSON, actionTypeList()), nil
}

func actionTypeList() string {
	types := models.ActionTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
