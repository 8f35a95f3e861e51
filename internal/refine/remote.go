package refine

// #region imports
import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/uago3c/uago/internal/catalog"
	"github.com/uago3c/uago/internal/invariant"
)

// #endregion

// #region config

// RemoteConfig parameterizes the remote text-generation service call.
type RemoteConfig struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// DefaultRemoteConfig targets the chat-completions endpoint the original
// deployment used.
func DefaultRemoteConfig() RemoteConfig {
	return RemoteConfig{
		Endpoint: "https://api.mistral.ai/v1/chat/completions",
		Model:    "mistral-large-latest",
		Timeout:  10 * time.Second,
	}
}

// #endregion

// #region wire-types

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// proposal is the structured parameter mapping the model must answer with.
// Any other shape is a parse failure.
type proposal struct {
	Family string         `json:"family"`
	Params catalog.Params `json:"params"`
}

// refinePayload is the bounded request body embedded in the user message.
type refinePayload struct {
	Invariants invariant.Vector  `json:"invariants"`
	Candidate  catalog.Candidate `json:"candidate"`
}

// #endregion

// #region remote-refiner

// RemoteRefiner asks a remote text-generation service for a parameter
// proposal. Every failure path degrades to the unrefined candidate with a
// diagnostic ErrRefinementUnavailable; nothing here can fail a run.
type RemoteRefiner struct {
	catalog *catalog.Catalog
	config  RemoteConfig
	client  *http.Client
}

// NewRemoteRefiner creates the adapter. httpClient may be nil, in which
// case a client bounded by config.Timeout is used.
func NewRemoteRefiner(cat *catalog.Catalog, config RemoteConfig, httpClient *http.Client) *RemoteRefiner {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	return &RemoteRefiner{catalog: cat, config: config, client: httpClient}
}

// Refine sends invariants and candidate to the remote service and applies
// the returned parameter proposal when it validates against the family
// schema. On any failure the input candidate is returned unchanged.
func (r *RemoteRefiner) Refine(ctx context.Context, v invariant.Vector, c catalog.Candidate) (catalog.Candidate, error) {
	if r.config.APIKey == "" {
		return c, fmt.Errorf("%w: no API key configured", ErrRefinementUnavailable)
	}

	next, err := r.call(ctx, v, c)
	if err != nil {
		log.Printf("[REFINE] falling back to unrefined candidate: %v", err)
		return c, err
	}
	return next, nil
}

func (r *RemoteRefiner) call(ctx context.Context, v invariant.Vector, c catalog.Candidate) (catalog.Candidate, error) {
	payload, err := json.Marshal(refinePayload{Invariants: v, Candidate: c})
	if err != nil {
		return c, fmt.Errorf("%w: marshal payload: %v", ErrRefinementUnavailable, err)
	}

	reqBody, err := json.Marshal(chatRequest{
		Model: r.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: string(payload)},
		},
		Temperature: 0.2,
		MaxTokens:   200,
	})
	if err != nil {
		return c, fmt.Errorf("%w: marshal request: %v", ErrRefinementUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.config.Endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return c, fmt.Errorf("%w: build request: %v", ErrRefinementUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+r.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return c, fmt.Errorf("%w: %v", ErrRefinementUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c, fmt.Errorf("%w: status %d", ErrRefinementUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return c, fmt.Errorf("%w: read response: %v", ErrRefinementUnavailable, err)
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil || len(chat.Choices) == 0 {
		return c, fmt.Errorf("%w: malformed response", ErrRefinementUnavailable)
	}

	return r.applyProposal(c, chat.Choices[0].Message.Content)
}

// applyProposal parses the structured proposal and validates it against the
// candidate's family schema. A proposal for a different family, with
// unknown parameters, or with out-of-range values is rejected.
func (r *RemoteRefiner) applyProposal(c catalog.Candidate, content string) (catalog.Candidate, error) {
	content = stripFences(content)

	var prop proposal
	if err := json.Unmarshal([]byte(content), &prop); err != nil {
		return c, fmt.Errorf("%w: proposal not parseable", ErrRefinementUnavailable)
	}
	if prop.Family != c.FamilyID {
		return c, fmt.Errorf("%w: proposal for family %q, want %q", ErrRefinementUnavailable, prop.Family, c.FamilyID)
	}

	fam, ok := r.catalog.Lookup(c.FamilyID)
	if !ok {
		return c, fmt.Errorf("%w: family %q not in catalog", ErrRefinementUnavailable, c.FamilyID)
	}

	// Proposals may be partial; merge over the current bindings.
	merged := c.Params.Clone()
	for k, v := range prop.Params {
		merged[k] = v
	}
	validated, err := catalog.ValidateParams(fam.Schema(), merged)
	if err != nil {
		return c, fmt.Errorf("%w: proposal rejected: %v", ErrRefinementUnavailable, err)
	}
	return catalog.Candidate{FamilyID: c.FamilyID, Params: validated}, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

const systemPrompt = "You tune parameters of generative geometric formulas. " +
	"Given measured invariants and a candidate, respond with only a JSON object " +
	`of the shape {"family": "<same family id>", "params": {"<name>": <number>}} ` +
	"adjusting the parameters to better reproduce the invariants."

// #endregion
