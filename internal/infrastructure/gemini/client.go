package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"wasteloop/internal/matching"

	"github.com/google/generative-ai-go/genai"
	"github.com/labstack/gommon/log"
	"google.golang.org/api/option"
)

// Client implements matching.Scorer on top of the Gemini inference API.
// Any failure (transport, empty candidates from the model, malformed JSON)
// is returned as a single error; callers never receive partial results.
type Client struct {
	model *genai.GenerativeModel
}

func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel("gemini-2.0-flash-001")
	model.ResponseMIMEType = "application/json"

	return &Client{model: model}, nil
}

type suggestionPayload struct {
	Suggestions []struct {
		MatchedID int64   `json:"matched_id"`
		Score     float64 `json:"score"`
		Reason    string  `json:"reason"`
	} `json:"suggestions"`
}

func (c *Client) Score(ctx context.Context, req matching.Request) ([]matching.Suggestion, error) {
	if len(req.Candidates) == 0 {
		return []matching.Suggestion{}, nil
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(buildPrompt(req)))
	if err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	part := resp.Candidates[0].Content.Parts[0]
	txt, ok := part.(genai.Text)
	if !ok {
		return nil, fmt.Errorf("unexpected response type")
	}

	var payload suggestionPayload
	if err := json.Unmarshal([]byte(txt), &payload); err != nil {
		log.Warnf("unparseable gemini payload: %s", string(txt))
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return c.sanitize(req, payload), nil
}

// sanitize guards against model drift: unknown candidate ids are dropped,
// scores are clamped to [0, 1], duplicates collapse to the first occurrence,
// and the result is re-sorted and capped like any other scorer output.
func (c *Client) sanitize(req matching.Request, payload suggestionPayload) []matching.Suggestion {
	companyByID := make(map[int64]int64, len(req.Candidates))
	for _, cand := range req.Candidates {
		companyByID[cand.ID] = cand.CompanyID
	}

	seen := make(map[int64]bool)
	out := make([]matching.Suggestion, 0, len(payload.Suggestions))
	for _, s := range payload.Suggestions {
		companyID, known := companyByID[s.MatchedID]
		if !known || seen[s.MatchedID] {
			continue
		}
		seen[s.MatchedID] = true

		score := s.Score
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}

		out = append(out, matching.Suggestion{
			MatchedID: s.MatchedID,
			CompanyID: companyID,
			Score:     score,
			Reason:    s.Reason,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if len(out) > matching.MaxSuggestions {
		out = out[:matching.MaxSuggestions]
	}
	return out
}

func buildPrompt(req matching.Request) string {
	var sb strings.Builder

	direction := "a waste residue offered by a generator, looking for transformer companies that need it"
	quantityRule := "prefer candidates whose requested quantity is close to the offered quantity"
	if req.Direction == matching.DemandSeeksSupply {
		direction = "a material need expressed by a transformer, looking for generator companies that offer it"
		quantityRule = "prefer candidates whose available quantity is sufficient to cover the requested quantity"
	}

	fmt.Fprintf(&sb, `You rank counterparty listings for an organic-waste marketplace.

The source listing is %s:
- waste type: %s, category: %s, quantity: %.2f %s, location: %s, %s

Candidates:
`, direction, req.Source.WasteType, req.Source.Category, req.Source.Quantity, req.Source.Unit, req.Source.City, req.Source.Country)

	for _, cand := range req.Candidates {
		fmt.Fprintf(&sb, "- id %d: waste type %s, category %s, quantity %.2f %s, location: %s, %s\n",
			cand.ID, cand.WasteType, cand.Category, cand.Quantity, cand.Unit, cand.City, cand.Country)
	}

	fmt.Fprintf(&sb, `
Ranking rules, in order of importance:
1. Waste type and category compatibility dominates. A mismatched category scores near 0 and should not appear in the results.
2. Geographic proximity: same city beats same country beats cross-country.
3. Quantity compatibility: %s.

Return at most %d suggestions as JSON only, sorted by score descending. Scores are between 0 and 1. Each reason is one short human-readable sentence naming the dominant factors.

JSON Schema:
{"suggestions": [{"matched_id": 0, "score": 0.0, "reason": "..."}]}
`, quantityRule, matching.MaxSuggestions)

	return sb.String()
}
