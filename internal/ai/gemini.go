package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okialbert/wanderlust/internal/models"
)

// Ensure GeminiClient implements Generator
var _ Generator = (*GeminiClient)(nil)

// GeminiClient implements Generator against the Gemini generateContent
// REST endpoint.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGeminiClient creates a client for the given API key and model.
// baseURL normally points at the public Gemini API; tests override it.
func NewGeminiClient(apiKey, model, baseURL string) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Request/response shapes for the generateContent endpoint. Only the
// fields this client uses are declared.

type generateRequest struct {
	Contents         []content       `json:"contents"`
	GenerationConfig *generateConfig `json:"generationConfig,omitempty"`
	Tools            []tool          `json:"tools,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type tool struct {
	GoogleSearch *struct{} `json:"googleSearch,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		GroundingMetadata *struct {
			GroundingChunks []struct {
				Web *struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

// GenerateItinerary asks the model for a structured day-by-day plan.
func (g *GeminiClient) GenerateItinerary(ctx context.Context, destination string, days int, interests, budget string) (*GeneratedItinerary, error) {
	prompt := fmt.Sprintf(`Plan a %d-day trip to %s.
Budget: %s.
Interests: %s.
Provide a structured itinerary with specific activities, locations, and timings.
Return JSON: {"destination": string, "duration": number, "itinerary": [{"day": number,
"theme": string, "activities": [{"time": string, "activity": string, "location": string,
"description": string, "estimatedCost": string}]}]}.`,
		days, destination, budget, interests)

	resp, err := g.generate(ctx, generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generateConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate itinerary: %w", err)
	}

	itinerary := &GeneratedItinerary{}
	if err := json.Unmarshal([]byte(responseText(resp)), itinerary); err != nil {
		return nil, fmt.Errorf("failed to decode itinerary: %w", err)
	}
	return itinerary, nil
}

// TripInsights fetches a grounded travel advisory. The model is asked
// for markdown with fixed section headers; grounding sources come from
// the response metadata.
func (g *GeminiClient) TripInsights(ctx context.Context, destination, startDate string) (*models.TripInsights, error) {
	prompt := fmt.Sprintf(`I am planning a trip to %s starting on %s.
Using Google Search, please provide a concise travel safety and weather report.

Structure the response with markdown headers "## Weather", "## Safety",
"## Emergency" and "## Quick Tips". Under each header provide strictly
3-5 short bullet points (no paragraphs) covering forecast and packing,
key risks and areas to avoid, emergency numbers and hospital advice,
and tipping, SIM cards and local customs.`,
		destination, startDate)

	resp, err := g.generate(ctx, generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		Tools:    []tool{{GoogleSearch: &struct{}{}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch travel insights: %w", err)
	}

	insights := &models.TripInsights{
		Content:     responseText(resp),
		LastFetched: time.Now().UTC().Format(time.RFC3339),
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata != nil {
		for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
			if chunk.Web != nil {
				insights.Sources = append(insights.Sources, models.InsightSource{
					Title: chunk.Web.Title,
					URI:   chunk.Web.URI,
				})
			}
		}
	}
	return insights, nil
}

// ParseReceipt extracts expense fields from a receipt image.
func (g *GeminiClient) ParseReceipt(ctx context.Context, imageBase64, mimeType string) (*ReceiptFields, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	resp, err := g.generate(ctx, generateRequest{
		Contents: []content{{Parts: []part{
			{InlineData: &inlineData{MimeType: mimeType, Data: imageBase64}},
			{Text: `Extract expense details from this receipt. Return JSON with 'amount' (number),
'description' (string, merchant name), 'date' (YYYY-MM-DD string), and 'category'
(string: Food, Transport, Accommodation, Activity, or Other).`},
		}}},
		GenerationConfig: &generateConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse receipt: %w", err)
	}

	fields := &ReceiptFields{}
	if err := json.Unmarshal([]byte(responseText(resp)), fields); err != nil {
		return nil, fmt.Errorf("failed to decode receipt fields: %w", err)
	}
	return fields, nil
}

// ParseFlight extracts flight details from confirmation-email text.
func (g *GeminiClient) ParseFlight(ctx context.Context, emailText string) (*models.Flight, error) {
	prompt := fmt.Sprintf(`Extract flight details from this email confirmation text.
Text: %q
Return JSON with 'airline', 'flightNumber', 'departureTime' and 'arrivalTime'
(ISO date string or HH:MM), 'departureAirport' and 'arrivalAirport' (airport
codes, e.g. JFK), and 'price' (number).`, emailText)

	resp, err := g.generate(ctx, generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generateConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse flight email: %w", err)
	}

	flight := &models.Flight{}
	if err := json.Unmarshal([]byte(responseText(resp)), flight); err != nil {
		return nil, fmt.Errorf("failed to decode flight fields: %w", err)
	}
	return flight, nil
}

func (g *GeminiClient) generate(ctx context.Context, reqBody generateRequest) (*generateResponse, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, body)
	}

	out := &generateResponse{}
	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Candidates) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}
	return out, nil
}

func responseText(resp *generateResponse) string {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return resp.Candidates[0].Content.Parts[0].Text
}
