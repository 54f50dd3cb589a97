// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package correct

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"
)

// batchSeparator joins and splits the texts of one batch inside the chat
// prompt. It must survive the model round trip unchanged, which is why it
// is an opaque token rather than punctuation.
const batchSeparator = "#SEP#"

// correctionPromptTmpl instructs the model to correct French text without
// touching proper nouns, whitelisted tokens, or the separator.
var correctionPromptTmpl = template.Must(template.New("correction").Parse(`Corrige le texte suivant en français :
- Corrige les fautes d'orthographe, de grammaire, de ponctuation, de conjugaison et la concordance des temps.
- Améliore la syntaxe et la clarté.
- Ne modifie pas les noms propres, les anglicismes ni le latin (ex: io vivat).
- Ne modifie pas les mots suivants : {{.Whitelist}}.
- Les segments sont séparés par {{.Separator}} ; conserve exactement ces séparateurs et le nombre de segments.

Ta réponse doit UNIQUEMENT contenir le texte corrigé, sans explications ni commentaires.

Texte à corriger :

{{.Text}}
`))

// cohereAPIURL is the Cohere chat endpoint. Package-level var for test
// substitution.
var cohereAPIURL = "https://api.cohere.com/v1/chat"

// defaultModel is used when no model is configured.
const defaultModel = "command-a-03-2025"

// CohereBackend implements Client over the Cohere chat API. The batch is
// joined with batchSeparator into one prompt and the response is split
// back; a response with the wrong segment count is an error, which the
// caller treats as a batch failure.
type CohereBackend struct {
	APIKey    string
	Model     string
	Whitelist []string
	Client    *http.Client

	// Prompt overrides the built-in prompt template when non-nil.
	Prompt *template.Template
}

// cohereRequest is the request body for the Cohere chat API.
type cohereRequest struct {
	Model       string  `json:"model"`
	Message     string  `json:"message"`
	Temperature float64 `json:"temperature"`
}

// cohereResponse is the response body from the Cohere chat API.
type cohereResponse struct {
	Text string `json:"text"`
}

// CorrectTexts sends one batch to the chat endpoint and returns the
// corrected texts in request order.
func (c *CohereBackend) CorrectTexts(ctx context.Context, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	prompt, err := c.renderPrompt(strings.Join(texts, batchSeparator))
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	model := c.Model
	if model == "" {
		model = defaultModel
	}

	reqBody := cohereRequest{
		Model:       model,
		Message:     prompt,
		Temperature: 0.0,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cohereAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling correction API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("correction API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp cohereResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return nil, fmt.Errorf("decoding correction response: %w", err)
	}

	corrected := strings.Split(strings.TrimSpace(cResp.Text), batchSeparator)
	if len(corrected) != len(texts) {
		return nil, fmt.Errorf("correction response has %d segments, want %d", len(corrected), len(texts))
	}
	for i := range corrected {
		corrected[i] = strings.TrimSpace(corrected[i])
	}
	return corrected, nil
}

// renderPrompt fills the prompt template with the whitelist and the joined
// batch text.
func (c *CohereBackend) renderPrompt(text string) (string, error) {
	tmpl := c.Prompt
	if tmpl == nil {
		tmpl = correctionPromptTmpl
	}

	whitelist := "aucun"
	if len(c.Whitelist) > 0 {
		whitelist = strings.Join(c.Whitelist, ", ")
	}

	var b strings.Builder
	err := tmpl.Execute(&b, struct {
		Whitelist string
		Separator string
		Text      string
	}{Whitelist: whitelist, Separator: batchSeparator, Text: text})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
