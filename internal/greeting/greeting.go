package greeting

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/iburimskiy/festive-greeting/internal/logging"
)

const (
	DefaultModel   = "gemini-3-flash-preview"
	DefaultTimeout = 20 * time.Second

	temperature = 1.0
	topP        = 0.95
)

// Themes steer the model toward a different style on every request.
var Themes = []string{
	"Traditional, warm, and cozy",
	"Magical, whimsical, and full of wonder",
	"Modern, sleek, and bright",
	"Deeply poetic and serene",
	"Energetic, joyful, and festive",
	"Inspired by a snowy winter adventure",
	"Focusing on the light of the North Star",
}

var fallbackTemplates = []string{
	"Merry Christmas %[2]d, %[1]s! Wishing you a year as brilliant as the winter stars.",
	"To %[1]s: May the magic of this season wrap you in warmth and wonder.",
	"Happy %[2]d Holidays, %[1]s! May your heart be light and your home be full of laughter.",
	"A special Christmas wish for %[1]s: May beauty find you in every snowflake.",
}

// TextModel produces text for a prompt.
type TextModel interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Generator writes short festive messages. Generate always returns a message;
// any model failure is replaced by a canned fallback.
type Generator struct {
	model   TextModel
	year    int
	timeout time.Duration
	rng     *rand.Rand
	log     *zap.Logger
}

// NewGenerator wraps model. A nil model makes every call use a fallback.
func NewGenerator(model TextModel, year int, timeout time.Duration, rng *rand.Rand, log *zap.Logger) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Generator{model: model, year: year, timeout: timeout, rng: rng, log: logging.OrNop(log)}
}

// Prompt builds the request sent to the model for name and theme.
func Prompt(name, theme string, year int) string {
	return fmt.Sprintf("Generate a unique, short, heartwarming Christmas %d message for %s. "+
		"The vibe should be: %s. "+
		"Avoid standard clichés like \"merry and bright\" if possible. "+
		"Keep it between 10 to 20 words.", year, name, theme)
}

// Generate asks the model for a message to name.
func (g *Generator) Generate(ctx context.Context, name string) string {
	name = strings.TrimSpace(name)
	if g.model == nil {
		return g.Fallback(name)
	}

	theme := Themes[g.rng.IntN(len(Themes))]
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.model.GenerateText(ctx, Prompt(name, theme, g.year))
	if err != nil {
		g.log.Warn("message generation failed, using fallback", zap.String("name", name), zap.Error(err))
		return g.Fallback(name)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Sprintf("Merry Christmas %d, %s! May your days be filled with unique magic and unexpected joy.", g.year, name)
	}
	g.log.Debug("message generated", zap.String("theme", theme))
	return text
}

// Fallback returns a random pre-written message for name.
func (g *Generator) Fallback(name string) string {
	tmpl := fallbackTemplates[g.rng.IntN(len(fallbackTemplates))]
	return fmt.Sprintf(tmpl, name, g.year)
}

// GeminiModel calls the Gemini API.
type GeminiModel struct {
	client *genai.Client
	model  string
}

// NewGeminiModel creates a Gemini-backed TextModel.
func NewGeminiModel(ctx context.Context, apiKey, model string) (*GeminiModel, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiModel{client: client, model: model}, nil
}

func (m *GeminiModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](temperature),
		TopP:        genai.Ptr[float32](topP),
	})
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	return resp.Text(), nil
}
