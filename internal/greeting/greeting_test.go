package greeting

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	reply   string
	err     error
	prompts []string
	block   bool
}

func (m *stubModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.reply, m.err
}

func newGen(m TextModel) *Generator {
	return NewGenerator(m, 2025, time.Second, rand.New(rand.NewPCG(1, 2)), nil)
}

func isFallback(msg, name string) bool {
	for _, tmpl := range fallbackTemplates {
		if msg == fmt.Sprintf(tmpl, name, 2025) {
			return true
		}
	}
	return false
}

func TestGenerateReturnsModelText(t *testing.T) {
	m := &stubModel{reply: "  Snow-soft wishes for you, Ada.  \n"}
	msg := newGen(m).Generate(context.Background(), " Ada ")
	assert.Equal(t, "Snow-soft wishes for you, Ada.", msg)

	require.Len(t, m.prompts, 1)
	assert.Contains(t, m.prompts[0], "Christmas 2025 message for Ada.")
	assert.Contains(t, m.prompts[0], "10 to 20 words")

	themed := false
	for _, th := range Themes {
		if strings.Contains(m.prompts[0], th) {
			themed = true
		}
	}
	assert.True(t, themed)
}

func TestGenerateErrorUsesFallback(t *testing.T) {
	g := newGen(&stubModel{err: errors.New("quota exceeded")})
	for i := 0; i < 20; i++ {
		msg := g.Generate(context.Background(), "Ada")
		assert.Contains(t, msg, "Ada")
		assert.True(t, isFallback(msg, "Ada"))
	}
}

func TestGenerateEmptyReply(t *testing.T) {
	msg := newGen(&stubModel{reply: "   "}).Generate(context.Background(), "Ada")
	assert.Equal(t, "Merry Christmas 2025, Ada! May your days be filled with unique magic and unexpected joy.", msg)
}

func TestGenerateTimesOut(t *testing.T) {
	g := NewGenerator(&stubModel{block: true}, 2025, 10*time.Millisecond, nil, nil)
	msg := g.Generate(context.Background(), "Ada")
	assert.True(t, isFallback(msg, "Ada"), msg)
}

func TestGenerateWithoutModel(t *testing.T) {
	msg := newGen(nil).Generate(context.Background(), "Ada")
	assert.Contains(t, msg, "Ada")
}

func TestFallbackVariety(t *testing.T) {
	g := newGen(nil)
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[g.Fallback("Ada")] = true
	}
	assert.Len(t, seen, len(fallbackTemplates))
	for msg := range seen {
		assert.NotContains(t, msg, "%!")
	}
}

func TestNewGeminiModelRequiresKey(t *testing.T) {
	_, err := NewGeminiModel(context.Background(), "", "")
	assert.Error(t, err)
}
