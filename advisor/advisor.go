// Package advisor asks a Gemini model for a short analysis of the loan
// portfolio.
//
// The advisor is a best effort collaborator: Analyze always returns a text that
// can be shown to the lender, even when the model is not configured, does not
// answer, or fails.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/etnz/loanbook"
	"google.golang.org/genai"
)

const (
	DefaultModel    = "gemini-2.5-flash"
	DefaultLanguage = "Thai"
	DefaultTimeout  = 30 * time.Second
)

// ErrNotConfigured is returned by Analyze when no model client is available.
var ErrNotConfigured = errors.New("advisor is not configured")

// Generator is the part of the genai client the advisor uses. *genai.Models
// implements it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Advisor analyzes portfolios with a text generation model.
type Advisor struct {
	gen      Generator
	model    string
	language string
	timeout  time.Duration
	logger   *slog.Logger
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(a *Advisor) {
		if model != "" {
			a.model = model
		}
	}
}

// WithLanguage sets the language of the analysis, and of the fallback messages
// when they are known for that language.
func WithLanguage(language string) Option {
	return func(a *Advisor) {
		if language != "" {
			a.language = language
		}
	}
}

// WithTimeout bounds the duration of a single analysis.
func WithTimeout(d time.Duration) Option {
	return func(a *Advisor) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option { return func(a *Advisor) { a.logger = l } }

// New returns an Advisor generating text with gen. A nil gen is an advisor that
// is not configured.
func New(gen Generator, opts ...Option) *Advisor {
	a := &Advisor{
		gen:      gen,
		model:    DefaultModel,
		language: DefaultLanguage,
		timeout:  DefaultTimeout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewFromAPIKey creates the Gemini client for apiKey. An empty key is not an
// error, it returns an advisor that is not configured.
func NewFromAPIKey(ctx context.Context, apiKey string, opts ...Option) (*Advisor, error) {
	if apiKey == "" {
		return New(nil, opts...), nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("error initializing Gemini's client: %w", err)
	}
	return New(client.Models, opts...), nil
}

// Configured reports whether the advisor can reach a model.
func (a *Advisor) Configured() bool { return a.gen != nil }

// Analyze returns the model's analysis of briefs as markdown.
//
// The text is always displayable. When the advisor is not configured it is a
// message asking for a key and the error is ErrNotConfigured. When the model
// fails or times out it is a generic failure message and the error is an
// *loanbook.ExternalServiceError. An empty answer is replaced by an
// "unavailable" message with no error.
func (a *Advisor) Analyze(ctx context.Context, briefs []loanbook.Brief) (string, error) {
	msg := messagesFor(a.language)
	if a.gen == nil {
		return msg.notConfigured, ErrNotConfigured
	}

	prompt, err := a.prompt(briefs)
	if err != nil {
		return msg.failed, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	a.logger.Debug("asking the advisor", "model", a.model, "loans", len(briefs))
	resp, err := a.gen.GenerateContent(ctx, a.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(a.instruction(), genai.RoleUser),
	})
	if err != nil {
		a.logger.Warn("advisor call failed", "model", a.model, "error", err)
		return msg.failed, &loanbook.ExternalServiceError{Service: "gemini", Err: err}
	}

	text := ""
	if resp != nil {
		text = strings.TrimSpace(resp.Text())
	}
	if text == "" {
		a.logger.Warn("advisor returned no text", "model", a.model)
		return msg.unavailable, nil
	}
	return text, nil
}

func (a *Advisor) instruction() string {
	return fmt.Sprintf(`You are a smart financial assistant for a personal lending ledger.
You analyze the lender's portfolio and give short, concise advice.
Always answer in %s, formatted as Markdown.`, a.language)
}

// prompt embeds briefs as raw JSON data.
func (a *Advisor) prompt(briefs []loanbook.Brief) (string, error) {
	if briefs == nil {
		briefs = []loanbook.Brief{}
	}
	data, err := json.Marshal(briefs)
	if err != nil {
		return "", fmt.Errorf("cannot marshal briefs: %w", err)
	}
	return fmt.Sprintf(`Analyze the following portfolio of active loans.

Raw data:
%s

What is expected:
1. A risk overview: which borrowers or groups of borrowers are worrying.
2. Advice on managing the cash flow.
3. A short word of encouragement.

Answer in %s, formatted as Markdown.
`, data, a.language), nil
}

type messages struct {
	notConfigured string
	unavailable   string
	failed        string
}

var (
	english = messages{
		notConfigured: "Please configure an API key (GEMINI_API_KEY) to use the AI analysis.",
		unavailable:   "The portfolio cannot be analyzed at the moment.",
		failed:        "An error occurred while connecting to the AI.",
	}
	thai = messages{
		notConfigured: "กรุณาตั้งค่า API Key เพื่อใช้งานฟีเจอร์ AI",
		unavailable:   "ไม่สามารถวิเคราะห์ข้อมูลได้ในขณะนี้",
		failed:        "เกิดข้อผิดพลาดในการเชื่อมต่อกับ AI",
	}
)

func messagesFor(language string) messages {
	switch strings.ToLower(language) {
	case "thai", "th":
		return thai
	default:
		return english
	}
}
