package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/Justin3134/linkedinflow/models"
)

const (
	postPrompt = `Based on the following content, create an engaging LinkedIn post:

%s
%s

Requirements:
- Professional but engaging tone
- Include relevant emojis (3-5 max)
- Add 3-5 relevant hashtags at the end
- Hook in the first line to grab attention
- 200-300 words
- LinkedIn best practices (authentic, value-driven)

IMPORTANT: Return ONLY valid JSON (no markdown, no code blocks) in this exact format:
{
    "content": "the post content with hashtags",
    "hashtags": ["tag1", "tag2", "tag3"],
    "image_description": "description for AI image generation (professional, business-appropriate)"
}`

	commentPrompt = `Generate a professional, personalized reply to this LinkedIn comment:

Comment: "%s"

%s

Guidelines:
- Be specific and reference their point
- Add value to the conversation
- Professional but warm tone
- 50-100 words
- Show engagement and appreciation`

	messageLikePrompt = `Generate a personalized LinkedIn message for someone who liked my post.

Recipient context: %s

Guidelines:
- Thank them for engaging
- Reference the post topic
- Invite further conversation
- Professional but friendly
- 100-150 words`

	messageCommentPrompt = `Generate a personalized LinkedIn message for someone who commented on my post.

Recipient context: %s

Guidelines:
- Thank them for their thoughtful comment
- Continue the conversation
- Build connection
- Professional but warm
- 100-150 words`

	commentFallback = "Thank you for your comment! I appreciate you taking the time to engage with my post."
	messageFallback = "Hi! Thanks for engaging with my post. I'd love to connect and continue the conversation!"
)

var hashtagRe = regexp.MustCompile(`#\w+`)

var defaultHashtags = []string{"ProfessionalDevelopment", "CareerAdvice", "Leadership"}

type llmModelConfig struct {
	Name string
	RPM  int
	RPD  int
}

// GeminiClient generates LinkedIn content with the Gemini API. Models are
// tried in order; a model that is rate-limited (locally or by the API) is
// skipped in favor of the next one.
type GeminiClient struct {
	Client  *genai.Client
	Models  []llmModelConfig
	Metrics *Metrics

	dailyCount   map[string]int
	minuteCount  map[string]int
	lastResetDay time.Time
	lastResetMin time.Time
	mu           sync.Mutex
}

func NewGeminiClient(ctx context.Context, apiKey string, metrics *Metrics) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, err
	}

	return &GeminiClient{
		Client: client,
		Models: []llmModelConfig{
			{Name: "gemini-2.5-flash", RPM: 10, RPD: 250},
			{Name: "gemini-2.5-flash-lite", RPM: 15, RPD: 1000},
		},
		Metrics:      metrics,
		dailyCount:   make(map[string]int),
		minuteCount:  make(map[string]int),
		lastResetDay: time.Now(),
		lastResetMin: time.Now(),
	}, nil
}

// GeneratePost turns source content into a post payload. The model is
// asked for strict JSON; when it answers with prose anyway, the raw text
// becomes the post body and hashtags are pulled out heuristically.
func (g *GeminiClient) GeneratePost(ctx context.Context, sourceContent, extraContext string) (*models.GeneratedPost, error) {
	contextInfo := ""
	if extraContext != "" {
		contextInfo = "\n\nContext: " + extraContext
	}
	prompt := fmt.Sprintf(postPrompt, sourceContent, contextInfo)

	raw, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParsePostResponse(raw), nil
}

// GenerateComment writes a reply to a single comment. API failures fall
// back to a canned acknowledgement rather than failing the request.
func (g *GeminiClient) GenerateComment(ctx context.Context, originalComment, postContext string) (string, error) {
	contextInfo := ""
	if postContext != "" {
		contextInfo = "Post context: " + postContext
	}
	prompt := fmt.Sprintf(commentPrompt, originalComment, contextInfo)

	reply, err := g.generate(ctx, prompt)
	if err != nil {
		log.Printf("[LLM] comment generation failed, using fallback: %v", err)
		return commentFallback, nil
	}
	return strings.TrimSpace(reply), nil
}

// GenerateMessage writes a direct message for the given trigger context
// ("post_like" or "comment"; anything else uses the post_like template).
func (g *GeminiClient) GenerateMessage(ctx context.Context, recipientContext, triggerContext string) (string, error) {
	template := messageLikePrompt
	if triggerContext == "comment" {
		template = messageCommentPrompt
	}
	prompt := fmt.Sprintf(template, recipientContext)

	msg, err := g.generate(ctx, prompt)
	if err != nil {
		log.Printf("[LLM] message generation failed, using fallback: %v", err)
		return messageFallback, nil
	}
	return strings.TrimSpace(msg), nil
}

func (g *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	if g.Metrics != nil {
		defer g.Metrics.Observe("llm")()
	}

	var lastErr error
	for _, cfg := range g.Models {
		if !g.canUseModel(cfg) {
			continue
		}

		result, err := g.Client.Models.GenerateContent(ctx, cfg.Name, genai.Text(prompt), nil)
		if err != nil {
			errStr := strings.ToLower(err.Error())
			if strings.Contains(errStr, "429") || strings.Contains(errStr, "rate limit") ||
				strings.Contains(errStr, "exhausted") || strings.Contains(errStr, "not found") {
				lastErr = err
				continue
			}
			return "", err
		}

		if result != nil && len(result.Candidates) > 0 && len(result.Candidates[0].Content.Parts) > 0 {
			g.recordUsage(cfg)
			return result.Candidates[0].Content.Parts[0].Text, nil
		}
		lastErr = fmt.Errorf("model %s returned no candidates", cfg.Name)
	}

	if lastErr == nil {
		// Every model was skipped by the local rate gate before a request
		// was even attempted.
		lastErr = errors.New("all models are rate-limited")
	}
	return "", fmt.Errorf("all models failed: %v", lastErr)
}

func (g *GeminiClient) canUseModel(cfg llmModelConfig) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := time.Now()
	if now.YearDay() != g.lastResetDay.YearDay() {
		g.dailyCount = make(map[string]int)
		g.lastResetDay = now
	}
	if now.Sub(g.lastResetMin) >= time.Minute {
		g.minuteCount = make(map[string]int)
		g.lastResetMin = now
	}
	if g.dailyCount[cfg.Name] >= cfg.RPD {
		return false
	}
	if g.minuteCount[cfg.Name] >= cfg.RPM {
		return false
	}
	return true
}

func (g *GeminiClient) recordUsage(cfg llmModelConfig) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dailyCount[cfg.Name]++
	g.minuteCount[cfg.Name]++
}

// ParsePostResponse extracts a post payload from raw model output. Models
// often wrap JSON in markdown fences or ignore the format entirely, so
// this never fails: worst case the whole response becomes the post body.
func ParsePostResponse(raw string) *models.GeneratedPost {
	content := stripFences(raw)

	var parsed struct {
		Content          string   `json:"content"`
		Hashtags         []string `json:"hashtags"`
		ImageDescription string   `json:"image_description"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err == nil && parsed.Content != "" {
		return &models.GeneratedPost{
			Content:          parsed.Content,
			Hashtags:         parsed.Hashtags,
			ImageDescription: parsed.ImageDescription,
		}
	}

	hashtags := hashtagRe.FindAllString(content, -1)
	for i, tag := range hashtags {
		hashtags[i] = strings.TrimPrefix(tag, "#")
	}
	if len(hashtags) > 5 {
		hashtags = hashtags[:5]
	}
	if len(hashtags) == 0 {
		hashtags = append([]string(nil), defaultHashtags...)
	}

	return &models.GeneratedPost{
		Content:          content,
		Hashtags:         hashtags,
		ImageDescription: "Professional LinkedIn post image, business setting, modern design",
	}
}

func stripFences(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
