package offense

import (
	"context"
	"strings"

	"io73k/ai"
	"io73k/classify"
	"io73k/prompts"
	"io73k/story"
)

// Detector runs the two immersion checks. Both report "not triggered" when
// they cannot decide.
type Detector interface {
	Anachronism(ctx context.Context, input string, scene story.Scene) (bool, string)
	MetaBreak(ctx context.Context, input string, scene story.Scene) bool
}

// AIDetector asks the language model.
type AIDetector struct {
	c *classify.Classifier
}

func NewAIDetector(c *classify.Classifier) *AIDetector {
	return &AIDetector{c: c}
}

type anachronismAnswer struct {
	IsAnachronism bool   `json:"isAnachronism"`
	DetectedItem  string `json:"detectedItem"`
}

func (d *AIDetector) Anachronism(ctx context.Context, input string, scene story.Scene) (bool, string) {
	rules, ok := prompts.Rules[scene]
	if !ok {
		return false, ""
	}

	var ans anachronismAnswer
	err := d.c.Decode(ctx, ai.Request{
		System:   prompts.Anachronism(rules),
		Messages: []story.ChatMessage{{Role: story.RoleUser, Content: prompts.AnachronismInput(input)}},
	}, &ans)
	if err != nil {
		return false, ""
	}
	return ans.IsAnachronism, strings.TrimSpace(ans.DetectedItem)
}

func (d *AIDetector) MetaBreak(ctx context.Context, input string, scene story.Scene) bool {
	return d.c.Flag(ctx, classify.Boolean{
		System:   prompts.MetaBreaking,
		Input:    prompts.MetaBreakingInput(scene, input),
		Fallback: false,
	})
}
