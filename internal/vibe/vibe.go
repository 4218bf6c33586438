// Package vibe builds model-specific style snippets that can be pasted into a
// system prompt or prepended to a rendered framework.
package vibe

import (
	"strings"

	"github.com/ooti/prompt-lab/internal/errors"
	"github.com/ooti/prompt-lab/internal/models"
)

// Defaults used when nothing is selected
const (
	DefaultModel = models.ModelGPT
	DefaultVibe  = models.VibeNeutral
)

type wrapper struct {
	header string
	footer string
}

var modelList = []models.ModelInfo{
	{Key: models.ModelGPT, Label: "OpenAI (GPT-4.x / 4o / mini)"},
	{Key: models.ModelClaude, Label: "Anthropic Claude 3.x"},
	{Key: models.ModelLlama, Label: "Llama 3.x (Meta)"},
	{Key: models.ModelGemini, Label: "Google Gemini 1.5"},
}

var wrappers = map[models.ModelKey]wrapper{
	models.ModelGPT: {
		header: "SYSTEM:\nYou are an expert assistant. Apply this style:",
		footer: "Strictly follow the style unless the user opts out.",
	},
	models.ModelClaude: {
		header: "Claude System Prompt:\nYou are an expert assistant. Style guidelines:",
		footer: "Follow these unless the user opts out.",
	},
	models.ModelLlama: {
		header: "System (Llama):\nYou are an expert assistant.\nStyle:",
		footer: "Comply strictly unless instructed otherwise.",
	},
	models.ModelGemini: {
		header: "system_instruction (Gemini):\nYou are an expert assistant. Use the following style:",
		footer: "Adhere to this style unless the user opts out.",
	},
}

var vibeList = []models.VibeInfo{
	{
		Key:   models.VibeNeutral,
		Label: "Neutral / Concise",
		Bullets: []string{
			"Be concise and unambiguous.",
			"Use plain language and short sentences.",
			"No fluff; only essential content.",
		},
	},
	{
		Key:   models.VibeFriendly,
		Label: "Friendly / Motivational",
		Bullets: []string{
			"Warm, positive tone.",
			"Encourage the reader with clear next steps.",
			"Keep it human—avoid stiff phrasing.",
		},
	},
	{
		Key:   models.VibeAnalytical,
		Label: "Analytical / Data-driven",
		Bullets: []string{
			"Structure with headings and bullet points.",
			"Cite assumptions; quantify when possible.",
			"Highlight risks, trade-offs, and rationale.",
		},
	},
	{
		Key:   models.VibePersuasive,
		Label: "Persuasive / Sales",
		Bullets: []string{
			"Lead with outcome and value.",
			"Address objections proactively.",
			"End with a clear, specific CTA.",
		},
	},
	{
		Key:   models.VibeCoach,
		Label: "Educational Coach",
		Bullets: []string{
			"Explain step by step.",
			"Use simple examples and analogies.",
			"Invite questions; check understanding.",
		},
	},
	{
		Key:   models.VibeCreative,
		Label: "Creative / Storyteller",
		Bullets: []string{
			"Evocative imagery and varied cadence.",
			"Show, don’t tell. Avoid clichés.",
			"Keep a consistent narrative voice.",
		},
	},
}

// Models returns the target models in picker order
func Models() []models.ModelInfo {
	out := make([]models.ModelInfo, len(modelList))
	copy(out, modelList)
	return out
}

// Vibes returns the tone presets in picker order
func Vibes() []models.VibeInfo {
	out := make([]models.VibeInfo, len(vibeList))
	for i, v := range vibeList {
		v.Bullets = append([]string(nil), v.Bullets...)
		out[i] = v
	}
	return out
}

// LookupModel returns the model with key k
func LookupModel(k models.ModelKey) (models.ModelInfo, bool) {
	for _, m := range modelList {
		if m.Key == k {
			return m, true
		}
	}
	return models.ModelInfo{}, false
}

// LookupVibe returns the vibe with key k
func LookupVibe(k models.VibeKey) (models.VibeInfo, bool) {
	for _, v := range vibeList {
		if v.Key == k {
			return v, true
		}
	}
	return models.VibeInfo{}, false
}

// Render builds the style snippet for a model and vibe
func Render(model models.ModelKey, vibe models.VibeKey) (string, error) {
	w, ok := wrappers[model]
	if !ok {
		return "", errors.UnknownModelError(string(model))
	}
	v, ok := LookupVibe(vibe)
	if !ok {
		return "", errors.UnknownVibeError(string(vibe))
	}

	items := make([]string, len(v.Bullets))
	for i, b := range v.Bullets {
		items[i] = "- " + b
	}

	return w.header + "\n" + strings.Join(items, "\n") + "\n\n" + w.footer, nil
}

// Prepend places snippet above output, separated by a blank line. An empty
// snippet leaves output unchanged.
func Prepend(snippet, output string) string {
	if snippet == "" {
		return output
	}
	return snippet + "\n\n" + output
}

// NextModel returns the model after k in picker order, wrapping around
func NextModel(k models.ModelKey) models.ModelKey {
	for i, m := range modelList {
		if m.Key == k {
			return modelList[(i+1)%len(modelList)].Key
		}
	}
	return DefaultModel
}

// NextVibe returns the vibe after k in picker order, wrapping around
func NextVibe(k models.VibeKey) models.VibeKey {
	for i, v := range vibeList {
		if v.Key == k {
			return vibeList[(i+1)%len(vibeList)].Key
		}
	}
	return DefaultVibe
}
