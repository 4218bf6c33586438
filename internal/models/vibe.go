package models

// ModelKey identifies a target LLM family for the vibe wrapper
type ModelKey string

const (
	ModelGPT    ModelKey = "gpt"
	ModelClaude ModelKey = "claude"
	ModelLlama  ModelKey = "llama"
	ModelGemini ModelKey = "gemini"
)

// VibeKey identifies a tone preset
type VibeKey string

const (
	VibeNeutral    VibeKey = "neutral"
	VibeFriendly   VibeKey = "friendly"
	VibeAnalytical VibeKey = "analytical"
	VibePersuasive VibeKey = "persuasive"
	VibeCoach      VibeKey = "coach"
	VibeCreative   VibeKey = "creative"
)

// ModelInfo describes a target model option
type ModelInfo struct {
	Key   ModelKey `json:"key"`
	Label string   `json:"label"`
}

// VibeInfo describes a tone preset and its style bullets
type VibeInfo struct {
	Key     VibeKey  `json:"key"`
	Label   string   `json:"label"`
	Bullets []string `json:"bullets"`
}
