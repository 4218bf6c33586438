// Package intake turns a plain-English goal into a framework recommendation.
//
// Classify scores the text against a fixed keyword table per framework, picks
// the best match with a fixed tie-break order, and builds a pre-filled set of
// field values for every framework so the caller can apply any of them.
package intake

import (
	"fmt"
	"strings"

	"github.com/ooti/prompt-lab/internal/errors"
	"github.com/ooti/prompt-lab/internal/frameworks"
	"github.com/ooti/prompt-lab/internal/models"
)

// fill produces a pre-fill value from the original and lower-cased input
type fill func(original, lower string) string

func raw(original, _ string) string { return original }

func static(text string) fill {
	return func(string, string) string { return text }
}

// prefill lists the derived value for each framework field. Keys come from the
// catalog; a catalog field with no entry here falls back to its placeholder.
var prefill = map[models.FrameworkID]map[string]fill{
	frameworks.RTF: {
		"role":   static("Act as a senior strategist for this domain."),
		"task":   raw,
		"format": static("Bulleted sections with clear headings."),
	},
	frameworks.SOLVE: {
		"situation": raw,
		"objective": func(_, lower string) string {
			if objective := GuessObjective(lower); objective != "" {
				return objective
			}
			return DefaultObjective
		},
		"limitations": func(_, lower string) string { return GuessLimits(lower) },
		"vision":      static("Describe what 'great' looks like when this works."),
		"execution":   static("High-level steps with owners and timeline."),
	},
	frameworks.DREAM: {
		"define":   raw,
		"research": static("List signals, past results, and audience insights you already have."),
		"execute":  static("What will we do next (channels, assets, cadence)?"),
		"analyse":  static("What will we track (leading indicators)?"),
		"measure":  static("What is the success target and when?"),
	},
	frameworks.RISE: {
		"role":        static("The role running the workflow."),
		"input":       static("Key inputs required before starting."),
		"steps":       static("Step-by-step instructions."),
		"expectation": static("Expected outputs and acceptance criteria."),
	},
	frameworks.CARE: {
		"context": raw,
		"action":  static("What was done / approach taken."),
		"result":  static("Outcome with concrete metrics if possible."),
		"example": static("A concise illustration or snippet."),
	},
	frameworks.PACT: {
		"problem":    raw,
		"approach":   static("List 2–3 plausible paths."),
		"compromise": static("Tradeoffs/risks to consider."),
		"test":       static("How we’ll validate quickly."),
	},
	frameworks.RACE: {
		"role":        static("Who is responsible for the output."),
		"action":      static("Exactly what they must do."),
		"context":     raw,
		"expectation": static("Definition of done."),
	},
	frameworks.TAG: {
		"task":   raw,
		"action": static("Immediate steps to complete it."),
		"goal":   static("How we'll know it's done."),
	},
}

// Classify scores text against every framework and returns the recommendation
// with per-framework pre-fills. Blank text is rejected with EMPTY_INPUT.
func Classify(text string) (*models.ClassificationResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.EmptyInputError()
	}

	lower := strings.ToLower(text)
	result := &models.ClassificationResult{
		Scores:     make(map[models.FrameworkID]int),
		FieldsByID: make(map[models.FrameworkID]models.Values),
	}

	for _, fw := range frameworks.All() {
		result.FieldsByID[fw.ID] = Prefill(fw, text, lower)
		result.Scores[fw.ID] = score(lower, fw.ID)
	}

	best, bestScore := pick(result.Scores)
	result.BestID = best
	result.Why = explain(best, bestScore)
	return result, nil
}

// Prefill builds the field values for one framework from the input text
func Prefill(fw models.Framework, original, lower string) models.Values {
	rules := prefill[fw.ID]
	values := make(models.Values, len(fw.Fields))
	for _, field := range fw.Fields {
		if rule, ok := rules[field.Key]; ok {
			values[field.Key] = rule(original, lower)
			continue
		}
		values[field.Key] = field.Placeholder
	}
	return values
}

// pick returns the highest-scoring id, breaking ties by preference order
func pick(scores map[models.FrameworkID]int) (models.FrameworkID, int) {
	order := frameworks.PreferenceOrder()
	best := order[0]
	bestScore := -1
	for _, id := range order {
		s, ok := scores[id]
		if !ok {
			continue
		}
		if s > bestScore {
			best, bestScore = id, s
		}
	}
	return best, bestScore
}

func explain(id models.FrameworkID, n int) string {
	name := strings.ToUpper(string(id))
	if n > 0 {
		return fmt.Sprintf("Recommended %s based on detected keywords (%d matches).", name, n)
	}
	return fmt.Sprintf("Recommended %s as a sensible default for planning/structure (no strong signal detected).", name)
}
