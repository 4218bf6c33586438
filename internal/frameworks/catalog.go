// Package frameworks holds the fixed catalog of prompt frameworks.
//
// The catalog is the only table of framework ids and field keys in the
// repository. The renderer reads labels from it and the intake classifier reads
// field keys from it when building pre-fills, so the two can never drift.
package frameworks

import (
	"github.com/ooti/prompt-lab/internal/models"
)

// Framework ids
const (
	RTF   models.FrameworkID = "rtf"
	SOLVE models.FrameworkID = "solve"
	TAG   models.FrameworkID = "tag"
	RACE  models.FrameworkID = "race"
	DREAM models.FrameworkID = "dream"
	PACT  models.FrameworkID = "pact"
	CARE  models.FrameworkID = "care"
	RISE  models.FrameworkID = "rise"
)

// preference is the tie-break order used when two frameworks score equally
var preference = []models.FrameworkID{SOLVE, DREAM, RTF, RISE, TAG, RACE, PACT, CARE}

// catalog is in display order
var catalog = []models.Framework{
	{
		ID:      RTF,
		Name:    "R-T-F",
		Tagline: "Role · Task · Format",
		Intro:   "You are to act in the following role and produce the specified output.",
		Fields: []models.Field{
			{Key: "role", Label: "Role", Placeholder: "Act as… (e.g., brand strategist)"},
			{Key: "task", Label: "Task", Placeholder: "Do… (e.g., write a messaging hierarchy)"},
			{Key: "format", Label: "Format", Placeholder: "Output as… (e.g., bullets, table, JSON)"},
		},
	},
	{
		ID:      SOLVE,
		Name:    "S-O-L-V-E",
		Tagline: "Situation · Objective · Limitations · Vision · Execution",
		Intro:   "Use the SOLVE framework to respond.",
		Fields: []models.Field{
			{Key: "situation", Label: "Situation", Placeholder: "Context / scenario"},
			{Key: "objective", Label: "Objective", Placeholder: "Primary goal(s)"},
			{Key: "limitations", Label: "Limitations", Placeholder: "Constraints, budgets, rules"},
			{Key: "vision", Label: "Vision", Placeholder: "What great looks like"},
			{Key: "execution", Label: "Execution", Placeholder: "Plan / steps / owners"},
		},
	},
	{
		ID:      TAG,
		Name:    "T-A-G",
		Tagline: "Task · Action · Goal",
		Fields: []models.Field{
			{Key: "task", Label: "Task", Placeholder: "Define the task"},
			{Key: "action", Label: "Action", Placeholder: "What actions to take"},
			{Key: "goal", Label: "Goal", Placeholder: "Success criteria"},
		},
	},
	{
		ID:      RACE,
		Name:    "R-A-C-E",
		Tagline: "Role · Action · Context · Expectation",
		Fields: []models.Field{
			{Key: "role", Label: "Role", Placeholder: "Who the AI should be"},
			{Key: "action", Label: "Action", Placeholder: "What to do"},
			{Key: "context", Label: "Context", Placeholder: "Background info"},
			{Key: "expectation", Label: "Expectation", Placeholder: "Definition of done"},
		},
	},
	{
		ID:      DREAM,
		Name:    "D-R-E-A-M",
		Tagline: "Define · Research · Execute · Analyse · Measure",
		Intro:   "Use DREAM to structure the response.",
		Fields: []models.Field{
			{Key: "define", Label: "Define", Placeholder: "Problem / context"},
			{Key: "research", Label: "Research", Placeholder: "Insights or data sources"},
			{Key: "execute", Label: "Execute", Placeholder: "Plan to implement"},
			{Key: "analyse", Label: "Analyse", Placeholder: "How to evaluate results"},
			{Key: "measure", Label: "Measure", Placeholder: "Metrics / instrumentation"},
		},
	},
	{
		ID:      PACT,
		Name:    "P-A-C-T",
		Tagline: "Problem · Approach · Compromise · Test",
		Fields: []models.Field{
			{Key: "problem", Label: "Problem", Placeholder: "What needs solving"},
			{Key: "approach", Label: "Approach", Placeholder: "Method(s) to try"},
			{Key: "compromise", Label: "Compromise", Placeholder: "Tradeoffs / risks"},
			{Key: "test", Label: "Test", Placeholder: "How we’ll validate"},
		},
	},
	{
		ID:      CARE,
		Name:    "C-A-R-E",
		Tagline: "Context · Action · Result · Example",
		Fields: []models.Field{
			{Key: "context", Label: "Context", Placeholder: "Background details"},
			{Key: "action", Label: "Action", Placeholder: "Steps to take"},
			{Key: "result", Label: "Result", Placeholder: "Expected outcome"},
			{Key: "example", Label: "Example", Placeholder: "Concrete illustration"},
		},
	},
	{
		ID:      RISE,
		Name:    "R-I-S-E",
		Tagline: "Role · Input · Steps · Expectation",
		Fields: []models.Field{
			{Key: "role", Label: "Role", Placeholder: "e.g., Commercial director"},
			{Key: "input", Label: "Input", Placeholder: "What data you receive"},
			{Key: "steps", Label: "Steps", Placeholder: "Process to follow"},
			{Key: "expectation", Label: "Expectation", Placeholder: "What success looks like"},
		},
	},
}

var byID = func() map[models.FrameworkID]int {
	idx := make(map[models.FrameworkID]int, len(catalog))
	for i, fw := range catalog {
		idx[fw.ID] = i
	}
	return idx
}()

// All returns a copy of the catalog in display order
func All() []models.Framework {
	out := make([]models.Framework, len(catalog))
	for i, fw := range catalog {
		out[i] = clone(fw)
	}
	return out
}

// Get returns a copy of the framework with the given id
func Get(id models.FrameworkID) (*models.Framework, bool) {
	i, ok := byID[id]
	if !ok {
		return nil, false
	}
	fw := clone(catalog[i])
	return &fw, true
}

// Exists reports whether id is in the catalog
func Exists(id models.FrameworkID) bool {
	_, ok := byID[id]
	return ok
}

// IDs returns every framework id in display order
func IDs() []models.FrameworkID {
	ids := make([]models.FrameworkID, len(catalog))
	for i, fw := range catalog {
		ids[i] = fw.ID
	}
	return ids
}

// PreferenceOrder returns the tie-break order, most preferred first
func PreferenceOrder() []models.FrameworkID {
	out := make([]models.FrameworkID, len(preference))
	copy(out, preference)
	return out
}

// Rank returns the position of id in the preference order, or len(preference)
// for ids outside it.
func Rank(id models.FrameworkID) int {
	for i, p := range preference {
		if p == id {
			return i
		}
	}
	return len(preference)
}

func clone(fw models.Framework) models.Framework {
	fields := make([]models.Field, len(fw.Fields))
	copy(fields, fw.Fields)
	fw.Fields = fields
	return fw
}
