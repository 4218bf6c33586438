package intake

import (
	"regexp"

	"github.com/ooti/prompt-lab/internal/frameworks"
	"github.com/ooti/prompt-lab/internal/models"
)

// pattern is either a raw expression or a single word that must appear on
// word boundaries
type pattern struct {
	expr string
	word bool
}

func expr(s string) pattern { return pattern{expr: s} }
func word(s string) pattern { return pattern{expr: s, word: true} }

var keywordTable = map[models.FrameworkID][]pattern{
	frameworks.RTF:   {expr(`role|format|table|json|as a`), word("brief"), word("rewrite")},
	frameworks.SOLVE: {expr(`plan|rollout|objective|limit|vision|execute`)},
	frameworks.DREAM: {expr(`define|research|experiment|execute|analy(s|z)e|measure|launch|workshop`)},
	frameworks.RISE:  {expr(`steps|inputs?|outputs?|workflow|pipeline`)},
	frameworks.CARE:  {expr(`case|example|story`)},
	frameworks.PACT:  {expr(`trade[- ]?off|constraints?|options?`)},
	frameworks.RACE:  {expr(`expect|deliverable|who does what`)},
	frameworks.TAG:   {expr(`quick|task|action|goal`)},
}

// compiled holds the keyword table compiled once at init
var compiled = compile(keywordTable)

func compile(table map[models.FrameworkID][]pattern) map[models.FrameworkID][]*regexp.Regexp {
	out := make(map[models.FrameworkID][]*regexp.Regexp, len(table))
	for id, patterns := range table {
		res := make([]*regexp.Regexp, 0, len(patterns))
		for _, p := range patterns {
			src := p.expr
			if p.word {
				src = `\b` + src + `\b`
			}
			res = append(res, regexp.MustCompile(`(?i)`+src))
		}
		out[id] = res
	}
	return out
}

// score counts non-overlapping matches of every pattern for id
func score(lower string, id models.FrameworkID) int {
	total := 0
	for _, re := range compiled[id] {
		total += len(re.FindAllStringIndex(lower, -1))
	}
	return total
}
