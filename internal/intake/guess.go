package intake

import (
	"regexp"
	"strings"
)

// Fallback text used when the guessers find nothing
const (
	DefaultObjective   = "State the primary goal."
	DefaultLimitations = "List key constraints (budget, time, team, rules)."
)

var objectiveRe = regexp.MustCompile(`(increase|grow|hit|reach)\s+([0-9]+%?|[0-9]+)\s*(signups|adoption|sales|mrr|revenue|users)?`)

type limitRule struct {
	label string
	re    *regexp.Regexp
}

// limitRules are checked in order; labels are joined in the same order
var limitRules = []limitRule{
	{"Limited budget", regexp.MustCompile(`budget|cost|spend|small budget|low budget`)},
	{"Tight timeline", regexp.MustCompile(`time|deadline|by\s+(sept|oct|nov|dec|jan|feb|mar|apr|may|jun|jul|aug)|\b\d{1,2}/\d{1,2}\b`)},
	{"Limited team capacity", regexp.MustCompile(`no team|solo|one person|limited resources`)},
}

// GuessObjective extracts a goal sentence such as "Aim to hit 25 signups." from
// lower-cased text. It returns "" when nothing matches.
func GuessObjective(lower string) string {
	m := objectiveRe.FindStringSubmatch(lower)
	if m == nil {
		return ""
	}

	objective := "Aim to " + m[1] + " " + m[2]
	if m[3] != "" {
		objective += " " + m[3]
	}
	return objective + "."
}

// GuessLimits lists the constraint categories mentioned in lower-cased text,
// joined with "; ", or DefaultLimitations when none are found.
func GuessLimits(lower string) string {
	var bits []string
	for _, rule := range limitRules {
		if rule.re.MatchString(lower) {
			bits = append(bits, rule.label)
		}
	}
	if len(bits) == 0 {
		return DefaultLimitations
	}
	return strings.Join(bits, "; ")
}
