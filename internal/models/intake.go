package models

// ClassificationResult is the outcome of scoring free text against every
// framework. It is produced fresh on each call.
type ClassificationResult struct {
	BestID     FrameworkID            `json:"bestId"`
	Why        string                 `json:"why"`
	Scores     map[FrameworkID]int    `json:"scores"`
	FieldsByID map[FrameworkID]Values `json:"fieldsById"`
}

// Clone returns a deep copy so cached results can be handed out safely
func (r *ClassificationResult) Clone() *ClassificationResult {
	if r == nil {
		return nil
	}
	out := &ClassificationResult{
		BestID:     r.BestID,
		Why:        r.Why,
		Scores:     make(map[FrameworkID]int, len(r.Scores)),
		FieldsByID: make(map[FrameworkID]Values, len(r.FieldsByID)),
	}
	for id, score := range r.Scores {
		out.Scores[id] = score
	}
	for id, values := range r.FieldsByID {
		out.FieldsByID[id] = values.Clone()
	}
	return out
}
