package commands

import (
	"github.com/ooti/prompt-lab/internal/models"
	"github.com/ooti/prompt-lab/internal/service"
)

func stringParam(params map[string]interface{}, key string) string {
	s, _ := params[key].(string)
	return s
}

func boolParam(params map[string]interface{}, key string) bool {
	b, _ := params[key].(bool)
	return b
}

// stringMap accepts the validator's map[string]string as well as raw JSON
// objects, so commands without a schema can read nested values too
func stringMap(params map[string]interface{}, key string) map[string]string {
	switch m := params[key].(type) {
	case map[string]string:
		return m
	case map[string]interface{}:
		out := make(map[string]string, len(m))
		for k, v := range m {
			if s, ok := v.(string); ok {
				out[k] = s
			}
		}
		return out
	}
	return nil
}

func valuesParam(params map[string]interface{}) models.Values {
	m := stringMap(params, "values")
	if m == nil {
		return nil
	}
	return models.Values(m)
}

func extrasParam(params map[string]interface{}) models.Extras {
	m := stringMap(params, "extras")
	return models.Extras{
		Audience:    m["audience"],
		Tone:        m["tone"],
		Length:      m["length"],
		Style:       m["style"],
		Constraints: m["constraints"],
	}
}

func vibeParam(params map[string]interface{}) *service.VibeSelection {
	m := stringMap(params, "vibe")
	if m == nil {
		return nil
	}
	return &service.VibeSelection{
		Model: models.ModelKey(m["model"]),
		Vibe:  models.VibeKey(m["vibe"]),
	}
}

func renderRequest(params map[string]interface{}) service.RenderRequest {
	return service.RenderRequest{
		FrameworkID: models.FrameworkID(stringParam(params, "frameworkId")),
		Values:      valuesParam(params),
		Extras:      extrasParam(params),
		Vibe:        vibeParam(params),
	}
}
