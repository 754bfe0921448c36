package llmclient

import (
	"context"
	"encoding/json"
)

// FakeClient returns deterministic component trees per domain for
// offline use. It also serves as the degraded path when the real
// completion call times out or fails.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(_ context.Context, _ string, input any) (json.RawMessage, error) {
	intent := ""
	m, ok := input.(map[string]any)
	if !ok {
		// Structured inputs carry the intent under the same JSON key.
		if b, err := json.Marshal(input); err == nil {
			_ = json.Unmarshal(b, &m)
		}
	}
	if m != nil {
		intent, _ = m["intent"].(string)
	}
	var obj any
	switch intent {
	case "weather":
		obj = map[string]any{
			"component_type": "card",
			"properties":     map[string]any{"title": "{{weather.city}}"},
			"children": []any{
				map[string]any{
					"component_type": "text",
					"properties":     map[string]any{"content": "{{weather.temp}}°C {{weather.condition}}"},
				},
				map[string]any{
					"component_type": "loop",
					"properties":     map[string]any{"source": "weather.hourly", "alias": "hour", "separator_size": float64(4)},
					"children": []any{
						map[string]any{
							"component_type": "text",
							"properties":     map[string]any{"content": "{{hour.hour|pad:2}}:00 {{hour.temp}}°"},
						},
					},
				},
			},
		}
	case "poi":
		obj = map[string]any{
			"component_type": "column",
			"children": []any{
				map[string]any{
					"component_type": "text",
					"properties":     map[string]any{"content": "Nearby"},
				},
				map[string]any{
					"component_type": "loop",
					"properties":     map[string]any{"source": "pois", "alias": "poi"},
					"children": []any{
						map[string]any{
							"component_type": "component",
							"properties":     map[string]any{"template_id": "poi_row", "data": "{{poi}}"},
						},
					},
				},
			},
		}
	case "route_planning":
		obj = map[string]any{
			"component_type": "card",
			"properties":     map[string]any{"title": "{{route.summary}}"},
			"children": []any{
				map[string]any{
					"component_type": "text",
					"properties":     map[string]any{"content": "{{route.distance_km}} km · {{route.duration_min}} min"},
				},
				map[string]any{
					"component_type": "button",
					"properties": map[string]any{
						"label": "Start",
						"on_click": map[string]any{
							"action_type": "start_navigation",
							"payload":     map[string]any{"route_id": "{{route.id}}"},
						},
					},
				},
			},
		}
	case "music":
		obj = map[string]any{
			"component_type": "card",
			"properties":     map[string]any{"title": "{{music.title}}"},
			"children": []any{
				map[string]any{
					"component_type": "text",
					"properties":     map[string]any{"content": "{{music.artist}}"},
				},
				map[string]any{
					"component_type": "slider",
					"properties": map[string]any{
						"value": "{{music.progress}}",
						"on_value_change": map[string]any{
							"action_type": "seek",
							"payload":     map[string]any{},
						},
					},
				},
			},
		}
	case "vehicle_control":
		obj = map[string]any{
			"component_type": "card",
			"properties":     map[string]any{"title": "Vehicle"},
			"children": []any{
				map[string]any{
					"component_type": "switch",
					"properties": map[string]any{
						"label": "{{vehicle.feature}}",
						"value": "{{vehicle.state}}",
						"on_value_change": map[string]any{
							"action_type": "vehicle_control",
							"payload":     map[string]any{"feature": "{{vehicle.feature}}"},
						},
					},
				},
			},
		}
	case "image":
		obj = map[string]any{
			"component_type": "card",
			"children": []any{
				map[string]any{
					"component_type": "image",
					"properties":     map[string]any{"src": "{{image.url}}", "alt": "{{image.prompt}}"},
				},
			},
		}
	default:
		obj = map[string]any{
			"component_type": "card",
			"children": []any{
				map[string]any{
					"component_type": "text",
					"properties":     map[string]any{"content": "{{chat.reply}}"},
				},
			},
		}
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}
