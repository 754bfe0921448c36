package fetch

import (
	"context"
	"strings"
)

// Static providers. Shapes mirror what the HTTP-backed fetchers of a
// real deployment return, so generated trees bind against the same
// paths either way.

func entityString(entities map[string]any, key, fallback string) string {
	if v, ok := entities[key].(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func fetchWeather(_ context.Context, _ string, entities map[string]any) (map[string]any, error) {
	city := entityString(entities, "city", "上海")
	return map[string]any{
		"weather": map[string]any{
			"city":      city,
			"temp":      float64(23),
			"condition": "多云",
			"hourly": []any{
				map[string]any{"hour": float64(9), "temp": float64(21)},
				map[string]any{"hour": float64(10), "temp": float64(22)},
				map[string]any{"hour": float64(11), "temp": float64(23)},
				map[string]any{"hour": float64(12), "temp": float64(24)},
			},
		},
	}, nil
}

func fetchPOIs(_ context.Context, _ string, entities map[string]any) (map[string]any, error) {
	category := entityString(entities, "category", "咖啡")
	return map[string]any{
		"pois": []any{
			map[string]any{"name": category + "·东方明珠店", "rating": 4.7, "distance_m": float64(350)},
			map[string]any{"name": category + "·外滩店", "rating": 4.5, "distance_m": float64(800)},
			map[string]any{"name": category + "·人民广场店", "rating": 4.2, "distance_m": float64(1200)},
		},
	}, nil
}

func fetchRoute(_ context.Context, _ string, entities map[string]any) (map[string]any, error) {
	dest := entityString(entities, "destination", "虹桥机场")
	return map[string]any{
		"route": map[string]any{
			"id":           "route-1",
			"summary":      "前往" + dest,
			"distance_km":  float64(18),
			"duration_min": float64(35),
			"via":          "延安高架",
		},
	}, nil
}

func fetchMusic(_ context.Context, _ string, entities map[string]any) (map[string]any, error) {
	artist := entityString(entities, "artist", "周杰伦")
	return map[string]any{
		"music": map[string]any{
			"title":    "晴天",
			"artist":   artist,
			"album":    "叶惠美",
			"progress": float64(0),
		},
	}, nil
}

func fetchVehicle(_ context.Context, _ string, entities map[string]any) (map[string]any, error) {
	feature := entityString(entities, "feature", "空调")
	return map[string]any{
		"vehicle": map[string]any{
			"feature": feature,
			"state":   true,
		},
	}, nil
}

func fetchImage(_ context.Context, utterance string, _ map[string]any) (map[string]any, error) {
	return map[string]any{
		"image": map[string]any{
			"prompt": strings.TrimSpace(utterance),
			"url":    "https://images.example.com/generated/latest.png",
		},
	}, nil
}
