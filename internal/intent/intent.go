// Package intent classifies user utterances into the fixed domain set
// and applies the cross-turn continuity policy on top of the raw
// classification.
package intent

import "strings"

// Intent is the closed set of conversation domains.
type Intent string

const (
	Weather        Intent = "weather"
	Music          Intent = "music"
	POI            Intent = "poi"
	RoutePlanning  Intent = "route_planning"
	Image          Intent = "image"
	VehicleControl Intent = "vehicle_control"
	Chat           Intent = "chat"
	Unknown        Intent = "unknown"
)

// Concrete reports whether i is a real domain rather than open chat or
// an unclassified result. Continuity only carries across concrete
// domains.
func (i Intent) Concrete() bool {
	switch i {
	case Chat, Unknown, "":
		return false
	}
	return true
}

// Parse maps a wire value onto the enum, Unknown for anything else.
func Parse(s string) Intent {
	switch Intent(strings.ToLower(strings.TrimSpace(s))) {
	case Weather:
		return Weather
	case Music:
		return Music
	case POI:
		return POI
	case RoutePlanning:
		return RoutePlanning
	case Image:
		return Image
	case VehicleControl:
		return VehicleControl
	case Chat:
		return Chat
	default:
		return Unknown
	}
}

// Result is one turn's classification. Produced fresh each turn.
type Result struct {
	Intent     Intent         `json:"intent"`
	Subtype    string         `json:"subtype,omitempty"`
	Confidence float64        `json:"confidence"`
	Entities   map[string]any `json:"entities,omitempty"`
	Reasoning  string         `json:"reasoning,omitempty"`
}

// Turn is one prior request/response pair handed to the classifier.
type Turn struct {
	Query    string
	Response string
	Intent   Intent
}
