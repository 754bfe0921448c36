package generate

import (
	"strings"

	"genui/internal/intent"
)

// Every prompt shares the schema excerpt and output constraints; each
// domain adds its own style guide and worked example.
const promptHeader = `You generate an in-car UI as a single JSON component tree.

Schema:
  {"component_type": string, "properties": {..}, "children": [..]}
Component types: column, row, card, text, image, icon, button, slider,
switch, divider, spacer, loop, component.
Property values may bind into the data context with {{path}} placeholders
(optional directive: {{path|pad:2}}). A "loop" node reads an array at its
"source" path and repeats its children once per element under "alias".
A "component" node includes the template named by "template_id", scoped
to its "data" binding. Buttons and sliders may carry "on_click" /
"on_value_change" descriptors: {"action_type": string, "payload": {..}}.

Return strict JSON only: one component tree, no markdown, no commentary.`

const editInstruction = `
The user is editing the interface shown in [INPUT JSON].previous_tree.
Return the COMPLETE replacement tree with the edit applied. Never return
a partial tree or a diff; the delivery layer computes diffs itself.`

var domainPrompts = map[intent.Intent]string{
	intent.Weather: `
Style: one card titled with the city, current temperature prominent,
an hourly loop below. Bind against {{weather.*}}.
Example root: {"component_type":"card","properties":{"title":"{{weather.city}}"},...}`,

	intent.POI: `
Style: a column with a heading and a loop over {{pois}}, one row per
place showing name, rating and distance. Attach an on_click navigate
action with the place name in the payload.`,

	intent.RoutePlanning: `
Style: one card summarizing the route ({{route.summary}}, distance,
duration) with a "Start" button carrying a start_navigation action.`,

	intent.Music: `
Style: a playing card with title and artist from {{music.*}}, a progress
slider bound to {{music.progress}} with an on_value_change seek action.`,

	intent.VehicleControl: `
Style: a compact card with a switch per controllable feature, bound to
{{vehicle.*}}, each switch carrying a vehicle_control action.`,

	intent.Image: `
Style: a card containing a single image bound to {{image.url}} with the
prompt as alt text.`,
}

const defaultPrompt = `
Style: a simple card with the assistant's reply as text. Keep it to one
card and at most a few text nodes.`

// SelectPrompt is a total function from intent to instruction document;
// unmapped intents (chat, unknown) take the default conversational
// template. When a previous tree exists the edit instruction is
// appended so the generator always returns a full replacement.
func SelectPrompt(domain intent.Intent, hasPrevious bool) string {
	body, ok := domainPrompts[domain]
	if !ok {
		body = defaultPrompt
	}
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n")
	b.WriteString(body)
	if hasPrevious {
		b.WriteString("\n")
		b.WriteString(editInstruction)
	}
	return b.String()
}
