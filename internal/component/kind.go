package component

import "strings"

// Kind is the component vocabulary understood by the interpreter.
// Values outside the known set are kept as-is on the wire and rendered
// as a neutral container.
type Kind string

const (
	KindColumn  Kind = "column"
	KindRow     Kind = "row"
	KindCard    Kind = "card"
	KindText    Kind = "text"
	KindImage   Kind = "image"
	KindIcon    Kind = "icon"
	KindButton  Kind = "button"
	KindSlider  Kind = "slider"
	KindSwitch  Kind = "switch"
	KindDivider Kind = "divider"
	KindSpacer  Kind = "spacer"
	KindLoop    Kind = "loop"
	KindRef     Kind = "component"
	KindUnknown Kind = "unknown"
)

var containerKinds = map[Kind]bool{
	KindColumn: true,
	KindRow:    true,
	KindCard:   true,
	KindLoop:   true,
}

var leafKinds = map[Kind]bool{
	KindText:    true,
	KindImage:   true,
	KindIcon:    true,
	KindButton:  true,
	KindSlider:  true,
	KindSwitch:  true,
	KindDivider: true,
	KindSpacer:  true,
	KindRef:     true,
}

// Known reports whether k is part of the closed vocabulary.
func (k Kind) Known() bool {
	return containerKinds[k] || leafKinds[k]
}

// Container reports whether k may carry children. Unknown kinds degrade
// to containers so generator drift never drops subtrees.
func (k Kind) Container() bool {
	if !k.Known() {
		return true
	}
	return containerKinds[k]
}

// ParseKind normalizes a wire component_type value. Known kinds match
// case-insensitively; anything else is kept exactly as received so the
// tree round-trips losslessly.
func ParseKind(s string) Kind {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return KindUnknown
	}
	k := Kind(strings.ToLower(trimmed))
	if k.Known() || k == KindUnknown {
		return k
	}
	return Kind(trimmed)
}
