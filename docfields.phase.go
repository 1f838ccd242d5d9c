package docfields

import "strconv"

// Phase is one stage of the document build lifecycle during which specific
// context becomes computable. Phases advance strictly forward, one step at
// a time: Parsing → Parsed → Resolving → Resolved.
type Phase int

// Phase constants, in lifecycle order.
const (
	// PhaseParsing: the element is being parsed; parse-time-only state is
	// still reachable.
	PhaseParsing Phase = iota
	// PhaseParsed: the element's source has been fully read.
	PhaseParsed
	// PhaseResolving: the whole document tree exists; cross-document state
	// is reachable and outstanding placeholders must settle now.
	PhaseResolving
	// PhaseResolved: terminal. All placeholders settled, the final
	// ResolvedContext is available.
	PhaseResolved
)

// Phase string values
const (
	PhaseNameParsing   = "parsing"
	PhaseNameParsed    = "parsed"
	PhaseNameResolving = "resolving"
	PhaseNameResolved  = "resolved"
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseParsing:
		return PhaseNameParsing
	case PhaseParsed:
		return PhaseNameParsed
	case PhaseResolving:
		return PhaseNameResolving
	case PhaseResolved:
		return PhaseNameResolved
	default:
		return strconv.Itoa(int(p))
	}
}
