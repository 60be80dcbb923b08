package models

// Transition is one edge of the simulated status graph
type Transition struct {
	From        Status
	To          Status
	Probability float64
}

// Transitions is the status graph in evaluation order. Edges sharing a source
// are tried top to bottom.
var Transitions = []Transition{
	{From: StatusPending, To: StatusShipped, Probability: 0.10},
	{From: StatusShipped, To: StatusDelivered, Probability: 0.20},
	{From: StatusShipped, To: StatusCancelled, Probability: 0.30},
	{From: StatusProcessing, To: StatusShipped, Probability: 0.20},
	{From: StatusCancelled, To: StatusProcessing, Probability: 0.20},
	{From: StatusDelivered, To: StatusPending, Probability: 0.10},
}

var transitionSet = buildTransitionSet(Transitions)

func buildTransitionSet(edges []Transition) map[Status]map[Status]struct{} {
	set := make(map[Status]map[Status]struct{}, len(edges))
	for _, e := range edges {
		next, ok := set[e.From]
		if !ok {
			next = make(map[Status]struct{})
			set[e.From] = next
		}
		next[e.To] = struct{}{}
	}
	return set
}

// CanTransition reports whether the graph has an edge from -> to
func CanTransition(from, to Status) bool {
	next, ok := transitionSet[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

// OutgoingTransitions returns the edges leaving from, in evaluation order
func OutgoingTransitions(from Status) []Transition {
	var out []Transition
	for _, e := range Transitions {
		if e.From == from {
			out = append(out, e)
		}
	}
	return out
}
