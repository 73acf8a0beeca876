package domain

// ToggleOutcome is the state a like toggle left behind.
type ToggleOutcome string

const (
	Liked   ToggleOutcome = "liked"
	Unliked ToggleOutcome = "unliked"
)

// Message is the human-readable confirmation for the outcome.
func (o ToggleOutcome) Message() string {
	if o == Unliked {
		return "Movie unliked"
	}
	return "Movie liked"
}
