package buildevents

import "time"

// Event types pushed over /ws during a rebuild.
const (
	EventBuildStarted  = "build.started"
	EventSetBuilt      = "build.set_built"
	EventBuildFinished = "build.finished"
	EventBuildFailed   = "build.failed"
)

type BuildEvent struct {
	Type       string    `json:"type"`
	SetCode    string    `json:"set_code,omitempty"`
	CardCount  int       `json:"card_count,omitempty"`
	TokenCount int       `json:"token_count,omitempty"`
	Error      string    `json:"error,omitempty"`
	At         time.Time `json:"at"`
}

func Started() BuildEvent {
	return BuildEvent{Type: EventBuildStarted, At: time.Now().UTC()}
}

func SetBuilt(code string, cards, tokens int) BuildEvent {
	return BuildEvent{
		Type:       EventSetBuilt,
		SetCode:    code,
		CardCount:  cards,
		TokenCount: tokens,
		At:         time.Now().UTC(),
	}
}

func Finished() BuildEvent {
	return BuildEvent{Type: EventBuildFinished, At: time.Now().UTC()}
}

func Failed(err error) BuildEvent {
	return BuildEvent{Type: EventBuildFailed, Error: err.Error(), At: time.Now().UTC()}
}
