package convo

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Turn is a single request/response exchange inside a scene. Its two intent
// sequences are disjoint: an intent sits on exactly one side, decided by its
// REQUEST/RESPONSE classification at store time.
type Turn struct {
	UID         uuid.UUID `json:"uid"`
	OdID        string    `json:"od_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Interpreter string    `json:"interpreter"`

	Behaviors Behaviors `json:"behaviors,omitempty"`

	SceneUID uuid.UUID `json:"scene_uid"`

	RequestIntents  []*Intent `json:"request_intents,omitempty"`
	ResponseIntents []*Intent `json:"response_intents,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewTurn(odID, name string) *Turn {
	return &Turn{OdID: odID, Name: name}
}

func (t *Turn) AddRequestIntent(i *Intent) {
	t.RequestIntents = append(t.RequestIntents, i)
}

func (t *Turn) AddResponseIntent(i *Intent) {
	t.ResponseIntents = append(t.ResponseIntents, i)
}

// IntentSide reports which side of the turn holds the given intent, or ""
// when neither does.
func (t *Turn) IntentSide(intentUID uuid.UUID) Direction {
	for _, i := range t.RequestIntents {
		if i.UID == intentUID {
			return DirectionRequest
		}
	}
	for _, i := range t.ResponseIntents {
		if i.UID == intentUID {
			return DirectionResponse
		}
	}
	return ""
}

func (t *Turn) Clone() *Turn {
	if t == nil {
		return nil
	}
	out := *t
	out.Behaviors = t.Behaviors.Clone()
	out.RequestIntents = cloneIntents(t.RequestIntents)
	out.ResponseIntents = cloneIntents(t.ResponseIntents)
	return &out
}

func (t *Turn) Equal(o *Turn) bool { return reflect.DeepEqual(t, o) }

func cloneIntents(in []*Intent) []*Intent {
	if in == nil {
		return nil
	}
	out := make([]*Intent, len(in))
	for i, it := range in {
		out[i] = it.Clone()
	}
	return out
}
