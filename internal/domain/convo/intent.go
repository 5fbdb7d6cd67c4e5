package convo

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Intent is a recognized or emitted utterance purpose. Speaker determines
// its canonical direction: USER intents are requests, APP intents are
// responses.
type Intent struct {
	UID  uuid.UUID `json:"uid"`
	OdID string    `json:"od_id"`
	Name string    `json:"name"`

	Speaker         Speaker `json:"speaker"`
	IsRequestIntent bool    `json:"is_request_intent"`

	SampleUtterance string  `json:"sample_utterance"`
	Interpreter     string  `json:"interpreter"`
	Confidence      float64 `json:"confidence"`

	Behaviors  Behaviors   `json:"behaviors,omitempty"`
	Conditions []Condition `json:"conditions,omitempty"`

	TurnUID uuid.UUID `json:"turn_uid"`

	MessageTemplates []*MessageTemplate `json:"message_templates,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewIntent refuses any speaker outside USER/APP. Field-shape validation
// beyond that belongs to the transport layer.
func NewIntent(odID, name string, speaker Speaker) (*Intent, error) {
	if speaker != SpeakerUser && speaker != SpeakerApp {
		return nil, fmt.Errorf("intent %q: speaker must be USER or APP, got %q", odID, speaker)
	}
	return &Intent{
		OdID:            odID,
		Name:            name,
		Speaker:         speaker,
		IsRequestIntent: speaker == SpeakerUser,
	}, nil
}

// Direction is the classification implied by the speaker.
func (i *Intent) Direction() Direction {
	return DirectionForSpeaker(i.Speaker)
}

func (i *Intent) AddMessageTemplate(mt *MessageTemplate) {
	i.MessageTemplates = append(i.MessageTemplates, mt)
}

func (i *Intent) Clone() *Intent {
	if i == nil {
		return nil
	}
	out := *i
	out.Behaviors = i.Behaviors.Clone()
	out.Conditions = cloneConditions(i.Conditions)
	if i.MessageTemplates != nil {
		out.MessageTemplates = make([]*MessageTemplate, len(i.MessageTemplates))
		for n, mt := range i.MessageTemplates {
			out.MessageTemplates[n] = mt.Clone()
		}
	}
	return &out
}

func (i *Intent) Equal(o *Intent) bool { return reflect.DeepEqual(i, o) }
