package convo

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Scene groups the turns of one exchange inside a conversation.
type Scene struct {
	UID         uuid.UUID `json:"uid"`
	OdID        string    `json:"od_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Interpreter string    `json:"interpreter"`

	Behaviors Behaviors `json:"behaviors,omitempty"`

	ConversationUID uuid.UUID `json:"conversation_uid"`

	Turns []*Turn `json:"turns,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewScene(odID, name string) *Scene {
	return &Scene{OdID: odID, Name: name}
}

func (s *Scene) AddTurn(t *Turn) {
	s.Turns = append(s.Turns, t)
}

func (s *Scene) Clone() *Scene {
	if s == nil {
		return nil
	}
	out := *s
	out.Behaviors = s.Behaviors.Clone()
	if s.Turns != nil {
		out.Turns = make([]*Turn, len(s.Turns))
		for i, t := range s.Turns {
			out.Turns[i] = t.Clone()
		}
	}
	return &out
}

func (s *Scene) Equal(o *Scene) bool { return reflect.DeepEqual(s, o) }
