package convo

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Conversation groups the scenes of one dialogue inside a scenario.
type Conversation struct {
	UID         uuid.UUID `json:"uid"`
	OdID        string    `json:"od_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Interpreter string    `json:"interpreter"`

	Behaviors Behaviors `json:"behaviors,omitempty"`

	// ScenarioUID is a back-reference for lookup only; ownership runs
	// downward from the scenario.
	ScenarioUID uuid.UUID `json:"scenario_uid"`

	Scenes []*Scene `json:"scenes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewConversation(odID, name string) *Conversation {
	return &Conversation{OdID: odID, Name: name}
}

func (c *Conversation) AddScene(s *Scene) {
	c.Scenes = append(c.Scenes, s)
}

func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	out := *c
	out.Behaviors = c.Behaviors.Clone()
	if c.Scenes != nil {
		out.Scenes = make([]*Scene, len(c.Scenes))
		for i, s := range c.Scenes {
			out.Scenes[i] = s.Clone()
		}
	}
	return &out
}

func (c *Conversation) Equal(o *Conversation) bool { return reflect.DeepEqual(c, o) }
