package convo

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultInterpreter is the platform fallback used when a node does not
	// name its own interpreter.
	DefaultInterpreter = "interpreter.core.nlp"
	// CallbackInterpreter resolves incoming callback intents by exact id.
	CallbackInterpreter = "interpreter.core.callbackInterpreter"
)

// Scenario is the top-level conversational context. It is the only entity
// creatable directly from an external payload without a parent.
type Scenario struct {
	UID         uuid.UUID `json:"uid"`
	OdID        string    `json:"od_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Interpreter string    `json:"interpreter"`

	Behaviors  Behaviors   `json:"behaviors,omitempty"`
	Conditions []Condition `json:"conditions,omitempty"`

	Conversations []*Conversation `json:"conversations,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewScenario builds a scenario with the platform fallback interpreter.
func NewScenario(odID, name string) *Scenario {
	return &Scenario{
		OdID:        odID,
		Name:        name,
		Interpreter: DefaultInterpreter,
	}
}

func (s *Scenario) AddConversation(c *Conversation) {
	s.Conversations = append(s.Conversations, c)
}

func (s *Scenario) AddCondition(c Condition) {
	s.Conditions = append(s.Conditions, c)
}

func (s *Scenario) Clone() *Scenario {
	if s == nil {
		return nil
	}
	out := *s
	out.Behaviors = s.Behaviors.Clone()
	out.Conditions = cloneConditions(s.Conditions)
	if s.Conversations != nil {
		out.Conversations = make([]*Conversation, len(s.Conversations))
		for i, c := range s.Conversations {
			out.Conversations[i] = c.Clone()
		}
	}
	return &out
}

func (s *Scenario) Equal(o *Scenario) bool { return reflect.DeepEqual(s, o) }
