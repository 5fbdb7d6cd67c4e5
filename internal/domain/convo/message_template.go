package convo

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// MessageTemplate is the rendering payload attached to a response intent.
type MessageTemplate struct {
	UID    uuid.UUID `json:"uid"`
	OdID   string    `json:"od_id"`
	Name   string    `json:"name"`
	Markup Markup    `json:"markup"`

	IntentUID uuid.UUID `json:"intent_uid"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewMessageTemplate(odID, name string, markup Markup) *MessageTemplate {
	return &MessageTemplate{OdID: odID, Name: name, Markup: markup}
}

func (m *MessageTemplate) Clone() *MessageTemplate {
	if m == nil {
		return nil
	}
	out := *m
	out.Markup = m.Markup.Clone()
	return &out
}

func (m *MessageTemplate) Equal(o *MessageTemplate) bool { return reflect.DeepEqual(m, o) }
