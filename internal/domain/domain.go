package domain

import (
	"github.com/openconvo/convograph-backend/internal/domain/convo"
)

type Scenario = convo.Scenario
type Conversation = convo.Conversation
type Scene = convo.Scene
type Turn = convo.Turn
type Intent = convo.Intent
type MessageTemplate = convo.MessageTemplate
type Behavior = convo.Behavior
type Behaviors = convo.Behaviors
type BehaviorTag = convo.BehaviorTag
type Condition = convo.Condition
type Speaker = convo.Speaker
type Direction = convo.Direction
type Markup = convo.Markup
type MessageSegment = convo.MessageSegment

const (
	SpeakerUser = convo.SpeakerUser
	SpeakerApp  = convo.SpeakerApp

	DirectionRequest  = convo.DirectionRequest
	DirectionResponse = convo.DirectionResponse

	BehaviorStarting   = convo.BehaviorStarting
	BehaviorCompleting = convo.BehaviorCompleting

	DefaultInterpreter  = convo.DefaultInterpreter
	CallbackInterpreter = convo.CallbackInterpreter
)

func NewScenario(odID, name string) *Scenario { return convo.NewScenario(odID, name) }

func NewConversation(odID, name string) *Conversation { return convo.NewConversation(odID, name) }

func NewScene(odID, name string) *Scene { return convo.NewScene(odID, name) }

func NewTurn(odID, name string) *Turn { return convo.NewTurn(odID, name) }

func NewIntent(odID, name string, speaker Speaker) (*Intent, error) {
	return convo.NewIntent(odID, name, speaker)
}

func NewMessageTemplate(odID, name string, markup Markup) *MessageTemplate {
	return convo.NewMessageTemplate(odID, name, markup)
}

func TextMarkup(text string) Markup { return convo.TextMarkup(text) }

func ParseSpeaker(raw string) (Speaker, error) { return convo.ParseSpeaker(raw) }

func ParseDirection(raw string) (Direction, error) { return convo.ParseDirection(raw) }
