package convo

import "fmt"

// Speaker identifies who utters an intent.
type Speaker string

const (
	SpeakerUser Speaker = "USER"
	SpeakerApp  Speaker = "APP"
)

func ParseSpeaker(s string) (Speaker, error) {
	switch Speaker(s) {
	case SpeakerUser, SpeakerApp:
		return Speaker(s), nil
	}
	return "", fmt.Errorf("unknown speaker %q", s)
}

// Direction classifies which side of a turn an intent sits on. It is set
// independently of Speaker by the API layer; the relation manager reconciles
// the two.
type Direction string

const (
	DirectionRequest  Direction = "REQUEST"
	DirectionResponse Direction = "RESPONSE"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionRequest, DirectionResponse:
		return Direction(s), nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// DirectionForSpeaker maps USER to REQUEST and APP to RESPONSE.
func DirectionForSpeaker(sp Speaker) Direction {
	if sp == SpeakerUser {
		return DirectionRequest
	}
	return DirectionResponse
}
