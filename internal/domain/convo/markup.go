package convo

// SegmentText is the only segment kind this layer emits. Other kinds
// (images, buttons) are produced by the authoring UI, not here.
const SegmentText = "text"

// MessageSegment is one element of a message template's markup payload.
type MessageSegment struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
}

// Markup is the ordered message payload rendered for a response intent.
type Markup struct {
	Segments []MessageSegment `json:"segments"`
}

// TextMarkup builds a markup payload holding a single plain-text segment.
func TextMarkup(text string) Markup {
	return Markup{Segments: []MessageSegment{{Kind: SegmentText, Text: text}}}
}

func (m Markup) Clone() Markup {
	if m.Segments == nil {
		return Markup{}
	}
	out := make([]MessageSegment, len(m.Segments))
	copy(out, m.Segments)
	return Markup{Segments: out}
}
