package convo

// BehaviorTag marks the structural role of a graph node.
type BehaviorTag string

const (
	// BehaviorStarting marks a node as a valid entry point.
	BehaviorStarting BehaviorTag = "STARTING"
	// BehaviorCompleting marks an intent as terminating the exchange.
	BehaviorCompleting BehaviorTag = "COMPLETING"
	BehaviorOpen       BehaviorTag = "OPEN"
)

type Behavior struct {
	Tag BehaviorTag `json:"tag"`
}

type Behaviors []Behavior

func (bs Behaviors) Has(tag BehaviorTag) bool {
	for _, b := range bs {
		if b.Tag == tag {
			return true
		}
	}
	return false
}

func (bs Behaviors) Clone() Behaviors {
	if bs == nil {
		return nil
	}
	out := make(Behaviors, len(bs))
	copy(out, bs)
	return out
}
