package nugget

import "strings"

// Topics is the fixed topic vocabulary used by the analyzer.
var Topics = []string{
	"sleep",
	"productivity",
	"health",
	"relationships",
	"business",
	"creativity",
	"learning",
	"fitness",
	"nutrition",
	"mindset",
	"technology",
	"parenting",
	"finance",
	"communication",
}

// WisdomTypes lists every wisdom type.
var WisdomTypes = []WisdomType{
	WisdomPrinciple,
	WisdomHabit,
	WisdomMentalModel,
	WisdomLifeLesson,
	WisdomTechnique,
	WisdomWarning,
}

// IsKnownTopic reports whether topic is part of the vocabulary (case-insensitive).
func IsKnownTopic(topic string) bool {
	topic = strings.ToLower(topic)
	for _, t := range Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// Valid reports whether w is a known wisdom type (case-insensitive).
func (w WisdomType) Valid() bool {
	lower := WisdomType(strings.ToLower(string(w)))
	for _, known := range WisdomTypes {
		if lower == known {
			return true
		}
	}
	return false
}
