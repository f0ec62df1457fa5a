package parse

import (
	"strings"

	"meeting-room-backend/internal/model"
)

// TagVocabulary describes how free-text room tags encode eligibility.
type TagVocabulary struct {
	ExclusiveProvincial string // whole tag, exact match
	CompatibleMarker    string // substring
}

// normalizeTag folds full-width parentheses and whitespace so that tags typed
// with either punctuation compare equal.
func normalizeTag(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("(", "（", ")", "）").Replace(s)
	return strings.Join(strings.Fields(s), "")
}

// ClassifyTag resolves a room's level tag into its capability set.
//
// A tag equal to the exclusive vocabulary entry is exclusive-provincial and
// nothing else. Otherwise a tag containing the compatible marker serves both
// provincial and headquarters meetings. Anything else resolves to the empty set.
func ClassifyTag(tag string, v TagVocabulary) model.Capabilities {
	var caps model.Capabilities
	t := normalizeTag(tag)
	if t == "" {
		return caps
	}

	if v.ExclusiveProvincial != "" && t == normalizeTag(v.ExclusiveProvincial) {
		return caps.With(model.ExclusiveProvincial)
	}
	if v.CompatibleMarker != "" && strings.Contains(t, normalizeTag(v.CompatibleMarker)) {
		caps = caps.With(model.CompatibleProvincial).With(model.CompatibleHeadquarters)
	}
	return caps
}
