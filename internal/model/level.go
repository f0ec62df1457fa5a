package model

import "strings"

// MeetingLevel is the classification of a requested meeting.
type MeetingLevel string

const (
	LevelProvincial   MeetingLevel = "provincial"
	LevelHeadquarters MeetingLevel = "headquarters"
)

// ParseMeetingLevel maps a request value onto a MeetingLevel. Both the English
// names and the labels used by existing clients are accepted.
func ParseMeetingLevel(raw string) (MeetingLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "provincial", "省公司会议":
		return LevelProvincial, true
	case "headquarters", "总部会议":
		return LevelHeadquarters, true
	}
	return "", false
}
