// Package activity models the closed set of trackable activities and owns the
// completion history write path.
package activity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the category of a tracked activity.
type Kind string

const (
	KindMeal    Kind = "meal"
	KindGym     Kind = "gym"
	KindFinance Kind = "finance"
	KindWater   Kind = "water"
)

// ParseKind accepts a module name such as "food" or "gym".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "meal", "food":
		return KindMeal, nil
	case "gym", "workout":
		return KindGym, nil
	case "finance":
		return KindFinance, nil
	case "water", "hydration":
		return KindWater, nil
	}
	return "", fmt.Errorf("unknown module %q", s)
}

// Type identifies one activity on a day. Only meals carry a Slot.
type Type struct {
	Kind Kind
	Slot string
}

var (
	Gym     = Type{Kind: KindGym}
	Finance = Type{Kind: KindFinance}
	Water   = Type{Kind: KindWater}
)

// Meal returns the meal activity for a timeslot such as "6pm".
func Meal(slot string) Type {
	return Type{Kind: KindMeal, Slot: strings.ToLower(strings.TrimSpace(slot))}
}

// String returns the canonical identifier stored in tasks and history records.
func (t Type) String() string {
	switch t.Kind {
	case KindMeal:
		return "meal-" + t.Slot
	case KindGym:
		return "gym-workout"
	case KindFinance:
		return "finance"
	case KindWater:
		return "water"
	}
	return string(t.Kind)
}

// IsMeal reports whether t is a meal timeslot activity.
func (t Type) IsMeal() bool { return t.Kind == KindMeal }

// slotPattern matches clock-style timeslot names: "6pm", "9:30pm", "12:00am".
var slotPattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?(am|pm)$`)

// ParseSlot validates a meal timeslot name and returns its canonical form.
// Only clock-style names are accepted, so every slot a plan or the config
// holds round-trips through Parse as "meal-<slot>".
func ParseSlot(raw string) (string, error) {
	slot := strings.ToLower(strings.TrimSpace(raw))
	if !slotPattern.MatchString(slot) {
		return "", fmt.Errorf("invalid meal timeslot %q, expected a clock time such as 6pm or 9:30pm", raw)
	}
	return slot, nil
}

// Parse converts a raw identifier from the store or a request into a Type.
// Canonical forms are "meal-<slot>", "gym-workout", "finance" and "water";
// bare slot names ("6pm") and a few aliases are accepted for older records.
func Parse(raw string) (Type, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "":
		return Type{}, fmt.Errorf("empty activity type")
	case strings.HasPrefix(s, "meal-"):
		slot, err := ParseSlot(strings.TrimPrefix(s, "meal-"))
		if err != nil {
			return Type{}, err
		}
		return Meal(slot), nil
	case slotPattern.MatchString(s):
		return Meal(s), nil
	case s == "gym-workout" || s == "gym" || s == "workout":
		return Gym, nil
	case s == "finance" || strings.HasPrefix(s, "finance-"):
		return Finance, nil
	case s == "water" || strings.HasPrefix(s, "water-") || s == "hydration":
		return Water, nil
	}
	return Type{}, fmt.Errorf("unknown activity type %q", raw)
}

// SlotMinutes returns minutes after midnight for a slot name, used to order
// meals by clock time. Unparseable slots sort last.
func SlotMinutes(slot string) int {
	m := slotPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(slot)))
	if m == nil {
		return 24 * 60
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	hour %= 12
	if m[3] == "pm" {
		hour += 12
	}
	return hour*60 + minute
}
