package calendar

import (
	"sort"

	"lg/life-dashboard-go-api/internal/activity"
)

// Signal names the source that marked an activity as scheduled.
type Signal string

const (
	SignalTask    Signal = "task"
	SignalPlan    Signal = "plan"
	SignalHistory Signal = "history"
)

// scheduleInput is one day's sources reduced to sets of activity types.
type scheduleInput struct {
	tasks      map[activity.Type]bool
	planSlots  map[activity.Type]bool
	activities map[activity.Type]bool
}

func newScheduleInput(date string, src Sources) scheduleInput {
	in := scheduleInput{
		tasks:      map[activity.Type]bool{},
		planSlots:  map[activity.Type]bool{},
		activities: activity.BuildActivityMap(date, src.History),
	}
	if src.Scheduled != nil && src.Scheduled.Date == date {
		for _, raw := range src.Scheduled.Tasks {
			if t, err := activity.Parse(raw); err == nil {
				in.tasks[t] = true
			}
		}
	}
	if src.Plan != nil && src.Plan.Date == date {
		for name := range src.Plan.Timeslots {
			slot, err := activity.ParseSlot(name)
			if err != nil || !src.Plan.HasFoods(name) {
				continue
			}
			in.planSlots[activity.Meal(slot)] = true
		}
	}
	return in
}

// scheduleRules is evaluated top to bottom; the first matching rule decides.
// The scheduled-activities document is authoritative. A plan slot holding food
// counts for meals on days created before that document existed. A history
// entry means the activity was marked at some point, so it was scheduled.
var scheduleRules = []struct {
	signal    Signal
	mealsOnly bool
	matches   func(in scheduleInput, t activity.Type) bool
}{
	{SignalTask, false, func(in scheduleInput, t activity.Type) bool { return in.tasks[t] }},
	{SignalPlan, true, func(in scheduleInput, t activity.Type) bool { return in.planSlots[t] }},
	{SignalHistory, false, func(in scheduleInput, t activity.Type) bool {
		_, ok := in.activities[t]
		return ok
	}},
}

// scheduledBy reports whether t is scheduled on the day and which rule said so.
func scheduledBy(t activity.Type, in scheduleInput) (Signal, bool) {
	for _, rule := range scheduleRules {
		if rule.mealsOnly && !t.IsMeal() {
			continue
		}
		if rule.matches(in, t) {
			return rule.signal, true
		}
	}
	return "", false
}

// mealCandidates lists every meal type any source mentions, in clock order.
func (in scheduleInput) mealCandidates() []activity.Type {
	seen := map[activity.Type]bool{}
	var out []activity.Type
	for _, set := range []map[activity.Type]bool{in.tasks, in.planSlots, in.activities} {
		for t := range set {
			if t.IsMeal() && !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		mi, mj := activity.SlotMinutes(out[i].Slot), activity.SlotMinutes(out[j].Slot)
		if mi != mj {
			return mi < mj
		}
		return out[i].Slot < out[j].Slot
	})
	return out
}
