// Package ics renders stored events as an iCalendar feed for external calendar apps.
package ics

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/jobcal/jobcal/internal/utils"
	"github.com/jobcal/jobcal/pkg/event"
	log "github.com/sirupsen/logrus"
	"github.com/teambition/rrule-go"
)

const (
	productID = "-//jobcal//jobcal calendar//EN"
	uidDomain = "jobcal"
)

type Feed struct {
	Name string
	Loc  *time.Location
}

// Render builds one VCALENDAR with a VEVENT per event, plus separate all-day VEVENTs for
// deadlines and timed VEVENTs for preparation dates.
func (f Feed) Render(events []event.Event, stamp time.Time) string {
	loc := f.Loc
	if loc == nil {
		loc = time.Local
	}
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if f.Name != "" {
		cal.SetXWRCalName(f.Name)
	}
	cal.SetXWRTimezone(loc.String())

	for _, e := range events {
		if e.StartAt.IsZero() {
			log.Warnf("skipping event %s without start in ICS feed", e.ID)
			continue
		}
		e = e.In(loc)
		addMain(cal, e, stamp)
		if e.DeadlineAt != nil && !e.DeadlineAt.IsZero() {
			addDeadline(cal, e, stamp)
		}
		for _, p := range e.PreparationDates {
			if p.Date.IsZero() {
				continue
			}
			addPreparation(cal, e, p, stamp)
		}
	}
	return cal.Serialize()
}

func uid(prefix string, id fmt.Stringer) string {
	return prefix + id.String() + "@" + uidDomain
}

func addMain(cal *ical.Calendar, e event.Event, stamp time.Time) {
	ve := cal.AddEvent(uid("", e.ID))
	ve.SetDtStampTime(stamp)
	ve.SetSummary(e.Title)
	if e.AllDay {
		ve.SetAllDayStartAt(utils.StartOfDay(e.StartAt))
		end := utils.StartOfDay(e.EndAt)
		if end.Before(utils.StartOfDay(e.StartAt)) {
			end = utils.StartOfDay(e.StartAt)
		}
		// DTEND is exclusive for DATE values
		ve.SetAllDayEndAt(end.AddDate(0, 0, 1))
	} else {
		ve.SetStartAt(e.StartAt)
		ve.SetEndAt(e.EndAt)
	}
	if e.Location != "" {
		ve.SetLocation(e.Location)
	}
	if e.MeetingURL != "" {
		ve.SetURL(e.MeetingURL)
	}
	if desc := description(e); desc != "" {
		ve.SetDescription(desc)
	}
	if e.EventType != event.EventTypeNone {
		ve.SetProperty(ical.ComponentPropertyCategories, string(e.EventType))
	}
	if rule, ok := RRule(e); ok {
		ve.AddRrule(rule)
	}
}

func addDeadline(cal *ical.Calendar, e event.Event, stamp time.Time) {
	ve := cal.AddEvent(uid("deadline-", e.ID))
	ve.SetDtStampTime(stamp)
	ve.SetSummary("Deadline: " + e.Title)
	day := utils.StartOfDay(*e.DeadlineAt)
	ve.SetAllDayStartAt(day)
	ve.SetAllDayEndAt(day.AddDate(0, 0, 1))
	ve.SetProperty(ical.ComponentPropertyRelatedTo, uid("", e.ID))
}

func addPreparation(cal *ical.Calendar, e event.Event, p event.PreparationDate, stamp time.Time) {
	ve := cal.AddEvent(uid("prep-", p.ID))
	ve.SetDtStampTime(stamp)
	title := p.Title
	if title == "" {
		title = e.Title
	}
	ve.SetSummary("Prep: " + title)
	ve.SetStartAt(p.Date)
	end := p.Date
	if p.EndDate != nil && p.EndDate.After(p.Date) {
		end = *p.EndDate
	}
	ve.SetEndAt(end)
	ve.SetProperty(ical.ComponentPropertyRelatedTo, uid("", e.ID))
}

func description(e event.Event) string {
	var lines []string
	if e.CompanyName != "" {
		lines = append(lines, "Company: "+e.CompanyName)
	}
	if e.MeetingURL != "" {
		lines = append(lines, "Meeting: "+e.MeetingURL)
	}
	if e.Memo != "" {
		lines = append(lines, e.Memo)
	}
	return strings.Join(lines, "\n")
}

// RRule returns the RRULE value (without the "RRULE:" prefix) for the event's recurrence.
// Custom rules and non-recurring events have none. UNTIL covers the whole end date.
func RRule(e event.Event) (string, bool) {
	rule := e.Recurrence
	var freq rrule.Frequency
	switch rule.Type {
	case event.RecurrenceDaily:
		freq = rrule.DAILY
	case event.RecurrenceWeekly:
		freq = rrule.WEEKLY
	case event.RecurrenceMonthly:
		freq = rrule.MONTHLY
	case event.RecurrenceYearly:
		freq = rrule.YEARLY
	default:
		return "", false
	}

	opt := rrule.ROption{Freq: freq, Interval: rule.Step()}
	switch rule.End() {
	case event.EndCount:
		if rule.EndCount > 0 {
			opt.Count = rule.EndCount
		}
	case event.EndDate:
		if rule.EndDate != nil && !rule.EndDate.IsZero() {
			y, m, d := rule.EndDate.Date()
			opt.Until = time.Date(y, m, d, 23, 59, 59, 0, e.StartAt.Location()).UTC()
		}
	}
	return opt.RRuleString(), true
}
