package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date wire format for rotation windows.
const DateLayout = "2006-01-02"

// Rotation is one duty window of a project. The window is half-open:
// [StartDate, EndDate). Assignees and Reviewers are ordered role tags and
// always hold at least one entry.
type Rotation struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Assignees []string  `json:"assignees"`
	Reviewers []string  `json:"reviewers"`
}

// DueRotation is a rotation whose window has closed, paired with the owning
// project's period so the next window can be derived.
type DueRotation struct {
	Rotation   Rotation
	PeriodDays int
}

// ParseDate parses a calendar date and pins it to UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// WindowEnd derives the exclusive end of a window. The end date is never
// stored independently of this derivation at creation time.
func WindowEnd(start time.Time, periodDays int) time.Time {
	return start.AddDate(0, 0, periodDays)
}

// First builds the initial rotation of a project.
func First(projectID string, start time.Time, periodDays int, assignees, reviewers []string) Rotation {
	return Rotation{
		ProjectID: projectID,
		StartDate: start,
		EndDate:   WindowEnd(start, periodDays),
		Assignees: assignees,
		Reviewers: reviewers,
	}
}

// Next derives the following window: it begins where this one ends and
// carries the same role sets.
func (r Rotation) Next(periodDays int) Rotation {
	return Rotation{
		ProjectID: r.ProjectID,
		StartDate: r.EndDate,
		EndDate:   WindowEnd(r.EndDate, periodDays),
		Assignees: r.Assignees,
		Reviewers: r.Reviewers,
	}
}

// Contains reports whether t falls inside the half-open window.
func (r Rotation) Contains(t time.Time) bool {
	return !t.Before(r.StartDate) && t.Before(r.EndDate)
}

// Expired reports whether the window has fully elapsed at t.
func (r Rotation) Expired(t time.Time) bool {
	return !t.Before(r.EndDate)
}
