// Package parser turns a one-line task definition into structured fields.
//
// Grammar: <title> / HH:MM [/ DD.MM] [/ #project], the date and project
// fields optional and order-independent.
package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"taskbuddy/internal/model"
)

// ErrInvalidFormat reports task text that does not match the grammar.
var ErrInvalidFormat = errors.New("invalid task format")

const dayMonthLayout = "02.01"

var taskShape = regexp.MustCompile(`^[^/]+/\s*\d{2}:\d{2}(\s*/\s*(\d{2}\.\d{2}|#.+?))*\s*$`)

// Input is a parsed task-creation request. Time and Date are in the
// storage layouts of the model package.
type Input struct {
	Title       string
	Time        string
	Date        string
	ProjectName string
}

// IsTaskDefinition reports whether text has the overall shape of a task
// definition, so the dispatcher can route everything else elsewhere.
func IsTaskDefinition(text string) bool {
	return taskShape.MatchString(strings.TrimSpace(text))
}

// Parse splits text on slashes and validates each field. The date
// defaults to now's calendar date; DD.MM binds to now's year.
func Parse(text string, now time.Time) (Input, error) {
	var parts []string
	for _, p := range strings.Split(text, "/") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return Input{}, fmt.Errorf("%w: need at least a title and a time", ErrInvalidFormat)
	}

	// time.Parse alone tolerates a single-digit hour; the round-trip
	// comparison enforces strict zero-padded HH:MM.
	clock, err := time.Parse(model.TimeLayout, parts[1])
	if err != nil || clock.Format(model.TimeLayout) != parts[1] {
		return Input{}, fmt.Errorf("%w: bad time %q", ErrInvalidFormat, parts[1])
	}

	in := Input{
		Title: parts[0],
		Time:  clock.Format(model.TimeLayout),
		Date:  now.Format(model.DateLayout),
	}

	for _, p := range parts[2:] {
		switch {
		case strings.HasPrefix(p, "#"):
			in.ProjectName = strings.TrimSpace(strings.TrimPrefix(p, "#"))
		case strings.Contains(p, "."):
			day, err := time.Parse(dayMonthLayout, p)
			if err != nil {
				return Input{}, fmt.Errorf("%w: bad date %q", ErrInvalidFormat, p)
			}
			in.Date = time.Date(now.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location()).
				Format(model.DateLayout)
		default:
			return Input{}, fmt.Errorf("%w: unrecognized field %q", ErrInvalidFormat, p)
		}
	}

	return in, nil
}
