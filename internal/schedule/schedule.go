// Package schedule holds the task schedule consumed by the chart renderer
// and the loaders that read it from scheduler output files.
package schedule

import (
	"fmt"
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// FiringTimes is the list of instants at which a task starts executing.
type FiringTimes []float64

// Schedule maps task names to firing times. Iteration follows insertion
// order, which decides the vertical order of the chart.
type Schedule struct {
	tasks *orderedmap.OrderedMap[string, FiringTimes]
}

// New returns an empty schedule.
func New() *Schedule {
	return &Schedule{tasks: orderedmap.New[string, FiringTimes]()}
}

// Set replaces the firing times of a task. A task that is already present
// keeps its original position.
func (s *Schedule) Set(name string, times ...float64) {
	s.tasks.Set(name, append(FiringTimes(nil), times...))
}

// Append adds firing times to a task, creating it at the end if needed.
func (s *Schedule) Append(name string, times ...float64) {
	existing, _ := s.tasks.Get(name)
	s.tasks.Set(name, append(existing, times...))
}

// Get returns the firing times of a task.
func (s *Schedule) Get(name string) (FiringTimes, bool) {
	return s.tasks.Get(name)
}

// Len returns the number of tasks.
func (s *Schedule) Len() int {
	if s == nil || s.tasks == nil {
		return 0
	}
	return s.tasks.Len()
}

// Names returns the task names in insertion order.
func (s *Schedule) Names() []string {
	names := make([]string, 0, s.Len())
	s.Each(func(name string, _ FiringTimes) {
		names = append(names, name)
	})
	return names
}

// Each calls fn for every task in insertion order.
func (s *Schedule) Each(fn func(name string, times FiringTimes)) {
	if s.Len() == 0 {
		return
	}
	for pair := s.tasks.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// toFiringTimes normalizes a decoded document value. A bare number becomes
// a one-element list.
func toFiringTimes(name string, v any) (FiringTimes, error) {
	switch val := v.(type) {
	case []any:
		times := make(FiringTimes, 0, len(val))
		for i, item := range val {
			f, ok := toFloat(item)
			if !ok {
				return nil, fmt.Errorf("task %q: firing time #%d is %T, expected a number", name, i, item)
			}
			times = append(times, f)
		}
		return times, nil
	default:
		f, ok := toFloat(val)
		if !ok {
			return nil, fmt.Errorf("task %q: value is %T, expected a number or a list of numbers", name, v)
		}
		return FiringTimes{f}, nil
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return math.NaN(), false
	}
}
