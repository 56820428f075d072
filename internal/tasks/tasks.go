// Package tasks holds the in-memory to-do list shown next to the console
// and the completion percentage derived from it.
package tasks

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// Task is a single to-do item.
type Task struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

// List is an ordered task collection. It is not safe for concurrent use;
// callers serialize access.
type List struct {
	items []Task
	newID func() string
}

// New returns an empty list that assigns random UUIDs.
func New() *List {
	return &List{newID: uuid.NewString}
}

// Add appends an open task. Blank labels are rejected.
func (l *List) Add(label string) (Task, bool) {
	if strings.TrimSpace(label) == "" {
		return Task{}, false
	}

	id := l.newID()
	for l.indexOf(id) >= 0 {
		id = l.newID()
	}

	t := Task{ID: id, Label: label}
	l.items = append(l.items, t)
	return t, true
}

// Toggle flips the Done flag of the task with the given ID.
// If the task is not found, it is a no-op and returns false.
func (l *List) Toggle(id string) bool {
	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	l.items[i].Done = !l.items[i].Done
	return true
}

// ClearCompleted removes every done task, keeping the order of the rest,
// and returns how many were removed.
func (l *List) ClearCompleted() int {
	kept := l.items[:0]
	for _, t := range l.items {
		if !t.Done {
			kept = append(kept, t)
		}
	}
	removed := len(l.items) - len(kept)
	// Zero the tail so dropped labels are not retained by the backing array.
	for i := len(kept); i < len(l.items); i++ {
		l.items[i] = Task{}
	}
	l.items = kept
	return removed
}

// Items returns a copy of the tasks in order.
func (l *List) Items() []Task {
	out := make([]Task, len(l.items))
	copy(out, l.items)
	return out
}

// Counts returns the number of done tasks and the total.
func (l *List) Counts() (completed, total int) {
	for _, t := range l.items {
		if t.Done {
			completed++
		}
	}
	return completed, len(l.items)
}

// Percent returns the completion percentage of the list.
func (l *List) Percent() int {
	return Percent(l.Counts())
}

// Percent is round(completed/total*100), or 0 for an empty list.
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

func (l *List) indexOf(id string) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}
