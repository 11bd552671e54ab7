package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type taskLog = orderedmap.OrderedMap[string, []Session]

// Ledger maps project to task to sessions. Projects and tasks iterate in
// the order they were first recorded and sessions in append order. There
// is no removal.
type Ledger struct {
	projects *orderedmap.OrderedMap[string, *taskLog]
}

func NewLedger() *Ledger {
	return &Ledger{projects: orderedmap.New[string, *taskLog]()}
}

func (l *Ledger) init() {
	if l.projects == nil {
		l.projects = orderedmap.New[string, *taskLog]()
	}
}

func (l *Ledger) Append(project, task string, session Session) {
	l.init()
	tasks, ok := l.projects.Get(project)
	if !ok {
		tasks = orderedmap.New[string, []Session]()
		l.projects.Set(project, tasks)
	}
	sessions, _ := tasks.Get(task)
	tasks.Set(task, append(sessions, session))
}

func (l *Ledger) Projects() []string {
	l.init()
	out := make([]string, 0, l.projects.Len())
	for pair := l.projects.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

func (l *Ledger) Tasks(project string) []string {
	l.init()
	tasks, ok := l.projects.Get(project)
	if !ok {
		return nil
	}
	out := make([]string, 0, tasks.Len())
	for pair := tasks.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

func (l *Ledger) Sessions(project, task string) []Session {
	l.init()
	tasks, ok := l.projects.Get(project)
	if !ok {
		return nil
	}
	sessions, _ := tasks.Get(task)
	return append([]Session(nil), sessions...)
}

// Each visits every session in ledger order.
func (l *Ledger) Each(fn func(project, task string, session Session)) {
	l.init()
	for p := l.projects.Oldest(); p != nil; p = p.Next() {
		for t := p.Value.Oldest(); t != nil; t = t.Next() {
			for _, session := range t.Value {
				fn(p.Key, t.Key, session)
			}
		}
	}
}

// LastEnd is the latest session end recorded for project, or 0.
func (l *Ledger) LastEnd(project string) int64 {
	l.init()
	var last int64
	tasks, ok := l.projects.Get(project)
	if !ok {
		return 0
	}
	for t := tasks.Oldest(); t != nil; t = t.Next() {
		for _, session := range t.Value {
			if session.End > last {
				last = session.End
			}
		}
	}
	return last
}

func (l *Ledger) Len() int {
	n := 0
	l.Each(func(string, string, Session) { n++ })
	return n
}

func (l *Ledger) MarshalJSON() ([]byte, error) {
	l.init()
	return l.projects.MarshalJSON()
}

func (l *Ledger) UnmarshalJSON(data []byte) error {
	projects := orderedmap.New[string, *taskLog]()
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		l.projects = projects
		return nil
	}
	if err := json.Unmarshal(data, projects); err != nil {
		return fmt.Errorf("decode ledger: %w", err)
	}
	for p := projects.Oldest(); p != nil; p = p.Next() {
		if p.Value == nil {
			projects.Set(p.Key, orderedmap.New[string, []Session]())
		}
	}
	l.projects = projects
	return nil
}
