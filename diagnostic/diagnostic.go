// Copyright (c) 2026 The PDD Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package diagnostic collects the single-line, per-function messages
// spec.md §7 requires the pipeline to surface ("a single line on the output
// channel describing which stage gave up and for which function") into a
// Log, printable plain or themed.
package diagnostic

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/pdd-project/pdd/pdderr"
)

// Severity classifies a log entry, mirroring the INFO/WARNING/ERROR
// escalation every pass can report at.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Entry is one diagnostic line: a severity, the function it concerns (empty
// for run-wide messages), a message, and the pdderr.Kind that produced it
// when applicable.
type Entry struct {
	Severity Severity
	Function string
	Message  string
	Kind     pdderr.Kind
	hasKind  bool
}

func (e Entry) String() string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(e.Severity.String()[:1]))
	b.WriteString(e.Severity.String()[1:])
	if e.Function != "" {
		fmt.Fprintf(&b, " (%s)", e.Function)
	}
	if e.hasKind {
		fmt.Fprintf(&b, " [%s]", e.Kind)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

// Log accumulates diagnostic entries across a pipeline run, one function at
// a time.
type Log struct {
	Entries []Entry
}

// NewLog returns an empty Log.
func NewLog() *Log {
	return &Log{}
}

func (l *Log) add(sev Severity, function, format string, args []any) {
	l.Entries = append(l.Entries, Entry{Severity: sev, Function: function, Message: fmt.Sprintf(format, args...)})
}

// Infof logs an informational message for function.
func (l *Log) Infof(function, format string, args ...any) {
	l.add(Info, function, format, args)
}

// Warnf logs a warning for function.
func (l *Log) Warnf(function, format string, args ...any) {
	l.add(Warning, function, format, args)
}

// Fail logs a pipeline error for function, recording its Kind, per spec.md
// §7: "no errors are thrown across the pass boundary; every pass returns
// normally with a changed/unchanged flag" -- a failed stage reports itself
// here instead of propagating a Go error up through the driver.
func (l *Log) Fail(function string, err *pdderr.Error) {
	l.Entries = append(l.Entries, Entry{
		Severity: Error,
		Function: function,
		Message:  err.Message,
		Kind:     err.Kind,
		hasKind:  true,
	})
}

// HasErrors reports whether any entry reached Error severity.
func (l *Log) HasErrors() bool {
	for _, e := range l.Entries {
		if e.Severity == Error {
			return true
		}
	}
	return false
}

// Theme selects how Print colors each severity. ThemeNone disables color
// entirely -- useful for piping output to a file or a non-terminal.
type Theme int

const (
	ThemeNone Theme = iota
	ThemeDark
	ThemeLight
)

// Print writes every entry to w, one per line, colored per theme.
func (l *Log) Print(w *strings.Builder, theme Theme) {
	paint := colorFor(theme)
	for _, e := range l.Entries {
		w.WriteString(paint(e.Severity, e.String()))
		w.WriteString("\n")
	}
}

func colorFor(theme Theme) func(Severity, string) string {
	if theme == ThemeNone {
		return func(_ Severity, s string) string { return s }
	}
	warn := color.New(color.FgYellow)
	fail := color.New(color.FgRed, color.Bold)
	info := color.New(color.FgCyan)
	if theme == ThemeLight {
		info = color.New(color.FgBlue)
	}
	warn.EnableColor()
	fail.EnableColor()
	info.EnableColor()
	return func(sev Severity, s string) string {
		switch sev {
		case Warning:
			return warn.Sprint(s)
		case Error:
			return fail.Sprint(s)
		default:
			return info.Sprint(s)
		}
	}
}
