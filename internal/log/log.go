// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.
//
// The N42 library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The N42 library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the N42 library. If not, see <http://www.gnu.org/licenses/>.

// Package log is a thin structured-logging wrapper around logrus, scoped to
// a single compilation or host execution via a correlation ID and a set of
// key/value fields. It carries no file rotation or cleanup machinery: the
// compiler and CLI are short-lived processes, not a node with persistent
// log files.
package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Lvl mirrors the node logger's level enum so log call sites read the same
// way across the codebase.
type Lvl int

const (
	LvlError Lvl = iota
	LvlWarn
	LvlInfo
	LvlDebug
	LvlTrace
)

var base = newBase()

func newBase() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetLevel adjusts the package-wide log verbosity.
func SetLevel(lvl Lvl) {
	switch lvl {
	case LvlError:
		base.SetLevel(logrus.ErrorLevel)
	case LvlWarn:
		base.SetLevel(logrus.WarnLevel)
	case LvlInfo:
		base.SetLevel(logrus.InfoLevel)
	case LvlDebug:
		base.SetLevel(logrus.DebugLevel)
	case LvlTrace:
		base.SetLevel(logrus.TraceLevel)
	}
}

// Entry is a logging handle scoped to a set of fields, typically a
// compilation's correlation ID.
type Entry struct {
	e *logrus.Entry
}

// New returns a root entry with no fields set.
func New() *Entry {
	return &Entry{e: logrus.NewEntry(base)}
}

// With returns a derived entry carrying the given key/value field.
func (en *Entry) With(key string, value interface{}) *Entry {
	return &Entry{e: en.e.WithField(key, value)}
}

func (en *Entry) Debugf(format string, args ...interface{}) { en.e.Debugf(format, args...) }
func (en *Entry) Infof(format string, args ...interface{})  { en.e.Infof(format, args...) }
func (en *Entry) Warnf(format string, args ...interface{})  { en.e.Warnf(format, args...) }
func (en *Entry) Errorf(format string, args ...interface{}) { en.e.Errorf(format, args...) }
