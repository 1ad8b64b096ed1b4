// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package logging

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/coreos/go-systemd/v22/journal"
)

// journalHandler forwards records to systemd-journald in addition to the
// wrapped handler. Journal writes are best effort: a failed send never
// fails the log call.
type journalHandler struct {
	next  slog.Handler
	level slog.Level
	attrs []slog.Attr
}

func newJournalHandler(next slog.Handler, level slog.Level) *journalHandler {
	return &journalHandler{
		next:  next,
		level: level,
	}
}

func (h *journalHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *journalHandler) Handle(ctx context.Context, r slog.Record) error {
	vars := make(map[string]string, r.NumAttrs()+len(h.attrs))
	for _, a := range h.attrs {
		vars[journalVarName(a.Key)] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		vars[journalVarName(a.Key)] = a.Value.String()
		return true
	})

	// Ignore the send error; stderr still carries the record.
	_ = journal.Send(r.Message, journalPriority(r.Level), vars)

	return h.next.Handle(ctx, r)
}

func (h *journalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &journalHandler{
		next:  h.next.WithAttrs(attrs),
		level: h.level,
		attrs: merged,
	}
}

func (h *journalHandler) WithGroup(name string) slog.Handler {
	return &journalHandler{
		next:  h.next.WithGroup(name),
		level: h.level,
		attrs: h.attrs,
	}
}

// journalPriority maps slog levels to syslog priorities.
func journalPriority(level slog.Level) journal.Priority {
	switch {
	case level >= slog.LevelError:
		return journal.PriErr
	case level >= slog.LevelWarn:
		return journal.PriWarning
	case level >= slog.LevelInfo:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}

// journalVarName converts an attribute key to a journald field name.
// Journald requires names matching [A-Z_][A-Z0-9_]*.
func journalVarName(key string) string {
	var b strings.Builder
	for i, r := range strings.ToUpper(key) {
		switch {
		case unicode.IsUpper(r), r == '_':
			b.WriteRune(r)
		case unicode.IsDigit(r) && i > 0:
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
