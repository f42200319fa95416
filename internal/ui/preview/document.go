// Package preview is a terminal host for the pop-frame engine. It shows a
// footnoted text document; resting the pointer on a reference pops up the
// note in a floating frame, and references inside notes nest further.
package preview

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"regexp"
	"slices"
	"strings"
)

var (
	refPattern = regexp.MustCompile(`\[\^([A-Za-z0-9_-]+)\]`)
	defPattern = regexp.MustCompile(`^\[\^([A-Za-z0-9_-]+)\]:\s*(.*)$`)
)

// ErrUndefinedNote is returned when a reference names no note.
var ErrUndefinedNote = errors.New("reference to undefined note")

// Document is a text with footnotes. References are written [^id]. A note
// is defined on its own line as "[^id]: text"; indented lines continue it.
// Notes may reference other notes. A leading "# " line is the title.
type Document struct {
	Title string
	Body  string
	Notes map[string]string
}

// LoadDocument reads and parses the document at path.
func LoadDocument(path string) (*Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}
	return ParseDocument(string(src))
}

// ParseDocument parses src. Every reference must have a note.
func ParseDocument(src string) (*Document, error) {
	doc := &Document{Notes: make(map[string]string)}

	var body []string
	current := ""
	for _, line := range strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n") {
		if m := defPattern.FindStringSubmatch(line); m != nil {
			if _, dup := doc.Notes[m[1]]; dup {
				return nil, fmt.Errorf("note [^%s] is defined twice", m[1])
			}
			doc.Notes[m[1]] = strings.TrimSpace(m[2])
			current = m[1]
			continue
		}
		if current != "" && (strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")) {
			doc.Notes[current] = strings.TrimSpace(doc.Notes[current] + " " + strings.TrimSpace(line))
			continue
		}
		current = ""

		if doc.Title == "" && strings.TrimSpace(strings.Join(body, "")) == "" && strings.HasPrefix(line, "# ") {
			doc.Title = strings.TrimSpace(line[2:])
			continue
		}
		body = append(body, line)
	}
	doc.Body = strings.TrimSpace(strings.Join(body, "\n"))

	var errs []error
	check := func(where, text string) {
		for _, m := range refPattern.FindAllStringSubmatch(text, -1) {
			if _, ok := doc.Notes[m[1]]; !ok {
				errs = append(errs, fmt.Errorf("%w: %s references [^%s]", ErrUndefinedNote, where, m[1]))
			}
		}
	}
	check("body", doc.Body)
	for _, id := range slices.Sorted(maps.Keys(doc.Notes)) {
		check("note "+id, doc.Notes[id])
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return doc, nil
}
