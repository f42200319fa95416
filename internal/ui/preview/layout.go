package preview

import (
	"strings"
	"unicode/utf8"
)

// Span is a reference laid out on one line. Positions are in cells.
type Span struct {
	Note string
	// Index is the reference's position among all references in the text.
	Index int
	Line  int
	Col   int
	Width int
}

// Layout is text wrapped to a width.
type Layout struct {
	Lines []string
	Refs  []Span
}

// Width returns the longest line in cells.
func (l Layout) Width() int {
	w := 0
	for _, line := range l.Lines {
		w = max(w, cells(line))
	}
	return w
}

// RefAt returns the reference covering the cell at line, col.
func (l Layout) RefAt(line, col int) (Span, bool) {
	for _, s := range l.Refs {
		if s.Line == line && col >= s.Col && col < s.Col+s.Width {
			return s, true
		}
	}
	return Span{}, false
}

// cells counts display cells. Documents are treated as one cell per rune.
func cells(s string) int { return utf8.RuneCountInString(s) }

// Wrap word-wraps text to width cells. Blank lines separate paragraphs.
// A reference [^id] is shown as [id] and never breaks across lines. Words
// wider than width overflow.
func Wrap(text string, width int) Layout {
	width = max(width, 1)

	var l Layout
	for i, para := range paragraphs(text) {
		if i > 0 {
			l.Lines = append(l.Lines, "")
		}

		var line strings.Builder
		col := 0
		for _, word := range strings.Fields(para) {
			display, refs := renderWord(word)
			w := cells(display)
			if col > 0 && col+1+w > width {
				l.Lines = append(l.Lines, line.String())
				line.Reset()
				col = 0
			}
			if col > 0 {
				line.WriteByte(' ')
				col++
			}
			for _, r := range refs {
				l.Refs = append(l.Refs, Span{
					Note:  r.note,
					Index: len(l.Refs),
					Line:  len(l.Lines),
					Col:   col + r.offset,
					Width: r.width,
				})
			}
			line.WriteString(display)
			col += w
		}
		if col > 0 {
			l.Lines = append(l.Lines, line.String())
		}
	}
	return l
}

func paragraphs(text string) []string {
	var out []string
	var cur []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(cur) > 0 {
				out = append(out, strings.Join(cur, " "))
				cur = nil
			}
			continue
		}
		cur = append(cur, strings.TrimSpace(line))
	}
	if len(cur) > 0 {
		out = append(out, strings.Join(cur, " "))
	}
	return out
}

type wordRef struct {
	note   string
	offset int
	width  int
}

// renderWord replaces [^id] with [id] and reports where each landed.
func renderWord(word string) (string, []wordRef) {
	matches := refPattern.FindAllStringSubmatchIndex(word, -1)
	if matches == nil {
		return word, nil
	}

	var b strings.Builder
	var refs []wordRef
	last := 0
	for _, m := range matches {
		b.WriteString(word[last:m[0]])
		note := word[m[2]:m[3]]
		shown := "[" + note + "]"
		refs = append(refs, wordRef{note: note, offset: cells(b.String()), width: cells(shown)})
		b.WriteString(shown)
		last = m[1]
	}
	b.WriteString(word[last:])
	return b.String(), refs
}
