package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText word-wraps s to width terminal cells. Existing line breaks are
// kept and words wider than width are split.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	paragraphs := strings.Split(s, "\n")
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		out = append(out, wrapLine(p, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	var cur strings.Builder
	curWidth := 0
	for _, word := range words {
		for runewidth.StringWidth(word) > width {
			if curWidth > 0 {
				lines = append(lines, cur.String())
				cur.Reset()
				curWidth = 0
			}
			head, tail := splitAtWidth(word, width)
			lines = append(lines, head)
			word = tail
		}
		wordWidth := runewidth.StringWidth(word)
		if wordWidth == 0 {
			continue
		}
		if curWidth > 0 && curWidth+1+wordWidth > width {
			lines = append(lines, cur.String())
			cur.Reset()
			curWidth = 0
		}
		if curWidth > 0 {
			cur.WriteByte(' ')
			curWidth++
		}
		cur.WriteString(word)
		curWidth += wordWidth
	}
	if curWidth > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// splitAtWidth returns the longest prefix of word that fits in width cells
// and the remainder. At least one rune is always taken.
func splitAtWidth(word string, width int) (string, string) {
	w := 0
	for i, r := range word {
		rw := runewidth.RuneWidth(r)
		if w+rw > width && i > 0 {
			return word[:i], word[i:]
		}
		w += rw
	}
	return word, ""
}

func contentWidth(total int) int {
	if total <= 0 {
		return 72
	}
	w := int(float64(total) * 0.70)
	if w > 90 {
		w = 90
	}
	if w < 20 {
		w = minInt(total, 20)
	}
	if w < 1 {
		w = 1
	}
	return w
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
