// Package pgntext holds stateless transforms over raw PGN text
package pgntext

import (
	"regexp"
	"strings"
)

var (
	headerEnd  = regexp.MustCompile(`\]\s*`)
	moveNumber = regexp.MustCompile(`( )(\d+\.)`)
	headerLine = regexp.MustCompile(`^\s*\[(\w+)\s+"((?:[^"\\]|\\.)*)"\s*\]\s*$`)
)

// LineBreakify breaks a dump after every header and before every move number
func LineBreakify(pgn string) string {
	out := headerEnd.ReplaceAllString(pgn, "]\n")
	return moveNumber.ReplaceAllString(out, "${1}\n${2}")
}

// Split separates header lines from move lines. Blank lines are dropped and
// order is kept within each group.
func Split(pgn string) (metadata, moves []string) {
	metadata, moves = []string{}, []string{}
	for _, line := range strings.Split(pgn, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Contains(line, "[") {
			metadata = append(metadata, line)
		} else {
			moves = append(moves, line)
		}
	}
	return metadata, moves
}

// Header reads a tag value straight from the text, "" if absent
func Header(pgn, key string) string {
	for _, line := range strings.Split(headerEnd.ReplaceAllString(pgn, "]\n"), "\n") {
		m := headerLine.FindStringSubmatch(line)
		if m != nil && m[1] == key {
			return strings.ReplaceAll(m[2], `\"`, `"`)
		}
	}
	return ""
}
