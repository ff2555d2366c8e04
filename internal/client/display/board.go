package display

import (
	"fmt"
	"io"
	"strings"

	"chesslog/internal/core"
	"chesslog/internal/rules"
)

type Theme string

const (
	ThemeOff   Theme = "off"
	ThemeBrown Theme = "brown"
	ThemeGreen Theme = "green"
	ThemeGray  Theme = "gray"
)

type themeColors struct {
	lightBg  string
	darkBg   string
	selectBg string
	white    string
	black    string
	reset    string
}

var themes = map[Theme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg:  "\033[48;5;230m", // Beige
		darkBg:   "\033[48;5;94m",  // Brown
		selectBg: "\033[48;5;178m",
		white:    "\033[97m",
		black:    "\033[30m",
		reset:    Reset,
	},
	ThemeGreen: {
		lightBg:  "\033[48;5;157m",
		darkBg:   "\033[48;5;22m",
		selectBg: "\033[48;5;178m",
		white:    "\033[97m",
		black:    "\033[30m",
		reset:    Reset,
	},
	ThemeGray: {
		lightBg:  "\033[48;5;251m",
		darkBg:   "\033[48;5;240m",
		selectBg: "\033[48;5;178m",
		white:    "\033[97m",
		black:    "\033[30m",
		reset:    Reset,
	},
}

// ParseTheme validates a theme name
func ParseTheme(name string) (Theme, error) {
	t := Theme(strings.ToLower(name))
	if _, ok := themes[t]; !ok {
		return ThemeOff, fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", name)
	}
	return t, nil
}

// RenderBoard draws the position from White's side. The selected square,
// if any, is marked.
func RenderBoard(w io.Writer, e rules.Engine, theme Theme, selected *core.Square) {
	colors := themes[theme]
	var sb strings.Builder

	sb.WriteString("\n  a b c d e f g h\n")
	for rank := 8; rank >= 1; rank-- {
		sb.WriteString(fmt.Sprintf("%d ", rank))
		for file := byte('a'); file <= 'h'; file++ {
			sq := core.Square{File: file, Rank: rank}
			piece, occupied := e.Get(sq)
			isSelected := selected != nil && *selected == sq

			if theme == ThemeOff {
				switch {
				case occupied && isSelected:
					sb.WriteString(piece.Symbol() + "*")
				case occupied:
					sb.WriteString(piece.Symbol() + " ")
				default:
					sb.WriteString(". ")
				}
				continue
			}

			bg := colors.darkBg
			if sq.IsLight() {
				bg = colors.lightBg
			}
			if isSelected {
				bg = colors.selectBg
			}
			if !occupied {
				sb.WriteString(bg + "  " + colors.reset)
				continue
			}
			fg := colors.black
			if piece.Color == core.ColorWhite {
				fg = colors.white
			}
			sb.WriteString(bg + fg + piece.Symbol() + " " + colors.reset)
		}
		sb.WriteString(fmt.Sprintf(" %d\n", rank))
	}
	sb.WriteString("  a b c d e f g h\n")

	fmt.Fprint(w, sb.String())
}

// ColorForTurn returns colored turn indicator
func ColorForTurn(c core.Color) string {
	if c == core.ColorWhite {
		return Blue + "White" + Reset
	}
	return Red + "Black" + Reset
}

// MoveList pairs SAN moves into numbered lines
func MoveList(history []string) []string {
	var lines []string
	for i := 0; i < len(history); i += 2 {
		line := fmt.Sprintf("%d. %s", i/2+1, history[i])
		if i+1 < len(history) {
			line += " | " + history[i+1]
		} else {
			line += " | ..."
		}
		lines = append(lines, line)
	}
	return lines
}
