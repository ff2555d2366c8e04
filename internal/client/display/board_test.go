package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chesslog/internal/core"
	"chesslog/internal/rules"
)

func TestRenderBoardPlain(t *testing.T) {
	var buf bytes.Buffer
	sel := core.MustSquare("e2")
	RenderBoard(&buf, rules.NewGame(), ThemeOff, &sel)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "8 r n b q k b n r  8", lines[1])
	assert.Equal(t, "2 P P P P P*P P P  2", lines[7])
	assert.Equal(t, "4 . . . . . . . .  4", lines[5])
}

func TestParseTheme(t *testing.T) {
	theme, err := ParseTheme("Green")
	require.NoError(t, err)
	assert.Equal(t, ThemeGreen, theme)
	_, err = ParseTheme("neon")
	assert.Error(t, err)
}

func TestMoveList(t *testing.T) {
	assert.Equal(t, []string{"1. e4 | e5", "2. Nf3 | ..."}, MoveList([]string{"e4", "e5", "Nf3"}))
	assert.Empty(t, MoveList(nil))
}
