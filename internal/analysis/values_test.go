package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chesslog/internal/core"
	"chesslog/internal/rules"
)

func TestMaterialAtStart(t *testing.T) {
	p := Material(rules.NewGame())
	assert.Equal(t, Point{White: 39, Black: 39}, p)
}

func TestAnalyzeCaptures(t *testing.T) {
	// 2. exd5 wins a pawn, 2... Qxd5 wins it back
	s, err := AnalyzePGN(rules.DefaultFactory, "1. e4 d5 2. exd5 Qxd5 3. Nc3 *")
	require.NoError(t, err)

	assert.Equal(t, []Point{
		{White: 39, Black: 39},
		{White: 38, Black: 38},
	}, s.Points)
	assert.InDelta(t, 50.0, s.PercentStep, 1e-9)
}

func TestAnalyzeChronologicalOrder(t *testing.T) {
	s, err := AnalyzePGN(rules.DefaultFactory, "1. e4 d5 2. exd5 Qxd5 3. Nc3 Qxa2 4. Rxa2 e5 *")
	require.NoError(t, err)

	assert.Equal(t, []Point{
		{White: 39, Black: 39},
		{White: 38, Black: 38},
		{White: 37, Black: 38},
		{White: 37, Black: 29},
	}, s.Points)
	assert.InDelta(t, 25.0, s.PercentStep, 1e-9)
}

func TestAnalyzeUnevenExchange(t *testing.T) {
	s, err := AnalyzePGN(rules.DefaultFactory, "1. e4 d5 2. exd5 Nf6 *")
	require.NoError(t, err)
	require.Len(t, s.Points, 2)
	assert.Equal(t, Point{White: 39, Black: 38}, s.Points[1])
}

func TestAnalyzeEmpty(t *testing.T) {
	s := Analyze(rules.NewGame())
	assert.Empty(t, s.Points)
	assert.Zero(t, s.PercentStep)

	one := rules.NewGame()
	require.True(t, one.Move(core.MustSquare("e2"), core.MustSquare("e4"), core.NoPieceType))
	s = Analyze(one)
	assert.Empty(t, s.Points)
}

func TestAnalyzeConsumesEngine(t *testing.T) {
	e := rules.NewGame()
	require.NoError(t, e.LoadPGN("1. e4 e5 2. Nf3 Nc6 *"))
	Analyze(e)
	assert.Empty(t, e.History())
}

func TestAnalyzeBadPGN(t *testing.T) {
	_, err := AnalyzePGN(rules.DefaultFactory, "")
	assert.ErrorIs(t, err, core.ErrEmptyPGN)
}
