package pgntext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const oneLine = `[Event "casual"] [White "Alice"] [Black "Bob"] 1. e4 e5 2. Nf3 Nc6 3. Bb5 *`

func TestLineBreakify(t *testing.T) {
	want := "[Event \"casual\"]\n[White \"Alice\"]\n[Black \"Bob\"]\n1. e4 e5 \n2. Nf3 Nc6 \n3. Bb5 *"
	assert.Equal(t, want, LineBreakify(oneLine))
	assert.Equal(t, want, LineBreakify(LineBreakify(oneLine)))
}

func TestSplit(t *testing.T) {
	metadata, moves := Split(LineBreakify(oneLine))
	assert.Equal(t, []string{`[Event "casual"]`, `[White "Alice"]`, `[Black "Bob"]`}, metadata)
	assert.Equal(t, []string{"1. e4 e5", "2. Nf3 Nc6", "3. Bb5 *"}, moves)

	again, _ := Split(LineBreakify(oneLine))
	assert.Equal(t, metadata, again)

	metadata, moves = Split("")
	assert.Empty(t, metadata)
	assert.Empty(t, moves)
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "Alice", Header(oneLine, "White"))
	assert.Equal(t, "Bob", Header(LineBreakify(oneLine), "Black"))
	assert.Equal(t, "", Header(oneLine, "Date"))
	assert.Equal(t, `a "b"`, Header(`[White "a \"b\""]`, "White"))
}
