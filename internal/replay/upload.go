package replay

import (
	"strings"
	"time"

	"chesslog/internal/core"
	"chesslog/internal/pgntext"
	"chesslog/internal/rules"
)

// Writer is the part of the history store an upload needs
type Writer interface {
	Write(key core.GameKey, dump string) (int, error)
}

// ValidateRawPGN checks an uploaded dump by parsing its line-broken form.
// Blank input is always invalid.
func ValidateRawPGN(factory rules.Factory, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return core.ErrEmptyPGN
	}
	return rules.Validate(factory, pgntext.LineBreakify(raw))
}

// SubmitRawPGN validates raw and stores it, line-broken, under a new key
func SubmitRawPGN(w Writer, factory rules.Factory, raw string, now time.Time) (core.GameKey, error) {
	if err := ValidateRawPGN(factory, raw); err != nil {
		return core.NoGameKey, err
	}
	key := core.NewGameKey(now)
	if _, err := w.Write(key, pgntext.LineBreakify(raw)); err != nil {
		return core.NoGameKey, err
	}
	return key, nil
}
