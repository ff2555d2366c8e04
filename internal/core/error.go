package core

import "errors"

var (
	ErrNoGameKey          = errors.New("game key 0 is reserved")
	ErrGameNotFound       = errors.New("game not found")
	ErrGameOver           = errors.New("game is over")
	ErrInvalidPGN         = errors.New("invalid PGN")
	ErrEmptyPGN           = errors.New("empty PGN")
	ErrPromotionPending   = errors.New("pawn promotion awaiting piece choice")
	ErrNoPromotionPending = errors.New("no pawn promotion pending")
	ErrPromotionCancelled = errors.New("pawn promotion cancelled")
	ErrInvalidPromotion   = errors.New("invalid promotion piece")
	ErrNotImplemented     = errors.New("not implemented")
	ErrInvariant          = errors.New("internal invariant violated")
)

// API error codes
const (
	CodeGameNotFound      = "GAME_NOT_FOUND"
	CodeGameOver          = "GAME_OVER"
	CodeInvalidPGN        = "INVALID_PGN"
	CodeInvalidKey        = "INVALID_KEY"
	CodeNothingPending    = "NOTHING_PENDING"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeInvalidContent    = "INVALID_CONTENT_TYPE"
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInternalError     = "INTERNAL_ERROR"
	CodeNotImplemented    = "NOT_IMPLEMENTED"
)
