package errors

import "errors"

var (
	ErrUnknownPieceType  = errors.New("unknown piece type letter")
	ErrUnknownPieceColor = errors.New("unknown piece owner letter")
	ErrMalformedNotation = errors.New("malformed shogi notation")
	ErrDiagramNotFound   = errors.New("diagram not found")
	ErrBlockNotSupported = errors.New("no renderer registered for block")
	ErrInternal          = errors.New("internal error")
)
