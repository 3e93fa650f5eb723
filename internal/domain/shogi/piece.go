package shogi

import (
	"fmt"
	"unicode"

	errs "shogi_diagram/internal/errors"
)

// PieceType is one of the eight shogi piece kinds.
type PieceType int

const (
	Pawn PieceType = iota
	Lance
	Knight
	Silver
	Gold
	Bishop
	Rook
	King
	pieceTypeCount
)

var typeNames = [pieceTypeCount]string{
	Pawn:   "pawn",
	Lance:  "lance",
	Knight: "knight",
	Silver: "silver",
	Gold:   "gold",
	Bishop: "bishop",
	Rook:   "rook",
	King:   "king",
}

func (t PieceType) String() string {
	if t < 0 || t >= pieceTypeCount {
		return fmt.Sprintf("PieceType(%d)", int(t))
	}
	return typeNames[t]
}

// Player identifies the side a piece belongs to.
type Player int

const (
	// Sente is the first-moving player, pieces pointing up.
	Sente Player = iota
	// Gote is the second-moving player, displayed rotated.
	Gote
)

func (p Player) String() string {
	if p == Gote {
		return "gote"
	}
	return "sente"
}

// Piece is one occupied board cell. Immutable after parsing.
type Piece struct {
	Type     PieceType
	Promoted bool
	Owner    Player
}

var typeLetters = map[rune]PieceType{
	'p': Pawn,
	'b': Bishop,
	'r': Rook,
	'l': Lance,
	'n': Knight,
	's': Silver,
	'g': Gold,
	'k': King,
}

// ParsePieceType decodes a single notation letter, either case.
func ParsePieceType(ch rune) (PieceType, error) {
	kind, ok := typeLetters[unicode.ToLower(ch)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", errs.ErrUnknownPieceType, string(ch))
	}
	return kind, nil
}

// ParsePiece decodes a two-character board cell token. The first character
// picks the owner (s or g) or, when it is a space, marks an empty cell; the
// second character is the type letter. An uppercase type letter means the
// piece is promoted. ok is false for the empty-cell marker.
func ParsePiece(token string) (piece Piece, ok bool, err error) {
	runes := []rune(token)
	if len(runes) < 2 {
		return Piece{}, false, fmt.Errorf("%w: cell token %q shorter than two characters", errs.ErrMalformedNotation, token)
	}

	var owner Player
	switch runes[0] {
	case 's':
		owner = Sente
	case 'g':
		owner = Gote
	case ' ':
		return Piece{}, false, nil
	default:
		return Piece{}, false, fmt.Errorf("%w: %q", errs.ErrUnknownPieceColor, string(runes[0]))
	}

	kind, err := ParsePieceType(runes[1])
	if err != nil {
		return Piece{}, false, err
	}

	return Piece{
		Type:     kind,
		Promoted: unicode.ToUpper(runes[1]) == runes[1],
		Owner:    owner,
	}, true, nil
}

// symbolTable holds the glyph for every (type, promoted) pair. Kings do not
// promote in play, but the notation admits the token, so the promoted column
// carries 玉, the kanji paired with the unpromoted 王. Gold has no promoted
// form and keeps 金 in both columns.
var symbolTable = [pieceTypeCount][2]string{
	Pawn:   {"歩", "と"},
	Lance:  {"香", "杏"},
	Knight: {"桂", "圭"},
	Silver: {"銀", "全"},
	Gold:   {"金", "金"},
	Bishop: {"角", "馬"},
	Rook:   {"飛", "竜"},
	King:   {"王", "玉"},
}

// Symbol returns the display glyph for a piece. Total over all sixteen
// type/promotion combinations, no error path.
func Symbol(p Piece) string {
	if p.Promoted {
		return symbolTable[p.Type][1]
	}
	return symbolTable[p.Type][0]
}
