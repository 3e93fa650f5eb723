package shogi

import (
	"fmt"
	"strings"

	errs "shogi_diagram/internal/errors"
)

const (
	// BoardSize is the side length of the shogi board.
	BoardSize = 9
	// NotationLines is the fixed number of lines in a notation block:
	// one hand line, nine board rows, one hand line.
	NotationLines = 11
)

// NotationLayout pins which line of the block holds what, so the contract is
// explicit instead of being spread over the splitting code.
type NotationLayout struct {
	GoteHandLine   int
	SenteHandLine  int
	BoardFirstLine int
	BoardLastLine  int
}

// Layout is the fixed block layout: gote's hand first, nine board rows from
// the top rank down, sente's hand last.
var Layout = NotationLayout{
	GoteHandLine:   0,
	SenteHandLine:  10,
	BoardFirstLine: 1,
	BoardLastLine:  9,
}

// Hand is the ordered list of captured piece kinds a player holds. Owner and
// promotion are not tracked: a captured piece always displays as an
// unpromoted piece.
type Hand []PieceType

// Position is the parse result: a 9x9 board plus both hands. Row 0 is the
// top rank, column 0 is file 9 (display order). Immutable once returned.
type Position struct {
	Board     [BoardSize][BoardSize]*Piece
	SenteHand Hand
	GoteHand  Hand
}

// ParsePosition decodes a full notation block. Any malformed owner or type
// letter, a wrong line count, or a board row that does not split into nine
// cells aborts the whole parse; there is no partial result. Error messages
// carry the offending token and its 1-based line number.
func ParsePosition(source string) (*Position, error) {
	lines := splitLines(source)
	if len(lines) < NotationLines {
		return nil, fmt.Errorf("%w: expected %d lines, got %d", errs.ErrMalformedNotation, NotationLines, len(lines))
	}
	// Hosts often append a trailing newline to the block body; anything past
	// the fixed layout must be blank.
	for i := NotationLines; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "" {
			return nil, fmt.Errorf("%w: unexpected content on line %d", errs.ErrMalformedNotation, i+1)
		}
	}

	pos := &Position{}
	var err error
	if pos.GoteHand, err = parseHand(lines[Layout.GoteHandLine], Layout.GoteHandLine); err != nil {
		return nil, err
	}
	if pos.SenteHand, err = parseHand(lines[Layout.SenteHandLine], Layout.SenteHandLine); err != nil {
		return nil, err
	}
	for line := Layout.BoardFirstLine; line <= Layout.BoardLastLine; line++ {
		if err = parseBoardRow(pos, lines[line], line); err != nil {
			return nil, err
		}
	}
	return pos, nil
}

func splitLines(source string) []string {
	lines := strings.Split(source, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return lines
}

func parseHand(line string, lineIdx int) (Hand, error) {
	trimmed := strings.TrimSpace(line)
	hand := make(Hand, 0, len(trimmed))
	for _, ch := range trimmed {
		kind, err := ParsePieceType(ch)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineIdx+1, err)
		}
		hand = append(hand, kind)
	}
	return hand, nil
}

func parseBoardRow(pos *Position, line string, lineIdx int) error {
	cells := strings.Split(line, "|")
	if len(cells) != BoardSize {
		return fmt.Errorf("%w: line %d splits into %d cells, want %d", errs.ErrMalformedNotation, lineIdx+1, len(cells), BoardSize)
	}
	row := lineIdx - Layout.BoardFirstLine
	for col, cell := range cells {
		trimmed := strings.TrimSpace(cell)
		if len(trimmed) < 2 {
			continue // empty square
		}
		piece, occupied, err := ParsePiece(trimmed[:2])
		if err != nil {
			return fmt.Errorf("line %d: %w", lineIdx+1, err)
		}
		if occupied {
			p := piece
			pos.Board[row][col] = &p
		}
	}
	return nil
}
