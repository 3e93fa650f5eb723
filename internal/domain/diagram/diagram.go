package diagram

import (
	"strconv"
	"strings"
	"time"

	"shogi_diagram/internal/domain/shogi"
)

const (
	GoteHandLabel  = "Gote pieces in hand"
	SenteHandLabel = "Sente pieces in hand"

	emptyHandText = "-"
)

// Cell is one renderable square. Board cells are bordered, label cells are
// not. Accent marks a promoted non-king piece, Rotated a gote-owned one.
type Cell struct {
	Glyph    string `json:"glyph,omitempty"`
	Bordered bool   `json:"bordered"`
	Accent   bool   `json:"accent"`
	Rotated  bool   `json:"rotated"`
	Empty    bool   `json:"empty"`
}

type Row struct {
	Cells []Cell `json:"cells"`
	Rank  string `json:"rank"`
}

type HandCaption struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Diagram is the renderable projection of a parsed position: a column header
// (files 9 to 1 plus a blank corner over the rank labels), nine body rows,
// and the two pieces-in-hand captions.
type Diagram struct {
	Header    []string    `json:"header"`
	Rows      []Row       `json:"rows"`
	GoteHand  HandCaption `json:"gote_hand"`
	SenteHand HandCaption `json:"sente_hand"`
}

// Record is a stored diagram document.
type Record struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	Source    string    `json:"source" bson:"source"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type RecordPage struct {
	PageNum    int      `json:"page_num"`
	TotalPages int      `json:"total_pages"`
	Diagrams   []Record `json:"diagrams"`
}

// FromPosition builds the diagram for a position. Lossless and total: every
// parse result has a diagram, there is no error path.
func FromPosition(pos *shogi.Position) *Diagram {
	d := &Diagram{
		Header:    headerCells(),
		Rows:      make([]Row, 0, shogi.BoardSize),
		GoteHand:  handCaption(GoteHandLabel, pos.GoteHand),
		SenteHand: handCaption(SenteHandLabel, pos.SenteHand),
	}
	for row := 0; row < shogi.BoardSize; row++ {
		cells := make([]Cell, shogi.BoardSize)
		for col := 0; col < shogi.BoardSize; col++ {
			cells[col] = boardCell(pos.Board[row][col])
		}
		d.Rows = append(d.Rows, Row{Cells: cells, Rank: strconv.Itoa(row + 1)})
	}
	return d
}

func headerCells() []string {
	header := make([]string, 0, shogi.BoardSize+1)
	for file := shogi.BoardSize; file >= 1; file-- {
		header = append(header, strconv.Itoa(file))
	}
	return append(header, "") // blank corner over the rank-label column
}

func boardCell(p *shogi.Piece) Cell {
	if p == nil {
		return Cell{Bordered: true, Empty: true}
	}
	return Cell{
		Glyph:    shogi.Symbol(*p),
		Bordered: true,
		Accent:   p.Promoted && p.Type != shogi.King,
		Rotated:  p.Owner == shogi.Gote,
	}
}

// handCaption lists hand pieces with the plain sente-side glyph regardless
// of whose hand it is: captured pieces are owner-agnostic in traditional
// diagrams.
func handCaption(label string, hand shogi.Hand) HandCaption {
	if len(hand) == 0 {
		return HandCaption{Label: label, Text: emptyHandText}
	}
	glyphs := make([]string, 0, len(hand))
	for _, kind := range hand {
		glyphs = append(glyphs, shogi.Symbol(shogi.Piece{Type: kind, Owner: shogi.Sente}))
	}
	return HandCaption{Label: label, Text: strings.Join(glyphs, " ")}
}
