package diagram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shogi_diagram/internal/domain/shogi"
)

func position(t *testing.T, goteHand string, senteHand string, pieces map[[2]int]shogi.Piece) *shogi.Position {
	t.Helper()

	rows := make([]string, shogi.BoardSize)
	for i := range rows {
		cells := make([]string, shogi.BoardSize)
		for j := range cells {
			if piece, ok := pieces[[2]int{i, j}]; ok {
				cells[j] = token(piece)
			} else {
				cells[j] = "  "
			}
		}
		rows[i] = strings.Join(cells, "|")
	}

	lines := append([]string{goteHand}, rows...)
	lines = append(lines, senteHand)
	pos, err := shogi.ParsePosition(strings.Join(lines, "\n"))
	require.NoError(t, err)
	return pos
}

func token(p shogi.Piece) string {
	letters := map[shogi.PieceType]byte{
		shogi.Pawn: 'p', shogi.Lance: 'l', shogi.Knight: 'n', shogi.Silver: 's',
		shogi.Gold: 'g', shogi.Bishop: 'b', shogi.Rook: 'r', shogi.King: 'k',
	}
	owner := byte('s')
	if p.Owner == shogi.Gote {
		owner = 'g'
	}
	letter := letters[p.Type]
	if p.Promoted {
		letter -= 'a' - 'A'
	}
	return string([]byte{owner, letter})
}

func TestFromPositionHeader(t *testing.T) {
	d := FromPosition(position(t, "", "", nil))

	assert.Equal(t, []string{"9", "8", "7", "6", "5", "4", "3", "2", "1", ""}, d.Header)
}

func TestFromPositionRowShape(t *testing.T) {
	d := FromPosition(position(t, "", "", nil))

	require.Len(t, d.Rows, shogi.BoardSize)
	for i, row := range d.Rows {
		assert.Len(t, row.Cells, shogi.BoardSize)
		assert.Equal(t, string(rune('1'+i)), row.Rank)
		for _, cell := range row.Cells {
			assert.True(t, cell.Bordered)
			assert.True(t, cell.Empty)
			assert.Empty(t, cell.Glyph)
		}
	}
}

func TestFromPositionCellStyling(t *testing.T) {
	d := FromPosition(position(t, "", "", map[[2]int]shogi.Piece{
		{4, 4}: {Type: shogi.Pawn, Promoted: true, Owner: shogi.Sente},
		{0, 0}: {Type: shogi.King, Promoted: true, Owner: shogi.Gote},
		{8, 8}: {Type: shogi.Rook, Owner: shogi.Sente},
	}))

	promotedPawn := d.Rows[4].Cells[4]
	assert.Equal(t, "と", promotedPawn.Glyph)
	assert.True(t, promotedPawn.Accent)
	assert.False(t, promotedPawn.Rotated)
	assert.False(t, promotedPawn.Empty)

	// A promoted king is never accented; rotation follows the owner.
	goteKing := d.Rows[0].Cells[0]
	assert.Equal(t, "玉", goteKing.Glyph)
	assert.False(t, goteKing.Accent)
	assert.True(t, goteKing.Rotated)

	senteRook := d.Rows[8].Cells[8]
	assert.Equal(t, "飛", senteRook.Glyph)
	assert.False(t, senteRook.Accent)
	assert.False(t, senteRook.Rotated)
}

func TestHandCaptions(t *testing.T) {
	d := FromPosition(position(t, "pb", "", nil))

	assert.Equal(t, GoteHandLabel, d.GoteHand.Label)
	assert.Equal(t, "歩 角", d.GoteHand.Text)

	assert.Equal(t, SenteHandLabel, d.SenteHand.Label)
	assert.Equal(t, "-", d.SenteHand.Text)
}

func TestHandCaptionsAreOwnerAgnostic(t *testing.T) {
	// Both hands list captured pieces with the same plain glyphs.
	d := FromPosition(position(t, "r", "r", nil))

	assert.Equal(t, "飛", d.GoteHand.Text)
	assert.Equal(t, d.GoteHand.Text, d.SenteHand.Text)
}

func TestRenderText(t *testing.T) {
	d := FromPosition(position(t, "p", "", map[[2]int]shogi.Piece{
		{0, 0}: {Type: shogi.King, Owner: shogi.Gote},
		{8, 4}: {Type: shogi.King, Owner: shogi.Sente},
	}))

	text := RenderText(d)
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	require.Len(t, lines, 14)

	assert.Contains(t, lines[0], "９")
	assert.Contains(t, lines[0], "１")
	assert.Equal(t, textFrame, lines[1])
	assert.Equal(t, textFrame, lines[11])

	// Gote pieces carry the v prefix, sente pieces a plain space.
	assert.Contains(t, lines[2], "v王")
	assert.True(t, strings.HasSuffix(lines[2], "|1"))
	assert.Contains(t, lines[10], " 王")
	assert.True(t, strings.HasSuffix(lines[10], "|9"))

	assert.Contains(t, text, "・")
	assert.Equal(t, GoteHandLabel+": 歩", lines[12])
	assert.Equal(t, SenteHandLabel+": -", lines[13])
}
