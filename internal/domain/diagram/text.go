package diagram

import (
	"strings"

	"golang.org/x/text/width"
)

const textFrame = "+---------------------------+"

// RenderText draws the diagram as a monospace kanji board for terminal
// previews and logs. File labels are widened to full-width digits so the
// header lines up with the full-width glyphs below; gote pieces carry a v
// prefix instead of being rotated.
func RenderText(d *Diagram) string {
	var b strings.Builder

	b.WriteString(" ")
	for _, label := range d.Header {
		if label == "" {
			continue
		}
		b.WriteString(" " + width.Widen.String(label))
	}
	b.WriteString("\n" + textFrame + "\n")

	for _, row := range d.Rows {
		b.WriteString("|")
		for _, cell := range row.Cells {
			switch {
			case cell.Empty:
				b.WriteString(" ・")
			case cell.Rotated:
				b.WriteString("v" + cell.Glyph)
			default:
				b.WriteString(" " + cell.Glyph)
			}
		}
		b.WriteString("|" + row.Rank + "\n")
	}
	b.WriteString(textFrame + "\n")

	b.WriteString(d.GoteHand.Label + ": " + d.GoteHand.Text + "\n")
	b.WriteString(d.SenteHand.Label + ": " + d.SenteHand.Text + "\n")
	return b.String()
}
