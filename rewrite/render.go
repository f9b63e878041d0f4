package rewrite

import (
	"fmt"
	"io"
	"math/rand/v2"
	"regexp"
	"strings"
)

// glyphs maps small counts to single characters: blank for zero, digits
// for 1-9, then letters. Counts past the alphabet render as '#'.
const glyphs = " 123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func glyph(i int) byte {
	if i >= 0 && i < len(glyphs) {
		return glyphs[i]
	}
	return '#'
}

var runPattern = regexp.MustCompile(`0+|1+`)

// Filters54 is an XOR mask cycle that cancels the dominant background
// texture of rule 54, leaving its gliders visible.
var Filters54 = []string{"1110", "0001", "1011", "0100"}

// RenderRuns writes one line per tape, rendering each maximal run of
// equal cells as a glyph for its length. The first tape is echoed
// verbatim above the listing.
func RenderRuns(w io.Writer, tapes []string) error {
	for y, tape := range tapes {
		if y == 0 {
			if _, err := fmt.Fprintf(w, "Tape 0: %s\n", tape); err != nil {
				return err
			}
		}
		var sb strings.Builder
		sb.WriteByte('[')
		for _, run := range runPattern.FindAllString(tape, -1) {
			sb.WriteByte(glyph(len(run)))
		}
		sb.WriteByte(']')
		if _, err := fmt.Fprintln(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

// Renderer writes tape evolutions as glyph rows. Cells are optionally
// XORed against a cycle of row filters, then grouped into chunks of
// Size cells whose popcount picks the glyph.
type Renderer struct {
	Size    int      // cells per glyph, 1 when zero
	Filters []string // binary mask per row, cycled; empty disables filtering
	FilterX int      // horizontal mask phase
	FilterY int      // vertical mask phase
}

// RenderTapes writes one glyph row per tape. The first tape is echoed
// verbatim above the listing.
func (r *Renderer) RenderTapes(w io.Writer, tapes []string) error {
	size := r.Size
	if size < 1 {
		size = 1
	}
	filters := make([][]int, 0, len(r.Filters))
	for _, f := range r.Filters {
		row := make([]int, len(f))
		for i := 0; i < len(f); i++ {
			if f[i] == '1' {
				row[i] = 1
			}
		}
		filters = append(filters, row)
	}

	for y, tape := range tapes {
		if y == 0 {
			if _, err := fmt.Fprintf(w, "Tape 0: %s\n", tape); err != nil {
				return err
			}
		}
		bits := make([]int, len(tape))
		for x := 0; x < len(tape); x++ {
			if tape[x] == '1' {
				bits[x] = 1
			}
		}
		if len(filters) > 0 {
			f := filters[(r.FilterY+y)%len(filters)]
			if len(f) > 0 {
				for x := range bits {
					bits[x] ^= f[(r.FilterX+x)%len(f)]
				}
			}
		}
		var sb strings.Builder
		sb.WriteByte('[')
		for start := 0; start < len(bits); start += size {
			end := start + size
			if end > len(bits) {
				end = len(bits)
			}
			sum := 0
			for _, b := range bits[start:end] {
				sum += b
			}
			sb.WriteByte(glyph(sum))
		}
		sb.WriteByte(']')
		if _, err := fmt.Fprintln(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

// RandomTape returns a tape of n cells where each cell is '1' with
// probability p.
func RandomTape(n int, p float64) string {
	out := make([]byte, n)
	for i := range out {
		if rand.Float64() < p {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out)
}
