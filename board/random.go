package board

import "math/rand"

// English letter frequencies, A through Z.
var letterFrequencies = [26]float64{
	0.08167, 0.01492, 0.02782, 0.04253, 0.12703, 0.02228, 0.02015,
	0.06094, 0.06966, 0.00153, 0.00772, 0.04025, 0.02406, 0.06749,
	0.07507, 0.01929, 0.00095, 0.05987, 0.06327, 0.09056, 0.02758,
	0.00978, 0.02360, 0.00150, 0.01974, 0.00074,
}

// The sixteen dice of the 1992 edition of Boggle.  A 'Q' face is the Qu tile.
var dice1992 = [16]string{
	"LRYTTE", "VTHRWE", "EGHWNE", "SEOTIS",
	"ANAEEG", "IDSYTT", "OATTOW", "MTOICU",
	"AFPKFS", "XLDERI", "HCPOAS", "ENSIEU",
	"YLDEVR", "ZNRNHL", "NMIHUQ", "OBBAOJ",
}

func randomLetter(r *rand.Rand) byte {
	x := r.Float64()
	sum := 0.0
	for i, f := range letterFrequencies {
		sum += f
		if x < sum {
			return byte('A' + i)
		}
	}
	// Frequencies sum to slightly under 1.
	return 'E'
}

// NewRandom fills a numRows x numCols grid with letters drawn independently by
// English letter frequency.
func NewRandom(r *rand.Rand, numRows, numCols int) Grid {
	g := NewGrid(numRows, numCols)
	for i := range g.Cells {
		g.Cells[i] = randomLetter(r)
	}
	return g
}

// NewDice shakes the sixteen standard dice into a 4x4 grid.
func NewDice(r *rand.Rand) Grid {
	order := r.Perm(len(dice1992))
	g := NewGrid(4, 4)
	for i, d := range order {
		faces := dice1992[d]
		g.Cells[i] = faces[r.Intn(len(faces))]
	}
	return g
}
