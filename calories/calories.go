// Package calories estimates energy burned from step counts, using
// MET-based tables for walking at 2-4 mph bracketed by height and weight.
package calories

// HeightClass selects a steps-per-mile band.
type HeightClass int

const (
	Short  HeightClass = iota // 5'5" and below, ~2400 steps per mile
	Medium                    // 5'6" to 5'11", ~2200 steps per mile
	Tall                      // 6'0" and above, ~2000 steps per mile
)

// Weight brackets in pounds; the tables below are indexed to match.
var weightLbs = [...]uint16{100, 120, 140, 160, 180, 200, 220, 250, 275, 300}

// Calories burned per 1000 steps by weight bracket.
var (
	perThousandShort  = [...]uint16{23, 28, 32, 36, 41, 45, 50, 57, 63, 68}
	perThousandMedium = [...]uint16{25, 30, 35, 40, 45, 50, 55, 63, 69, 75}
	perThousandTall   = [...]uint16{28, 33, 38, 44, 49, 55, 60, 69, 75, 82}
)

func table(h HeightClass) [len(weightLbs)]uint16 {
	switch h {
	case Short:
		return perThousandShort
	case Tall:
		return perThousandTall
	default:
		return perThousandMedium
	}
}

// FromSteps estimates total calories burned over steps for a walker of the
// given weight and height class. Weight is clamped to the table range and
// interpolated linearly between brackets.
func FromSteps(steps uint32, weight uint16, h HeightClass) uint32 {
	tab := table(h)

	if weight < weightLbs[0] {
		weight = weightLbs[0]
	}
	if weight > weightLbs[len(weightLbs)-1] {
		weight = weightLbs[len(weightLbs)-1]
	}

	idx := len(weightLbs) - 2
	for i := 0; i < len(weightLbs)-1; i++ {
		if weight >= weightLbs[i] && weight < weightLbs[i+1] {
			idx = i
			break
		}
	}

	w1, w2 := uint32(weightLbs[idx]), uint32(weightLbs[idx+1])
	c1, c2 := uint32(tab[idx]), uint32(tab[idx+1])
	perThousand := c1 + (c2-c1)*(uint32(weight)-w1)/(w2-w1)

	return uint32(uint64(steps) * uint64(perThousand) / 1000)
}

// QuickEstimate is the cheap approximation ~0.04 cal/step at 160 lbs,
// scaled linearly with weight.
func QuickEstimate(steps uint32, weight uint16) uint32 {
	return uint32(uint64(steps) * uint64(weight) / 4000)
}
