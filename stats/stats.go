/*
Package stats provides the numeric building blocks used to grow trees:
entropy of class distributions and the chi-squared test on two-column
contingency tables.
*/
package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Error represents an error computing a statistic
type Error string

/*
ErrDegenerateTable is returned by ChiSquared when an expected cell of the
contingency table is zero, that is, when a whole column or row is empty.
*/
const ErrDegenerateTable = Error("contingency table has an expected cell of zero")

/*
ErrNoDegreesOfFreedom is returned by PValue when asked for the p-value of a
test with zero degrees of freedom, which happens for a table with a single row.
*/
const ErrNoDegreesOfFreedom = Error("chi-squared test with zero degrees of freedom")

func (e Error) Error() string {
	return string(e)
}

/*
Test selects how a chi-squared statistic is turned into the value compared
against a significance threshold.
*/
type Test int

const (
	// Density uses the probability density of the chi-squared distribution
	// at the statistic.
	Density Test = iota
	// Survival uses the upper tail probability of the chi-squared
	// distribution from the statistic, the conventional p-value.
	Survival
)

func (t Test) String() string {
	switch t {
	case Density:
		return "density"
	case Survival:
		return "survival"
	}
	return "unknown"
}

/*
Entropy takes a slice of per-class counts and returns the Shannon entropy in
bits of the distribution they describe. Classes with a zero count contribute
nothing, so the result lies in [0, log2(len(counts))]. A slice adding up to
zero has an entropy of 0.
*/
func Entropy(counts []int) float64 {
	fcounts := make([]float64, 0, len(counts))
	for _, c := range counts {
		if c > 0 {
			fcounts = append(fcounts, float64(c))
		}
	}
	if len(fcounts) == 0 {
		return 0.0
	}
	total := floats.Sum(fcounts)
	var result float64
	for _, c := range fcounts {
		p := c / total
		result -= p * math.Log2(p)
	}
	return result
}

/*
ChiSquared takes the rows of a contingency table with two columns and
returns its chi-squared statistic, where the expected value for every cell is
computed as rowTotal * columnTotal / grandTotal. It returns ErrDegenerateTable
if any expected value is zero.
*/
func ChiSquared(groups [][2]int) (float64, error) {
	rowTotals := make([]float64, len(groups))
	var colTotals [2]float64
	for i, g := range groups {
		colTotals[0] += float64(g[0])
		colTotals[1] += float64(g[1])
		rowTotals[i] = float64(g[0] + g[1])
	}
	gridTotal := colTotals[0] + colTotals[1]
	if gridTotal == 0 {
		return 0.0, ErrDegenerateTable
	}
	var result float64
	for i, g := range groups {
		for j := range g {
			expected := rowTotals[i] * colTotals[j] / gridTotal
			if expected == 0 {
				return 0.0, ErrDegenerateTable
			}
			d := float64(g[j]) - expected
			result += d * d / expected
		}
	}
	return result, nil
}

/*
ChiSquaredDensity returns the probability density of the chi-squared
distribution with the given degrees of freedom at x.
*/
func ChiSquaredDensity(x float64, dof int) float64 {
	return distuv.ChiSquared{K: float64(dof)}.Prob(x)
}

/*
ChiSquaredSurvival returns the probability of the chi-squared distribution
with the given degrees of freedom taking a value greater than x.
*/
func ChiSquaredSurvival(x float64, dof int) float64 {
	return distuv.ChiSquared{K: float64(dof)}.Survival(x)
}

/*
PValue takes a Test, a chi-squared statistic and its degrees of freedom and
returns the value to compare against a significance threshold according to
the test. It returns ErrNoDegreesOfFreedom when dof is not positive.
*/
func PValue(t Test, x float64, dof int) (float64, error) {
	if dof <= 0 {
		return math.NaN(), ErrNoDegreesOfFreedom
	}
	if t == Survival {
		return ChiSquaredSurvival(x, dof), nil
	}
	return ChiSquaredDensity(x, dof), nil
}
