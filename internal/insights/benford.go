package insights

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
	"github.com/kavya1280/JK-Insights/internal/exporter"
)

var benfordAnomalyColumns = []string{
	"Employee ID", "Report Name", "Report Id", "Report Number", "Submit Date", "Employee Name",
	"Approval Status", "Report Start Date", "Report End Date", "Currency", "Report Total",
	"Payment Status", "Amount Due Employee", "Report Date", "Policy", "Amount Approved",
}

var digitStatColumns = []string{
	"Digit", "Actual Count", "Expected Count", "Actual %", "Expected %", "Diff %", "Abs Diff %", "Z-Score",
}

var summaryColumns = []string{"Analysis Type", "Sample Size", "MAD", "P-Value", "Critical Finding"}

// DigitStat compares the observed frequency of one digit (or pair) with the
// Benford expectation
type DigitStat struct {
	Digit         int
	ActualCount   int
	ExpectedCount float64
	ActualPct     float64
	ExpectedPct   float64
	DiffPct       float64
	AbsDiffPct    float64
	ZScore        float64
}

// DigitTest is one of the three Benford tests
type DigitTest struct {
	Name  string
	Stats []DigitStat
	// MAD is the mean absolute deviation of proportions
	MAD             float64
	CriticalFinding string
}

// BenfordResult holds the three tests over one sample
type BenfordResult struct {
	SampleSize int
	First      DigitTest
	Second     DigitTest
	FirstTwo   DigitTest
	// TopPairs are the three first-two-digit pairs with the largest Z-score,
	// in ascending digit order
	TopPairs []int
}

// digits holds the leading digits of one amount
type digits struct {
	d1, d2, d12 int
}

// leadingDigits extracts the digits of |v| written with ten decimals, dot
// removed and leading zeros stripped. ok is false when nothing is left.
func leadingDigits(v float64) (digits, bool) {
	s := strconv.FormatFloat(math.Abs(v), 'f', 10, 64)
	s = strings.TrimLeft(strings.Replace(s, ".", "", 1), "0")
	if s == "" {
		return digits{}, false
	}
	d := digits{d1: int(s[0] - '0')}
	if len(s) > 1 {
		d.d2 = int(s[1] - '0')
		d.d12 = d.d1*10 + d.d2
	} else {
		d.d12 = d.d1 * 10
	}
	return d, true
}

func firstDigitProb(d int) float64 { return math.Log10(1 + 1/float64(d)) }

func secondDigitProb(d int) float64 {
	var p float64
	for k := 1; k <= 9; k++ {
		p += math.Log10(1 + 1/float64(10*k+d))
	}
	return p
}

// AnalyzeBenford runs the first digit, second digit and first-two-digit
// tests over amounts. Non-positive amounts must be filtered by the caller.
func AnalyzeBenford(amounts []float64) (*BenfordResult, error) {
	var sample []digits
	for _, v := range amounts {
		if d, ok := leadingDigits(v); ok {
			sample = append(sample, d)
		}
	}
	n := len(sample)
	if n == 0 {
		return nil, ErrNoPositiveAmounts
	}

	c1, c2, c12 := map[int]int{}, map[int]int{}, map[int]int{}
	for _, d := range sample {
		c1[d.d1]++
		c2[d.d2]++
		c12[d.d12]++
	}

	res := &BenfordResult{
		SampleSize: n,
		First:      digitTest("First Digit (1-9)", "Digit", 1, 9, firstDigitProb, c1, n),
		Second:     digitTest("Second Digit (0-9)", "Digit", 0, 9, secondDigitProb, c2, n),
		FirstTwo:   digitTest("First 2 Digits (10-99)", "Pair", 10, 99, firstDigitProb, c12, n),
	}

	ranked := append([]DigitStat(nil), res.FirstTwo.Stats...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].ZScore > ranked[j].ZScore })
	for _, s := range ranked[:3] {
		res.TopPairs = append(res.TopPairs, s.Digit)
	}
	sort.Ints(res.TopPairs)
	return res, nil
}

func digitTest(name, label string, lo, hi int, prob func(int) float64, counts map[int]int, n int) DigitTest {
	test := DigitTest{Name: name}
	var madSum float64
	best := -1
	for d := lo; d <= hi; d++ {
		p := prob(d)
		actual := counts[d]
		share := float64(actual) / float64(n)

		st := DigitStat{
			Digit:         d,
			ActualCount:   actual,
			ExpectedCount: p * float64(n),
			ActualPct:     share * 100,
			ExpectedPct:   p * 100,
		}
		st.DiffPct = st.ActualPct - st.ExpectedPct
		st.AbsDiffPct = math.Abs(st.DiffPct)
		if variance := p * (1 - p) / float64(n); variance > 0 {
			st.ZScore = (share - p) / math.Sqrt(variance)
		}

		madSum += st.AbsDiffPct / 100
		test.Stats = append(test.Stats, st)
		if best < 0 || st.ZScore > test.Stats[best].ZScore {
			best = len(test.Stats) - 1
		}
	}
	test.MAD = madSum / float64(len(test.Stats))
	top := test.Stats[best]
	test.CriticalFinding = fmt.Sprintf("Z-Score Max: %.2f (%s %d)", top.ZScore, label, top.Digit)
	return test
}

// Benford writes the digit analysis and the rows behind the three most
// over-represented digit pairs (PJPA28).
func Benford(in Inputs, _ Options) ([]Output, error) {
	concur := in.Concur
	if err := requireColumns(concur, SourceConcur, "Amount Approved"); err != nil {
		return nil, err
	}

	var rows []int
	var amounts []float64
	var pairs []int
	for r := range concur.Rows {
		v, ok := dataprocessing.ParseAmount(concur.Get(r, "Amount Approved"))
		if !ok || v <= 0 {
			continue
		}
		d, ok := leadingDigits(v)
		if !ok {
			continue
		}
		rows = append(rows, r)
		amounts = append(amounts, v)
		pairs = append(pairs, d.d12)
	}

	res, err := AnalyzeBenford(amounts)
	if err != nil {
		return nil, err
	}

	top := make(map[int]bool, len(res.TopPairs))
	for _, p := range res.TopPairs {
		top[p] = true
	}
	var picked []int
	for i, r := range rows {
		if top[pairs[i]] {
			picked = append(picked, r)
		}
	}
	anomalies := subset(concur, picked)
	dataprocessing.SortTable(anomalies, dataprocessing.SortKey{Column: "Submit Date", Desc: true, Kind: dataprocessing.SortDate})

	sheetName := fmt.Sprintf("Anomalies (%d-%d)", res.TopPairs[0], res.TopPairs[len(res.TopPairs)-1])
	return singleOutput("PJPA28",
		exceptionSheet(sheetName, "PJPA28", "1", "Benford’s Law Analysis for most occuring digits",
			2, benfordAnomalyColumns, anomalies),
		exporter.Sheet{
			Name:        "Summary Stats",
			Description: "Presents a high-level overview of the analysis results, including sample sizes, Mean Absolute Deviation (MAD), and critical findings for each test type.",
			Header:      summaryColumns,
			Rows:        summaryRows(res),
		},
		statsSheet("1st Digit Analysis",
			"Compares the actual count of leading digits (1–9) with the expected Benford's Law distribution to detect potential irregularities.",
			res.First),
		statsSheet("2nd Digit Analysis",
			"Analyzes the distribution of the second digit (0–9) in the dataset against the theoretical expectations of Benford's Law.",
			res.Second),
		statsSheet("First-2 Digits Analysis",
			"Provides a statistical comparison of the actual vs. expected frequency for the first two digits (10–99), including Z-scores to identify deviations.",
			res.FirstTwo),
	), nil
}

func summaryRows(res *BenfordResult) [][]string {
	n := dataprocessing.FormatInt(res.SampleSize)
	var rows [][]string
	for _, t := range []DigitTest{res.First, res.Second, res.FirstTwo} {
		rows = append(rows, []string{t.Name, n, dataprocessing.FormatNumber(t.MAD), "0", t.CriticalFinding})
	}
	return rows
}

func statsSheet(name, description string, test DigitTest) exporter.Sheet {
	f := dataprocessing.FormatNumber
	rows := make([][]string, len(test.Stats))
	for i, s := range test.Stats {
		rows[i] = []string{
			dataprocessing.FormatInt(s.Digit),
			dataprocessing.FormatInt(s.ActualCount),
			f(s.ExpectedCount), f(s.ActualPct), f(s.ExpectedPct), f(s.DiffPct), f(s.AbsDiffPct), f(s.ZScore),
		}
	}
	return exporter.Sheet{Name: name, Description: description, Header: digitStatColumns, Rows: rows}
}
