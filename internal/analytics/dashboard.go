package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
)

const (
	topN          = 10
	scatterPoints = 100
)

// KPI is one headline figure
type KPI struct {
	Value        any    `json:"value"`
	Label        string `json:"label"`
	IsCurrency   bool   `json:"is_currency,omitempty"`
	IsPercentage bool   `json:"is_percentage,omitempty"`
}

// ChartPoint is one bar or slice
type ChartPoint struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// ScatterPoint is one point of the amount-vs-usage chart
type ScatterPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dashboard is the KPI and chart payload for one dataset view
type Dashboard struct {
	KPIs      map[string]KPI `json:"kpis"`
	Charts    map[string]any `json:"charts"`
	Filename  string         `json:"filename"`
	FileType  FileType       `json:"file_type"`
	TotalRows int            `json:"total_rows"`
}

// Dashboard summarizes the filtered dataset. now anchors the PJPA39 aging
// figures.
func (d *Dataset) Dashboard(f *Filters, now time.Time) Dashboard {
	t := f.Apply(d.Table)
	var db Dashboard
	switch d.Type {
	case TypePJPA38:
		db = pjpa38Dashboard(t)
	case TypePJPA39:
		db = pjpa39Dashboard(t, now)
	default:
		db = pjpa37Dashboard(t)
	}
	db.Filename = d.Name
	db.FileType = d.Type
	db.TotalRows = t.Len()
	return db
}

func pjpa37Dashboard(t *dataprocessing.Table) Dashboard {
	anomalies := t.Filter(func(r int) bool { return t.Get(r, ColIsAnomaly) == "Yes" })

	var anomalyRate float64
	if t.Len() > 0 {
		anomalyRate = float64(anomalies.Len()) / float64(t.Len()) * 100
	}

	highRisk := []ChartPoint{}
	if t.Has(ColEmployeeID) && t.Has(ColIsAnomaly) {
		highRisk = top(sumBy(anomalies, ColEmployeeID, ColTotalSpend), topN)
	}

	return Dashboard{
		KPIs: map[string]KPI{
			"total_employees": {Value: nunique(t, ColEmployeeID), Label: "Total Employees"},
			"total_reports":   {Value: nunique(t, ColReportID), Label: "Total Reports"},
			"cluster_count":   {Value: nunique(t, ColClusterID), Label: "Clusters"},
			"total_claims":    {Value: int64(sum(t, ColTotalClaims)), Label: "Total Claims"},
			"total_spend":     {Value: sum(t, ColTotalSpend), Label: "Total Spend", IsCurrency: true},
			"anomaly_spend":   {Value: sum(anomalies, ColTotalSpend), Label: "Anomaly Spend", IsCurrency: true},
			"anomaly_rate":    {Value: round(anomalyRate, 2), Label: "Anomaly Rate %", IsPercentage: true},
		},
		Charts: map[string]any{
			"claims_by_employee":  top(sumBy(t, ColEmployeeID, ColTotalClaims), topN),
			"spend_by_employee":   top(sumBy(t, ColEmployeeID, ColTotalSpend), topN),
			"claims_by_policy":    sumBy(t, columnContaining(t, "policy"), ColTotalClaims),
			"high_risk_employees": highRisk,
		},
	}
}

func pjpa38Dashboard(t *dataprocessing.Table) Dashboard {
	rare := t.Filter(func(r int) bool { return t.Get(r, ColFlag) == "Rare" })

	totalTrips := int64(sum(t, ColModeCount))
	var oddPct float64
	if totalTrips > 0 {
		oddPct = float64(rare.Len()) / float64(totalTrips) * 100
	}

	scatter := []ScatterPoint{}
	if t.Has(ColApprovedAmount) && t.Has(ColModeCount) {
		for r := 0; r < t.Len() && len(scatter) < scatterPoints; r++ {
			scatter = append(scatter, ScatterPoint{
				X: dataprocessing.AmountOrZero(t.Get(r, ColModeCount)),
				Y: dataprocessing.AmountOrZero(t.Get(r, ColApprovedAmount)),
			})
		}
	}

	flags := countBy(t, ColFlag)
	sortByValue(flags)

	rareByExpense, rareTravellers := []ChartPoint{}, []ChartPoint{}
	if t.Has(ColFlag) {
		rareByExpense = countBy(rare, columnContaining(t, "expense", "type"))
		sortByCategory(rareByExpense)
		rareTravellers = top(countBy(rare, ColEmployeeID), topN)
	}

	return Dashboard{
		KPIs: map[string]KPI{
			"total_employees": {Value: nunique(t, ColEmployeeID), Label: "Total Employees"},
			"rare_count":      {Value: rare.Len(), Label: "Rare Trip Count"},
			"total_trips":     {Value: totalTrips, Label: "Total Trip Count"},
			"rare_spend":      {Value: sum(rare, ColApprovedAmount), Label: "Rare Spend", IsCurrency: true},
			"total_spend":     {Value: sum(t, ColApprovedAmount), Label: "Total Spend", IsCurrency: true},
			"odd_travel_pct":  {Value: round(oddPct, 2), Label: "Odd Travel %", IsPercentage: true},
		},
		Charts: map[string]any{
			"flag_distribution": flags,
			"rare_by_expense":   rareByExpense,
			"rare_travellers":   rareTravellers,
			"amount_vs_usage":   scatter,
		},
	}
}

// agingBuckets are upper bounds in days; the last bucket is open
var agingBuckets = []struct {
	label string
	upper int
}{
	{"0-30 Days", 30},
	{"31-60 Days", 60},
	{"61-90 Days", 90},
	{"90+ Days", math.MaxInt},
}

func pjpa39Dashboard(t *dataprocessing.Table, now time.Time) Dashboard {
	var overdueDays, overdueCount int
	aging := []ChartPoint{}
	if t.Has(ColSeparationDate) {
		counts := make([]int, len(agingBuckets))
		for _, v := range t.Values(ColSeparationDate) {
			sep, ok := dataprocessing.ParseDate(v)
			if !ok {
				continue
			}
			days := dataprocessing.ElapsedDays(sep, now)
			if sep.Before(now) {
				overdueDays += days
				overdueCount++
			}
			for i, b := range agingBuckets {
				if days <= b.upper {
					counts[i]++
					break
				}
			}
		}
		for i, b := range agingBuckets {
			aging = append(aging, ChartPoint{Category: b.label, Value: float64(counts[i])})
		}
	}

	var avgOverdue float64
	if overdueCount > 0 {
		avgOverdue = float64(overdueDays) / float64(overdueCount)
	}

	yearTrend := distinctBy(t, columnContaining(t, "year"), ColEmployeeID)
	for i := range yearTrend {
		yearTrend[i].Category = dataprocessing.NormalizeID(yearTrend[i].Category)
	}

	return Dashboard{
		KPIs: map[string]KPI{
			"total_employees": {Value: nunique(t, ColEmployeeID), Label: "Total Employees"},
			"dept_count":      {Value: nunique(t, ColDepartment), Label: "Departments"},
			"location_count":  {Value: nunique(t, ColState), Label: "Locations"},
			"avg_overdue":     {Value: round(avgOverdue, 1), Label: "Avg Overdue Days"},
		},
		Charts: map[string]any{
			"emp_by_department": distinctBy(t, ColDepartment, ColEmployeeID),
			"aging_bucket":      aging,
			"year_trend":        yearTrend,
		},
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// nunique counts distinct non-blank values; 0 when col is absent
func nunique(t *dataprocessing.Table, col string) int {
	seen := make(map[string]bool)
	for _, v := range t.Values(col) {
		if v != "" {
			seen[v] = true
		}
	}
	return len(seen)
}

func sum(t *dataprocessing.Table, col string) float64 {
	var total float64
	for _, v := range t.Values(col) {
		total += dataprocessing.AmountOrZero(v)
	}
	return total
}

// sumBy totals value per key, ordered by key. Empty when either column
// is absent.
func sumBy(t *dataprocessing.Table, key, value string) []ChartPoint {
	return aggregate(t, key, value, func(rows []int) float64 {
		var total float64
		for _, r := range rows {
			total += dataprocessing.AmountOrZero(t.Get(r, value))
		}
		return total
	})
}

// distinctBy counts distinct values of value per key, ordered by key
func distinctBy(t *dataprocessing.Table, key, value string) []ChartPoint {
	return aggregate(t, key, value, func(rows []int) float64 {
		seen := make(map[string]bool)
		for _, r := range rows {
			if v := t.Get(r, value); v != "" {
				seen[v] = true
			}
		}
		return float64(len(seen))
	})
}

func aggregate(t *dataprocessing.Table, key, value string, fn func(rows []int) float64) []ChartPoint {
	out := []ChartPoint{}
	if key == "" || !t.Has(key) || !t.Has(value) {
		return out
	}
	for _, g := range dataprocessing.GroupBy(t, key) {
		out = append(out, ChartPoint{Category: g.Key[0], Value: fn(g.Rows)})
	}
	sortByCategory(out)
	return out
}

// countBy counts rows per key in first-seen order
func countBy(t *dataprocessing.Table, key string) []ChartPoint {
	out := []ChartPoint{}
	if key == "" || !t.Has(key) {
		return out
	}
	for _, g := range dataprocessing.GroupBy(t, key) {
		out = append(out, ChartPoint{Category: g.Key[0], Value: float64(len(g.Rows))})
	}
	return out
}

// top keeps the n largest points. Ties keep their key order.
func top(points []ChartPoint, n int) []ChartPoint {
	sortByCategory(points)
	sortByValue(points)
	if len(points) > n {
		points = points[:n]
	}
	return points
}

func sortByValue(points []ChartPoint) {
	sort.SliceStable(points, func(i, j int) bool { return points[i].Value > points[j].Value })
}

// sortByCategory orders numerically when both categories are numbers
func sortByCategory(points []ChartPoint) {
	sort.SliceStable(points, func(i, j int) bool {
		a, aok := dataprocessing.ParseAmount(points[i].Category)
		b, bok := dataprocessing.ParseAmount(points[j].Category)
		if aok && bok {
			return a < b
		}
		if aok != bok {
			return aok
		}
		return strings.Compare(points[i].Category, points[j].Category) < 0
	})
}
