package domain

// Row labels found in the first cell of the timing table.
const (
	LabelDriver = "Driver"
	LabelKart   = "Kart"
	LabelLap    = "Lap"
	LabelBest   = "Best"
	LabelAvg    = "Avg"
	LabelDev    = "Dev"
	LabelGap    = "Gap"
	LabelStint  = "S1 kart"
)

// SummaryLabels are the first-cell labels of side info rows.
var SummaryLabels = []string{LabelBest, LabelAvg, LabelDev}

// IsSummaryLabel reports whether label starts a side info row.
func IsSummaryLabel(label string) bool {
	for _, l := range SummaryLabels {
		if l == label {
			return true
		}
	}
	return false
}
