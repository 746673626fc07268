package dashboard

import "b3dash/pkg/contracts/domain"

// Axis labels keep the source column names so the chart reads the same as
// the original export.
const (
	xAxisLabel = "HoraFechamento"
	yAxisLabel = "PrecoNegocio"
)

// Point is one plotted trade. Centis duplicates the close time as hundredths
// of a second since midnight so the client can place it on a continuous axis
// without re-parsing the display string.
type Point struct {
	Time   domain.TimeOfDay `json:"time"`
	Centis int              `json:"centis"`
	Price  float64          `json:"price"`
}

// Series is one named line on the chart.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// ChartSpec is the renderable chart description emitted by every reduction.
type ChartSpec struct {
	Series     []Series `json:"series"`
	XAxisLabel string   `json:"x_axis_label"`
	YAxisLabel string   `json:"y_axis_label"`
	XAxisKind  string   `json:"x_axis_kind"`
}

// BuildChart produces one line series per selected instrument, each ordered
// ascending by close time. Deterministic given the dataset and selection.
func (r *Reducer) BuildChart(selected []string) *ChartSpec {
	spec := &ChartSpec{
		Series:     make([]Series, 0, len(selected)),
		XAxisLabel: xAxisLabel,
		YAxisLabel: yAxisLabel,
		XAxisKind:  "time",
	}

	for _, code := range selected {
		trades := r.dataset.SeriesFor(code)
		points := make([]Point, 0, len(trades))
		for _, t := range trades {
			points = append(points, Point{
				Time:   t.CloseTime,
				Centis: t.CloseTime.Centis(),
				Price:  t.Price,
			})
		}
		spec.Series = append(spec.Series, Series{Name: code, Points: points})
	}

	return spec
}
