package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/montecarlo"
	"github.com/etnz/montecarlo/date"
	"github.com/etnz/montecarlo/marketdata"
	md "github.com/nao1215/markdown"
)

// CalibrationMarkdown renders the estimates of a price history of source.
func CalibrationMarkdown(source string, c *marketdata.Calibration) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Calibration of %s", source))
	period := date.Range{From: c.From, To: c.To}
	doc.PlainText(fmt.Sprintf("%d returns from %s to %s (%.1f years), %d periods a year.", c.Observations, c.From, c.To, period.Years(), c.PeriodsPerYear))

	doc.Table(md.TableSet{
		Header: []string{"Estimate", "Value"},
		Rows: [][]string{
			{"Expected annual return", montecarlo.Ratio(c.ExpectedAnnualReturn).String()},
			{"Annual volatility", montecarlo.Ratio(c.AnnualVolatility).String()},
		},
	})
	return doc.String()
}
