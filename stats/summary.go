package stats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Summary renders the fit as two plain-text tables: overall statistics,
// then one row per coefficient with its t-test and the design column's
// mean and standard deviation. If diagnostics cannot be computed the
// coefficient table lists estimates only.
func (r *OLSResult) Summary() string {
	var sb strings.Builder
	diag, derr := r.Diagnostics()

	overall := tablewriter.NewWriter(&sb)
	overall.SetHeader([]string{"Statistic", "Value"})
	overall.SetAlignment(tablewriter.ALIGN_RIGHT)
	overall.AppendBulk([][]string{
		{"No. observations", strconv.Itoa(r.NObs)},
		{"Df model", formatFloat(r.DFModel)},
		{"Df residuals", formatFloat(r.DFResid)},
		{"R-squared", formatFloat(r.RSquared)},
		{"F-statistic", formatFloat(r.FValue)},
		{"Prob (F-statistic)", formatFloat(r.FPValue)},
		{"Implicit constant", strconv.FormatBool(r.HasConstant)},
	})
	if derr == nil {
		overall.Append([]string{"Cond. No.", formatFloat(diag.CondNumber)})
	}
	overall.Render()

	coefs := tablewriter.NewWriter(&sb)
	coefs.SetAlignment(tablewriter.ALIGN_RIGHT)
	if derr != nil {
		coefs.SetHeader([]string{"Term", "Coef"})
		for i, b := range r.Params {
			coefs.Append([]string{term(i), formatFloat(b)})
		}
		coefs.Render()
		return sb.String()
	}
	coefs.SetHeader([]string{"Term", "Coef", "Std.Err", "t", "P>|t|", "Mean", "SD"})
	for i, b := range r.Params {
		coefs.Append([]string{
			term(i),
			formatFloat(b),
			formatFloat(diag.StdErr[i]),
			formatFloat(diag.TValues[i]),
			formatFloat(diag.PValues[i]),
			formatFloat(diag.ColumnMeans[i]),
			formatFloat(diag.ColumnSDs[i]),
		})
	}
	coefs.Render()

	return sb.String()
}

// String implements fmt.Stringer so a fit can be passed straight to a logger.
func (r *OLSResult) String() string { return r.Summary() }

func term(i int) string { return fmt.Sprintf("x%d", i+1) }

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
