package export

import (
	"encoding/csv"
	"io"

	"github.com/go-faster/errors"
)

// WriteCSV writes the plan as one CSV document with titled sections
// separated by blank lines.
func WriteCSV(w io.Writer, plan *YearPlan) error {
	cw := csv.NewWriter(w)
	var records [][]string
	records = append(records, []string{"Year Plan Export"}, []string{})
	records = append(records, plan.Metadata...)
	records = append(records, []string{})

	records = append(records, []string{"Team Load Summary"}, plan.Summary.Headers)
	records = append(records, plan.Summary.Rows...)
	records = append(records, []string{})

	records = append(records, []string{"Initiatives"}, plan.Initiatives.Headers)
	records = append(records, plan.Initiatives.Rows...)

	if err := cw.WriteAll(records); err != nil {
		return errors.Wrap(err, "writing csv")
	}
	return nil
}
