// internal/leads/export/csv.go
package export

import (
	"strings"

	"leadgen/internal/models"
)

var csvHeader = []string{"Name", "Phone", "Address", "Rating", "Website", "Description", "Map Link"}

// CSV renders one header line plus one line per record, every field quoted.
// Lines are joined with "\n" and there is no trailing newline.
func CSV(records []models.Business) Payload {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(csvHeader, ","))

	for _, b := range records {
		fields := []string{b.Name, b.Phone, b.Address, b.Rating, b.Website, b.Description, b.MapLink}
		for i, f := range fields {
			fields[i] = quote(f)
		}
		lines = append(lines, strings.Join(fields, ","))
	}

	record(FormatCSV, len(records))
	return Payload{
		Filename:    filename(FormatCSV),
		ContentType: "text/csv;charset=utf-8",
		Body:        []byte(strings.Join(lines, "\n")),
	}
}

func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
