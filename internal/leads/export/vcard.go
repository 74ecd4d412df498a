// internal/leads/export/vcard.go
package export

import (
	"fmt"
	"strings"

	"leadgen/internal/models"
)

// VCard renders one vCard 3.0 card per record.
func VCard(records []models.Business) Payload {
	var sb strings.Builder
	for _, b := range records {
		writeCard(&sb, b)
	}

	record(FormatVCard, len(records))
	return Payload{
		Filename:    filename(FormatVCard),
		ContentType: "text/vcard;charset=utf-8",
		Body:        []byte(sb.String()),
	}
}

func writeCard(sb *strings.Builder, b models.Business) {
	sb.WriteString("BEGIN:VCARD\n")
	sb.WriteString("VERSION:3.0\n")
	fmt.Fprintf(sb, "FN:%s\n", b.Name)
	fmt.Fprintf(sb, "ORG:%s\n", b.Name)
	if models.IsAvailable(b.Phone) {
		fmt.Fprintf(sb, "TEL;TYPE=WORK,VOICE:%s\n", b.Phone)
	}
	// ADR is structured on ';', so commas in the free-text address become separators.
	if models.IsAvailable(b.Address) {
		fmt.Fprintf(sb, "ADR;TYPE=WORK:;;%s\n", strings.ReplaceAll(b.Address, ",", ";"))
	}
	if models.IsAvailable(b.Website) {
		fmt.Fprintf(sb, "URL:%s\n", b.Website)
	}
	fmt.Fprintf(sb, "NOTE:Rating: %s. %s\n", b.Rating, b.Description)
	sb.WriteString("END:VCARD\n")
}
