// internal/leads/export/export.go
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"leadgen/internal/common/metrics"
	"leadgen/internal/models"
)

var ErrUnknownFormat = errors.New("EXPORT_FORMAT_UNKNOWN")

// Format names accepted by Encode. They double as file extensions.
const (
	FormatCSV   = "csv"
	FormatVCard = "vcf"
	FormatWord  = "doc"
)

// Payload is a downloadable file.
type Payload struct {
	Filename    string
	ContentType string
	Body        []byte
}

// now is swapped in tests for stable filenames.
var now = time.Now

// Encode dispatches to the encoder for format.
func Encode(format string, records []models.Business) (Payload, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV:
		return CSV(records), nil
	case FormatVCard, "vcard":
		return VCard(records), nil
	case FormatWord, "word":
		return Word(records)
	default:
		return Payload{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func filename(ext string) string {
	return fmt.Sprintf("leads_%d.%s", now().UnixMilli(), ext)
}

func record(format string, n int) {
	metrics.ExportsTotal.WithLabelValues(format).Inc()
	metrics.ExportedRecords.WithLabelValues(format).Add(float64(n))
}
