// internal/leads/parser/parser.go
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"leadgen/internal/common/metrics"
	"leadgen/internal/common/validation"
	"leadgen/internal/models"

	"github.com/google/uuid"
)

const (
	StartMarker = "###START_BUSINESS"
	EndMarker   = "###END_BUSINESS"
)

// Field names the model is asked to emit, in template order.
const (
	FieldName        = "Name"
	FieldAddress     = "Address"
	FieldPhone       = "Phone"
	FieldRating      = "Rating"
	FieldWebsite     = "Website"
	FieldDescription = "Description"
	FieldLatitude    = "Latitude"
	FieldLongitude   = "Longitude"
)

var Fields = []string{
	FieldName, FieldAddress, FieldPhone, FieldRating,
	FieldWebsite, FieldDescription, FieldLatitude, FieldLongitude,
}

// fieldPatterns match "<Key>: value" at the start of a line, tolerating
// list bullets and markdown bold around the key.
var fieldPatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(Fields))
	for _, f := range Fields {
		m[f] = regexp.MustCompile(`(?im)^[ \t]*(?:[-*][ \t]+)?(?:\*\*)?` + f + `(?:\*\*)?[ \t]*:(?:\*\*)?[ \t]*(.*)$`)
	}
	return m
}()

// Result carries the parsed records plus counts of what was thrown away.
type Result struct {
	Businesses []models.Business
	Truncated  int // blocks without an end marker
	Nameless   int // blocks whose name was empty or N/A
}

// Parse converts raw model text into business records, in block order.
func Parse(text string) []models.Business {
	return ParseDetailed(text).Businesses
}

// ParseDetailed is Parse with drop accounting.
func ParseDetailed(text string) Result {
	var res Result
	chunks := strings.Split(text, StartMarker)

	// chunks[0] precedes the first start marker and never forms a record.
	for _, chunk := range chunks[1:] {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		end := strings.Index(chunk, EndMarker)
		if end < 0 {
			res.Truncated++
			continue
		}

		b, ok := parseBlock(chunk[:end])
		if !ok {
			res.Nameless++
			continue
		}
		res.Businesses = append(res.Businesses, b)
	}

	metrics.RecordsParsed.Add(float64(len(res.Businesses)))
	metrics.BlocksDropped.WithLabelValues("truncated").Add(float64(res.Truncated))
	metrics.BlocksDropped.WithLabelValues("nameless").Add(float64(res.Nameless))
	return res
}

func parseBlock(content string) (models.Business, bool) {
	name := strings.TrimSpace(strings.ReplaceAll(extract(content, FieldName), "**", ""))
	if name == "" || name == models.NotAvailable {
		return models.Business{}, false
	}

	address := extract(content, FieldAddress)
	b := models.Business{
		ID:          NewID(),
		Name:        name,
		Address:     address,
		Phone:       extract(content, FieldPhone),
		Rating:      extract(content, FieldRating),
		Website:     extract(content, FieldWebsite),
		Description: extract(content, FieldDescription),
		MapLink:     models.MapSearchLink(name, address),
	}

	lat, latOK := parseCoordinate(extract(content, FieldLatitude))
	lng, lngOK := parseCoordinate(extract(content, FieldLongitude))
	if latOK && lngOK && validation.ValidLatLng(lat, lng) {
		b.Lat, b.Lng = &lat, &lng
	}
	return b, true
}

func extract(content, key string) string {
	m := fieldPatterns[key].FindStringSubmatch(content)
	if m == nil {
		return models.NotAvailable
	}
	v := strings.TrimSpace(m[1])
	if v == "" {
		return models.NotAvailable
	}
	return v
}

func parseCoordinate(v string) (float64, bool) {
	if !models.IsAvailable(v) {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// NewID returns a fresh client-side record id.
func NewID() string {
	return fmt.Sprintf("biz-%s", uuid.NewString())
}
