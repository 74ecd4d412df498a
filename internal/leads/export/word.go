// internal/leads/export/word.go
package export

import (
	"bytes"
	"fmt"
	"html/template"

	"leadgen/internal/models"
)

var wordTemplate = template.Must(template.New("word").Funcs(template.FuncMap{"available": models.IsAvailable}).Parse(`<html xmlns:o='urn:schemas-microsoft-com:office:office' xmlns:w='urn:schemas-microsoft-com:office:word' xmlns='http://www.w3.org/TR/REC-html40'>
<head><meta charset='utf-8'><title>Exported Leads</title></head>
<body>
<h1>Business Leads Export</h1>
{{- range .}}
<div class="lead" style="margin-bottom: 20px; border-bottom: 1px solid #ccc; padding-bottom: 10px;">
<h2 class="name" style="color: #2563eb; margin: 0;">{{.Name}}</h2>
<p class="phone"><strong>Phone:</strong> {{.Phone}}</p>
<p class="address"><strong>Address:</strong> {{.Address}}</p>
<p class="rating"><strong>Rating:</strong> {{.Rating}}</p>
<p class="website"><strong>Website:</strong> {{if available .Website}}<a href="{{.Website}}">{{.Website}}</a>{{else}}{{.Website}}{{end}}</p>
<p class="description"><em>{{.Description}}</em></p>
<p class="map"><a href="{{.MapLink}}">View on Google Maps</a></p>
</div>
{{- end}}
</body></html>`))

// Word renders an HTML document that word processors open as a .doc file.
func Word(records []models.Business) (Payload, error) {
	var buf bytes.Buffer
	if err := wordTemplate.Execute(&buf, records); err != nil {
		return Payload{}, fmt.Errorf("render word export: %w", err)
	}

	record(FormatWord, len(records))
	return Payload{
		Filename:    filename(FormatWord),
		ContentType: "application/msword",
		Body:        buf.Bytes(),
	}, nil
}
