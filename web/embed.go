package web

import (
	"embed"
	"html/template"

	"signalboard/internal/utils"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates parses the embedded page templates with the display helpers
// registered as template funcs.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"currency":  utils.FormatCurrency,
		"change":    utils.FormatChange,
		"symbol":    utils.DisplaySymbol,
		"timeshort": utils.FormatTimeShort,
	}).ParseFS(templatesFS, "templates/*.html")
}
