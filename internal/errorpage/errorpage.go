// Package errorpage renders the page shown when the target application
// fails to start. The generic variant reveals nothing about the failure;
// the detailed variant is only used when detailed errors are enabled.
package errorpage

import (
	"fmt"
	"html/template"
	"io"
)

var pageTemplate = template.Must(template.New("startup-failure").Parse(`<!DOCTYPE html>
<html lang="en">
<head><title>Application failed to start</title></head>
<body>
<h1>Application failed to start</h1>
{{if .Detail}}<p>{{.Detail}}</p>
{{else}}<p>The application was unable to start. Contact the site administrator for assistance.</p>
{{end}}</body>
</html>
`))

// Render writes the startup failure page. The launch error text is
// included only when detailed is true.
func Render(w io.Writer, detailed bool, launchErr error) error {
	data := struct{ Detail string }{}
	if detailed && launchErr != nil {
		data.Detail = launchErr.Error()
	}

	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render startup error page: %w", err)
	}
	return nil
}
