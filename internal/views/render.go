package views

import (
	"html/template"
	"io"
)

var frameTemplate = template.Must(template.New("frame").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<title>{{.Title}}</title>
{{- if .Description}}
<meta name="description" content="{{.Description}}" />
<meta property="og:description" content="{{.Description}}" />
{{- end}}
<meta property="og:title" content="{{.Title}}" />
<meta property="og:image" content="{{.Image.Src}}" />
<meta property="fc:frame" content="vNext" />
<meta property="fc:frame:image" content="{{.Image.Src}}" />
<meta property="fc:frame:image:aspect_ratio" content="{{.Image.AspectRatio}}" />
{{- if .Input}}
<meta property="fc:frame:input:text" content="{{.Input}}" />
{{- end}}
{{- range $i, $b := .Buttons}}
<meta property="fc:frame:button:{{inc $i}}" content="{{$b.Label}}" />
<meta property="fc:frame:button:{{inc $i}}:action" content="{{$b.Action}}" />
{{- if $b.Target}}
<meta property="fc:frame:button:{{inc $i}}:target" content="{{$b.Target}}" />
{{- end}}
{{- end}}
<meta property="fc:frame:post_url" content="{{.PostURL}}" />
</head>
<body>
{{- if .Heading}}
<h1>{{.Heading}}</h1>
{{- end}}
</body>
</html>
`))

// Page is a frame plus the extra fields of a standalone landing page.
type Page struct {
	Frame
	Description string
	Heading     string
}

// Render writes a frame response document.
func Render(w io.Writer, f Frame) error {
	return frameTemplate.Execute(w, Page{Frame: f})
}

// RenderPage writes a landing page that embeds a frame.
func RenderPage(w io.Writer, p Page) error {
	return frameTemplate.Execute(w, p)
}
