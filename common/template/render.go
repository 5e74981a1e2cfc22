package template

import (
	"bytes"
	"fmt"
	htmlTemplate "html/template"
)

const (
	ListStatusWidget    = "CUSTOM.ListStatusValue"
	RunningStatusWidget = "CUSTOM.RunningStatus"
	TextValueWidget     = "CUSTOM.TextValue"
	ListValueWidget     = "ListValue"
	Page                = "Page"
)

var widgetTemplates = map[string]*htmlTemplate.Template{
	ListStatusWidget:    htmlTemplate.Must(htmlTemplate.New(ListStatusWidget).Parse(ListStatusTemplate)),
	RunningStatusWidget: htmlTemplate.Must(htmlTemplate.New(RunningStatusWidget).Parse(RunningStatusTemplate)),
	TextValueWidget:     htmlTemplate.Must(htmlTemplate.New(TextValueWidget).Parse(TextValueTemplate)),
	ListValueWidget:     htmlTemplate.Must(htmlTemplate.New(ListValueWidget).Parse(ListValueTemplate)),
	Page:                htmlTemplate.Must(htmlTemplate.New(Page).Parse(PageTemplate)),
}

// RenderWidget executes the template of widget with templateVars, values are html escaped.
func RenderWidget(widget string, templateVars interface{}) (htmlTemplate.HTML, error) {
	render, ok := widgetTemplates[widget]
	if !ok {
		return "", fmt.Errorf("unknown widget: %s", widget)
	}
	var buf bytes.Buffer
	if err := render.Execute(&buf, templateVars); err != nil {
		return "", err
	}
	return htmlTemplate.HTML(buf.String()), nil
}
