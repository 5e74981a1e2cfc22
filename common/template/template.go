package template

// 控件的html片段, 结构与LuCI的cbi-value保持一致

const widgetHeader = `<div class="cbi-value{{ if .Hidden }} hidden{{ end }}" id="cbi-{{ .Config }}-{{ .Section }}-{{ .Option }}" data-index="{{ .Index }}" data-depends="{{ .Depends }}" data-field="{{ .CBID }}" data-name="{{ .Option }}" data-widget="{{ .Widget }}">
<label class="cbi-value-title" for="widget.{{ .CBID }}">{{ .Title }}</label>`

const widgetDescription = `{{ if .Description }}<div class="cbi-value-description">{{ .Description }}</div>{{ end }}`

const ListStatusTemplate = widgetHeader + `
<div class="cbi-value-field">
<div><span style="color: #ff8c00;margin-right: 5px;">Total: {{ .Count }}</span>Updated: {{ .Datetime }}<button style="margin-left: 10px;" class="cbi-button cbi-button-{{ .BtnStyle }}" data-section="{{ .Section }}" data-listtype="{{ .ListType }}">{{ .BtnTitle }}</button></div>
` + widgetDescription + `
</div>
</div>`

const RunningStatusTemplate = `<div class="cbi-value">
<span style="margin-left: 5px">
{{- if eq .State "running" }}<em style="color: green;">Running</em>
{{- else if eq .State "stopped" }}<em style="color: red;">Not Running</em>
{{- else }}<em>Collecting data...</em>{{ end -}}
</span> / <span>
{{- if .Version }}Version: {{ .Version }}{{ if .Latest }} (latest: {{ .Latest }}){{ end }}
{{- else if .VersionFailed }}<em style="color: red;">Unable to get Xray version.</em>
{{- else }}Getting...{{ end -}}
</span>
</div>`

const TextValueTemplate = widgetHeader + `
<div class="cbi-value-field">
<textarea class="cbi-input-textarea" id="widget.{{ .CBID }}" name="{{ .CBID }}" rows="{{ .Rows }}"{{ if .Readonly }} readonly{{ end }}>{{ .Value }}</textarea>
` + widgetDescription + `
</div>
</div>`

const ListValueTemplate = widgetHeader + `
<div class="cbi-value-field">
<select class="cbi-input-select" id="widget.{{ .CBID }}" name="{{ .CBID }}">
{{- range .Choices }}
<option value="{{ .Value }}"{{ if .Selected }} selected{{ end }}>{{ .Label }}</option>
{{- end }}
</select>
` + widgetDescription + `
</div>
</div>`

const PageTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{ .Title }}</title></head>
<body>
<h2 name="content">{{ .Title }}</h2>
<fieldset class="cbi-section" id="cbi-{{ .Config }}-{{ .Section }}-status">
{{ .Status }}
</fieldset>
<fieldset class="cbi-section" id="cbi-{{ .Config }}-{{ .Section }}" data-tab="geodata" data-tab-title="{{ .TabTitle }}">
{{ .Body }}
</fieldset>
</body>
</html>`
