package service

import "html/template"

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>eBOS Configurator</title>
<style>
body { font-family: Arial, sans-serif; margin: 2rem; background: #f7f7f7; color: #222; }
h1 { margin-bottom: 1rem; }
.step { margin-bottom: 1.25rem; }
.step h2 { font-size: 1rem; margin: 0 0 0.5rem; }
.step.current h2 { color: #1976d2; }
.options { display: flex; flex-wrap: wrap; gap: 0.5rem; }
.options button { padding: 0.5rem 1rem; border: 1px solid #bbb; border-radius: 4px; background: #fff; cursor: pointer; text-align: left; }
.options button.selected { background: #1976d2; color: #fff; border-color: #1976d2; }
.options button:disabled { opacity: 0.4; cursor: not-allowed; }
.options small { display: block; font-size: 0.75rem; }
.controls { display: flex; gap: 0.5rem; margin: 1rem 0; }
.controls button { padding: 0.5rem 1rem; border: none; border-radius: 4px; background: #424242; color: #fff; cursor: pointer; }
.match { font-weight: 600; color: #2e7d32; }
.nomatch { color: #c62828; }
pre { background: #fff; padding: 1rem; border-radius: 4px; }
</style>
</head>
<body>
<h1>eBOS Configurator: {{.Catalog}}</h1>
{{range $i, $f := .Fields}}
<div class="step{{if eq $f.Field $.Step}} current{{end}}">
<h2>{{$f.Label}}</h2>
<div class="options">
{{range $f.Options}}<button data-field="{{$f.Field}}" data-value="{{.Value}}"{{if .Selected}} class="selected"{{end}}{{if not .Enabled}} disabled{{end}}>{{.Name}}{{if .Sub}}<small>{{.Sub}}</small>{{end}}</button>
{{end}}</div>
</div>
{{end}}
<div class="controls">
<button id="undo"{{if not .CanUndo}} disabled{{end}}>Undo</button>
<button id="reset">Reset</button>
</div>
{{if .Matched}}<p class="match">Configuration {{.Matched.Ordinal}} of {{.Matched.Of}}: {{.Matched.ID}} (class {{.Matched.Class}})</p>
<pre id="layout"></pre>
{{else if .Complete}}<p class="nomatch">No configuration matches this selection.</p>
{{else}}<p>{{.Remaining}} configurations remain.</p>
{{end}}
<script>
async function post(path, body) {
  const res = await fetch(path, { method: 'POST', headers: { 'Content-Type': 'application/json' }, body: body ? JSON.stringify(body) : undefined });
  if (!res.ok) {
    const err = await res.json().catch(() => ({ error: res.statusText }));
    alert(err.error);
  }
  location.reload();
}
document.querySelectorAll('.options button').forEach(btn => {
  btn.addEventListener('click', () => post('/api/toggle', { field: btn.dataset.field, value: btn.dataset.value }));
});
document.getElementById('undo').addEventListener('click', () => post('/api/undo'));
document.getElementById('reset').addEventListener('click', () => post('/api/reset'));
const out = document.getElementById('layout');
if (out) {
  fetch('/api/layout?format=text').then(r => r.text()).then(t => { out.textContent = t; });
}
</script>
</body>
</html>
`))
