package web

import "html/template"

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Client's Personal Assistant</title>
<style>
body { font-family: sans-serif; margin: 0; display: flex; }
nav { width: 200px; padding: 1rem; background: #f0f2f6; min-height: 100vh; }
nav a { display: block; margin: .5rem 0; }
nav a.active { font-weight: bold; }
main { padding: 1rem 2rem; flex: 1; }
pre { background: #f7f7f7; padding: .5rem; white-space: pre-wrap; }
.error { color: #b00020; }
.info { color: #1c5fb0; }
.history { max-height: 400px; overflow-y: scroll; }
</style>
</head>
<body>
<nav>
<strong>Select Page</strong>
<a href="/" {{if eq .Page "chat"}}class="active"{{end}}>Chat</a>
<a href="/history" {{if eq .Page "history"}}class="active"{{end}}>Search History</a>
</nav>
<main>
<h1>Client's Personal Assistant</h1>
<h2>Powered by Meta AI</h2>
{{if eq .Page "chat"}}
<form method="post" action="/">
<label for="input">Input: </label>
<input id="input" name="question" type="text" size="60" value="{{.Question}}">
<button type="submit">Ask</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{if .Answered}}
{{if .NoData}}
<p class="error">{{.NoDataText}}</p>
{{else if .IsQuery}}
<h3>{{.RowsHeader}}</h3>
{{range .Rows}}<pre>{{.}}</pre>
{{end}}
{{else}}
<h3>{{.TextHeader}}</h3>
<pre>{{.ReplyText}}</pre>
{{end}}
{{end}}
{{else}}
<p>Click the button below to load chat history.</p>
<form method="get" action="/history">
<input type="hidden" name="load" value="1">
<button type="submit">Get History</button>
</form>
{{if .Loaded}}
{{if .Turns}}
<h3>{{.HistoryHeader}}</h3>
<div class="history">
{{range .Turns}}<div><b>Time</b>: {{.Timestamp}}<br><b>User</b>: {{.Message}}<br><b>Response</b>: {{.Response}}</div><br>
{{end}}
</div>
{{else}}
<p class="info">{{.NoHistoryText}}</p>
{{end}}
{{end}}
{{end}}
</main>
</body>
</html>
`))
