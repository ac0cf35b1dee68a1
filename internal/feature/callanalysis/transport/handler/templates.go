package handler

import "html/template"

// SampleTranscript はフォームの初期値と --test モードで使う通話例です。
const SampleTranscript = "Hi, I was trying to book a slot yesterday but the payment failed and I couldn't complete my booking. I got charged but the confirmation didn't show up. Can you please help?"

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<title>Call Analysis</title>
<h1>Call Analysis</h1>
<form method="post" action="/analyze">
  <textarea name="transcript" rows="10" cols="80" placeholder="Paste transcript here...">{{ . }}</textarea><br>
  <button type="submit">Analyze</button>
</form>
<p>Or send JSON POST to <code>/analyze</code> with <code>{"transcript": "..."}</code></p>
`))

var resultTemplate = template.Must(template.New("result").Parse(`<!doctype html>
<title>Result</title>
<h1>Result</h1>
<p><strong>Transcript:</strong></p>
<pre>{{ .Transcript }}</pre>
<p><strong>Summary:</strong> {{ .Summary }}</p>
<p><strong>Sentiment:</strong> {{ .Sentiment }}</p>
<p><a href="/">Back</a></p>
`))
