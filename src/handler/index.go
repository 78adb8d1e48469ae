package handler

import (
	"html/template"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>marketdesk</title>
  <style>
    body { font-family: sans-serif; max-width: 720px; margin: 2em auto; }
    fieldset { margin-bottom: 2em; }
    label { display: block; margin-top: 0.5em; }
    input[type=text] { width: 100%; }
  </style>
</head>
<body>
  <h1>marketdesk</h1>

  <fieldset>
    <legend>Option quote by code</legend>
    <form method="post" action="/api/option-quote">
      <label>Provider
        <select name="provider">
          <option value="nasdaq">nasdaq</option>
          <option value="yahoo">yahoo</option>
        </select>
      </label>
      <label>Nasdaq URL (recommended) or leave empty
        <input type="text" name="url" placeholder="https://www.nasdaq.com/market-activity/stocks/amd/option-chain/call-put-options/amd---271217c00370000">
      </label>
      <label>Symbol (if no URL)
        <input type="text" name="symbol" placeholder="amd">
      </label>
      <label>Option code (if no URL)
        <input type="text" name="code" placeholder="271217c00370000">
      </label>
      <label>Format
        <select name="format">
          <option value="json">json</option>
          <option value="csv">csv</option>
        </select>
      </label>
      <button type="submit">Fetch</button>
    </form>
  </fieldset>

  <fieldset>
    <legend>App Store reviews</legend>
    <form method="post" action="/api/reviews">
      <label>App Store URL
        <input type="text" name="url" placeholder="https://apps.apple.com/us/app/some-app/id123456789">
      </label>
      <label>Max reviews
        <input type="text" name="max" value="100">
      </label>
      <label>Format
        <select name="format">
          <option value="csv">csv</option>
          <option value="json">json</option>
        </select>
      </label>
      <button type="submit">Fetch reviews</button>
    </form>
  </fieldset>
</body>
</html>
`))

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := indexTemplate.Execute(w, nil); err != nil {
		log.Errorf("Index: failed to render template: %v", err)
	}
}
