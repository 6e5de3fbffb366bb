package handlers

import (
	"bytes"
	"html/template"

	"github.com/gin-gonic/gin"
)

// resultPage backs the small HTML pages behind the approve/decline links.
type resultPage struct {
	Title   string
	Color   string
	Message string
	Detail  string
}

var resultPageTmpl = template.Must(template.New("result").Parse(`
<html><body style="font-family: Arial, sans-serif; text-align: center; padding: 50px;">
    <h1 style="color: {{.Color}};">{{.Title}}</h1>
    <p>{{.Message}}</p>
    {{if .Detail}}<p>{{.Detail}}</p>{{end}}
</body></html>
`))

func renderResultPage(c *gin.Context, status int, page resultPage) {
	var buf bytes.Buffer
	if err := resultPageTmpl.Execute(&buf, page); err != nil {
		c.String(status, page.Message)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
