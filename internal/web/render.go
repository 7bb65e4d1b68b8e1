package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer holds the parsed page templates. Template data always embeds a
// Page so the header (categories, cart badge, flashes) renders everywhere.
type Renderer struct {
	tmpl *template.Template
	log  *zap.Logger
}

// Page is the data every template receives.
type Page struct {
	Title      string
	Categories []string
	CartCount  int
	Flashes    []Flash
	Data       interface{}
}

func NewRenderer(log *zap.Logger) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"rupiah": formatRupiah,
		"usd":    func(v float64) string { return fmt.Sprintf("$%.2f", v) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, log: log}, nil
}

func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := r.tmpl.ExecuteTemplate(w, name, page); err != nil {
		r.log.Error("render template failed", zap.String("template", name), zap.Error(err))
	}
}

// formatRupiah renders a display-currency amount with thousands separators,
// e.g. 5000000 -> "Rp 5,000,000".
func formatRupiah(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "Rp -" + string(out)
	}
	return "Rp " + string(out)
}
