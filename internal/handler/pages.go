package handler

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/AlexZinkM/local-signer/internal/log"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageUnlock  = "unlock"
	pageProvide = "provide"
	pageNew     = "new"
	pageMissing = "missing"
)

// Pages renders the browser provisioning pages.
type Pages struct {
	templates map[string]*template.Template
}

// NewPages parses the embedded page templates.
func NewPages() (*Pages, error) {
	p := &Pages{templates: make(map[string]*template.Template)}
	for _, name := range []string{pageUnlock, pageProvide, pageNew, pageMissing} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s page: %w", name, err)
		}
		p.templates[name] = t
	}
	return p, nil
}

type pageData struct {
	Title      string
	Endpoint   string
	ChainName  string
	Label      string
	Address    string
	PrivateKey string
	QRCode     template.URL
	Message    string
}

func (p *Pages) render(w http.ResponseWriter, status int, name string, data pageData) {
	var buf bytes.Buffer
	if err := p.templates[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Broker.Error().Err(err).Str("page", name).Msg("failed to render page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (p *Pages) missing(w http.ResponseWriter, msg string) {
	p.render(w, http.StatusNotFound, pageMissing, pageData{Title: msg, Message: msg})
}

// apiBase returns the broker origin the page should post to. Only loopback
// origins are honoured; anything else falls back to same-origin requests.
func apiBase(r *http.Request) string {
	raw := r.URL.Query().Get("api")
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "http" || (u.Path != "" && u.Path != "/") {
		return ""
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1":
		return "http://" + u.Host
	}
	return ""
}

// qrDataURL encodes text as a 256px PNG QR code data URL.
func qrDataURL(text string) (template.URL, error) {
	qr, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
}
