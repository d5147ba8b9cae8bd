// Package mailer отправляет квитанции об оплате по электронной почте через Resend.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/LautaroRomano/generador-recibos-pagos/internal/model"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/receipt"
)

const receiptSubject = "Recibo de Pago - Digicom"

// ErrNoRecipient возвращается, если у клиента не указан email.
var ErrNoRecipient = errors.New("client has no e-mail")

// Client инкапсулирует HTTP-взаимодействие с API Resend.
type Client struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
	printer    *message.Printer
	now        func() time.Time
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// NewClient создаёт клиент Resend с указанным адресом API, ключом и отправителем.
func NewClient(baseURL, apiKey, from string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		from:    from,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		printer: message.NewPrinter(language.Spanish),
		now:     time.Now,
	}
}

// SendReceipt отправляет клиенту квитанцию по платежу. Платёж должен содержать клиента.
func (c *Client) SendReceipt(ctx context.Context, p *model.Payment) error {
	if c == nil || c.baseURL == "" {
		return fmt.Errorf("mail client not configured")
	}
	if p.Client == nil || p.Client.Email == "" {
		return ErrNoRecipient
	}

	html, err := c.render(p)
	if err != nil {
		return err
	}

	body, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      []string{p.Client.Email},
		Subject: receiptSubject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status: %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	return nil
}

type receiptView struct {
	Number     string
	Date       string
	ClientName string
	Street     string
	AmountText string
	Amount     string
	Concepts   []conceptView
	Payment    string
	PrintedAt  string
}

type conceptView struct {
	Type   string
	Detail string
	Amount string
}

func (c *Client) render(p *model.Payment) (string, error) {
	view := receiptView{
		Number:     receipt.Format(p.Number),
		Date:       formatLongDate(p.Date),
		ClientName: p.Client.FullName,
		Street:     p.Client.Street,
		AmountText: p.AmountText,
		Amount:     c.formatAmount(p.Amount),
		Payment:    string(p.PaymentType),
		PrintedAt:  c.now().Format("2/1/2006"),
	}
	for _, concept := range p.Concepts {
		view.Concepts = append(view.Concepts, conceptView{
			Type:   string(concept.ConceptType),
			Detail: concept.Detail,
			Amount: c.formatAmount(concept.Amount),
		})
	}

	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return buf.String(), nil
}

func (c *Client) formatAmount(pesos int64) string {
	return c.printer.Sprintf("$ %d", pesos)
}

var months = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// formatLongDate возвращает дату вида "5 de marzo de 2025".
func formatLongDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), months[t.Month()-1], t.Year())
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`<div style="width: 700px; margin: 0 auto; font-family: 'Courier New', monospace; border: 2px solid #000; padding: 20px;">
  <div style="text-align: center; margin-bottom: 10px;">
    <h2 style="margin: 0;">CLUB NAUTICO Y PESCA <span style="font-weight: normal;">Sociedad Civil</span></h2>
    <p style="margin: 0;">AVENIDA EL LIBANO 1757 - 4000</p>
    <p style="margin: 0;">SAN MIGUEL DE TUCUMÁN</p>
    <p style="margin: 0;">IVA EXENTO</p>
  </div>
  <div style="display: flex; justify-content: space-between; border-top: 1px solid #000; border-bottom: 1px solid #000; padding: 10px 0; font-size: 14px;">
    <div style="flex: 1;"><strong>RECIBO N°:</strong> {{.Number}}</div>
    <div style="flex: 1; text-align: right;"><strong>FECHA:</strong> {{.Date}}</div>
  </div>
  <table style="width: 100%; font-size: 14px; margin-top: 10px;">
    <tr><td><strong>Señor:</strong> {{.ClientName}}</td></tr>
    <tr><td><strong>Domicilio:</strong> {{.Street}}</td></tr>
    <tr><td style="padding-top: 10px;"><strong>Recibí la suma de:</strong> {{.AmountText}} ({{.Amount}})</td></tr>
    <tr><td><strong>En concepto de:</strong></td></tr>
    {{range .Concepts}}<tr><td>{{.Type}}{{if .Detail}} - {{.Detail}}{{end}}: {{.Amount}}</td></tr>
    {{end}}<tr><td style="padding-top: 10px;"><strong>Forma de pago:</strong> {{.Payment}}</td></tr>
  </table>
  <div style="margin-top: 40px; font-size: 14px;"><strong>Total:</strong> {{.Amount}}</div>
  <div style="margin-top: 30px; font-size: 12px; text-align: center;">
    Documento no válido como factura - Impresión: {{.PrintedAt}}
  </div>
</div>
`))
