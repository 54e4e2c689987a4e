package notifications

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"konstruksi-backend/internal/inquiries"
)

const inquiryNotificationTemplate = `<!DOCTYPE html>
<html>
<body>
  <h3>Permintaan baru dari website</h3>
  <p><strong>Nama:</strong> {{.Name}}</p>
  <p><strong>Perusahaan:</strong> {{.Company}}</p>
  <p><strong>Telepon:</strong> {{.Phone}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  <p><strong>Produk:</strong> {{.ProductInterest}}</p>
  <p><strong>Sumber:</strong> {{.Source}}</p>
  <p><strong>ID:</strong> {{.ID}}</p>
  <p><strong>Pesan:</strong><br/>{{.Message}}</p>
</body>
</html>`

const inquiryConfirmationTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Halo {{.Name}},</p>
  <p>Terima kasih telah menghubungi kami. Permintaan Anda sudah kami terima dan tim penjualan akan menghubungi Anda melalui {{.Phone}}.</p>
  <p><strong>Nomor referensi: {{.ID}}</strong></p>
  {{if .ProductInterest}}<p>Produk yang diminati: {{.ProductInterest}}</p>{{end}}
  <p>Pesan Anda:</p>
  <p>{{.Message}}</p>
  <p>Salam,<br/>Tim Penjualan</p>
</body>
</html>`

var (
	inquiryNotificationTmpl = template.Must(template.New("inquiry_notification").Parse(inquiryNotificationTemplate))
	inquiryConfirmationTmpl = template.Must(template.New("inquiry_confirmation").Parse(inquiryConfirmationTemplate))
)

var ErrNoSalesRecipient = errors.New("sales notification email not configured")

func (c *BrevoClient) SendInquiryNotification(ctx context.Context, inquiry inquiries.Inquiry) (string, error) {
	if c == nil {
		return "", ErrNilClient
	}
	if c.salesEmail == "" {
		return "", ErrNoSalesRecipient
	}
	html, err := render(inquiryNotificationTmpl, inquiry)
	if err != nil {
		return "", err
	}
	msg := email{
		To:      brevoContact{Email: c.salesEmail},
		Subject: fmt.Sprintf("Permintaan baru: %s", inquiry.Name),
		HTML:    html,
		Tag:     "inquiry-notification",
	}
	// Sales can answer the visitor straight from their mail client.
	if inquiry.Email != "" {
		msg.ReplyTo = &brevoContact{Email: inquiry.Email, Name: inquiry.Name}
	}
	return c.send(ctx, msg)
}

func (c *BrevoClient) SendInquiryConfirmation(ctx context.Context, inquiry inquiries.Inquiry) (string, error) {
	if c == nil {
		return "", ErrNilClient
	}
	html, err := render(inquiryConfirmationTmpl, inquiry)
	if err != nil {
		return "", err
	}
	return c.send(ctx, email{
		To:      brevoContact{Email: inquiry.Email, Name: inquiry.Name},
		Subject: "Permintaan Anda sudah kami terima",
		HTML:    html,
		Tag:     "inquiry-confirmation",
	})
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
