package notifications

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strconv"
	texttemplate "text/template"
	"time"
)

const approvedHTML = `<h2>Payment approved</h2>
<p>Hi {{.CustomerName}},</p>
<p>Your payment for booking <strong>{{.BookingNumber}}</strong> has been approved. See you on the field!</p>
<table>
<tr><td>Field</td><td>{{.FieldName}}{{if .VenueName}} ({{.VenueName}}){{end}}</td></tr>
<tr><td>Date</td><td>{{date .StartTime}}</td></tr>
<tr><td>Time</td><td>{{clock .StartTime}} - {{clock .EndTime}}</td></tr>
<tr><td>Total</td><td>{{rupiah .TotalPrice}}</td></tr>
</table>
{{if .Note}}<p>Note from the venue: {{.Note}}</p>{{end}}`

const approvedText = `Hi {{.CustomerName}},

Your payment for booking {{.BookingNumber}} has been approved.

Field: {{.FieldName}}{{if .VenueName}} ({{.VenueName}}){{end}}
Date:  {{date .StartTime}}
Time:  {{clock .StartTime}} - {{clock .EndTime}}
Total: {{rupiah .TotalPrice}}
{{if .Note}}
Note from the venue: {{.Note}}
{{end}}`

const rejectedHTML = `<h2>Payment rejected</h2>
<p>Hi {{.CustomerName}},</p>
<p>We could not verify the payment for booking <strong>{{.BookingNumber}}</strong>, so the booking has been cancelled.</p>
<p>{{.FieldName}}, {{date .StartTime}} {{clock .StartTime}} - {{clock .EndTime}}</p>
{{if .Note}}<p>Reason: {{.Note}}</p>{{end}}
<p>Please make a new booking or contact the venue if you think this is a mistake.</p>`

const rejectedText = `Hi {{.CustomerName}},

We could not verify the payment for booking {{.BookingNumber}}, so the booking has been cancelled.

{{.FieldName}}, {{date .StartTime}} {{clock .StartTime}} - {{clock .EndTime}}
{{if .Note}}Reason: {{.Note}}
{{end}}
Please make a new booking or contact the venue if you think this is a mistake.`

var templateFuncs = map[string]interface{}{
	"date":   func(t time.Time) string { return t.Format("Monday, 02 January 2006") },
	"clock":  func(t time.Time) string { return t.Format("15:04") },
	"rupiah": formatRupiah,
}

type emailTemplates struct {
	html map[NotificationType]*htmltemplate.Template
	text map[NotificationType]*texttemplate.Template
}

func loadTemplates() *emailTemplates {
	t := &emailTemplates{
		html: map[NotificationType]*htmltemplate.Template{},
		text: map[NotificationType]*texttemplate.Template{},
	}
	t.add(NotificationTypePaymentApproved, approvedHTML, approvedText)
	t.add(NotificationTypePaymentRejected, rejectedHTML, rejectedText)
	return t
}

func (t *emailTemplates) add(kind NotificationType, html, text string) {
	name := string(kind)
	t.html[kind] = htmltemplate.Must(htmltemplate.New(name).Funcs(templateFuncs).Parse(html))
	t.text[kind] = texttemplate.Must(texttemplate.New(name).Funcs(templateFuncs).Parse(text))
}

// render returns the HTML and plain-text bodies for n
func (t *emailTemplates) render(n *EmailNotification) (string, string, error) {
	html, ok := t.html[n.Type]
	if !ok {
		return "", "", fmt.Errorf("no template for notification type %s", n.Type)
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := html.Execute(&htmlBuf, n.Payment); err != nil {
		return "", "", fmt.Errorf("failed to render html body: %w", err)
	}
	if err := t.text[n.Type].Execute(&textBuf, n.Payment); err != nil {
		return "", "", fmt.Errorf("failed to render text body: %w", err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}

// formatRupiah renders 1500000 as "Rp 1.500.000"
func formatRupiah(amount int64) string {
	sign := ""
	if amount < 0 {
		sign, amount = "-", -amount
	}
	digits := strconv.FormatInt(amount, 10)

	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}
	return sign + "Rp " + string(out)
}
