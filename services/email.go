package services

import (
	"fmt"
	"html"
	"strings"

	"lead-intake/models"
)

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// NewLeadEmailText renders the plain-text body of the owner notification.
func NewLeadEmailText(lead models.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", lead.Name)
	fmt.Fprintf(&b, "Business: %s\n", lead.Business)
	fmt.Fprintf(&b, "Email: %s\n", lead.Email)
	fmt.Fprintf(&b, "Phone: %s\n", orDash(lead.Phone))
	fmt.Fprintf(&b, "Service: %s\n", lead.Service)
	fmt.Fprintf(&b, "Timeframe: %s\n", lead.Timeframe)
	fmt.Fprintf(&b, "Notes: %s\n", orDash(lead.Notes))
	fmt.Fprintf(&b, "Received: %s\n", models.FormatTimestamp(lead.CreatedAt))
	return b.String()
}

// NewLeadEmailHTML renders the HTML body. Every lead value is escaped: it
// comes straight from the public form.
func NewLeadEmailHTML(lead models.Lead) string {
	e := html.EscapeString
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #1565C0; color: white; padding: 20px; text-align: center; border-radius: 5px; }
        .content { background-color: #f9f9f9; padding: 20px; margin-top: 20px; border-radius: 5px; }
        .notes { background-color: #e3f2fd; padding: 15px; margin: 15px 0; border-left: 4px solid #1565C0; white-space: pre-wrap; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h2>New lead</h2></div>
        <div class="content">
            <p><strong>Name:</strong> %s</p>
            <p><strong>Business:</strong> %s</p>
            <p><strong>Email:</strong> %s</p>
            <p><strong>Phone:</strong> %s</p>
            <p><strong>Service:</strong> %s</p>
            <p><strong>Timeframe:</strong> %s</p>
            <div class="notes">%s</div>
            <p><small>Received %s</small></p>
        </div>
    </div>
</body>
</html>`,
		e(lead.Name), e(lead.Business), e(lead.Email), e(orDash(lead.Phone)),
		e(lead.Service), e(lead.Timeframe), e(orDash(lead.Notes)),
		models.FormatTimestamp(lead.CreatedAt))
}
