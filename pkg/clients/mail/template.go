package mail

import (
	"html/template"
	"strings"
	"time"

	"waitlist-api/pkg/clients/llm"
)

// welcomeTmpl is the fixed welcome-email layout. Only the generated copy,
// the app name and the current year vary per send.
var welcomeTmpl = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"></head>
<body style="margin:0;padding:0;background:#f4f4f4;font-family:Arial,sans-serif;">
  <table width="100%" cellpadding="0" cellspacing="0" style="background:#f4f4f4;padding:40px 0;">
    <tr><td align="center">
      <table width="600" cellpadding="0" cellspacing="0"
             style="background:#ffffff;border-radius:8px;padding:40px;max-width:600px;">
        <tr>
          <td>
            <h2 style="font-size:22px;font-weight:600;color:#111;margin:0 0 16px 0;">
              {{.Heading}}
            </h2>
            <p style="font-size:15px;line-height:1.7;color:#444;margin:0 0 28px 0;">
              {{.Body}}
            </p>
            <hr style="border:none;border-top:1px solid #eee;margin:0 0 20px 0;">
            <p style="font-size:12px;color:#999;margin:0 0 8px 0;">
              {{.UnsubscribeNote}}
            </p>
            <p style="font-size:12px;color:#bbb;margin:0;">
              &copy; {{.Year}} {{.AppName}}. All rights reserved.
            </p>
          </td>
        </tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`))

// renderWelcome fills the welcome layout with the generated copy.
// Copy fields that the model omitted render as empty sections.
func renderWelcome(content llm.Content, appName string) (string, error) {
	data := struct {
		llm.Content
		AppName string
		Year    int
	}{
		Content: content,
		AppName: appName,
		Year:    time.Now().UTC().Year(),
	}

	var buf strings.Builder
	if err := welcomeTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
