package usecase

import (
	"bytes"
	"fmt"
	"html/template"
)

// resetCodeHTML renders the reset-code email body.
var resetCodeHTML = template.Must(template.New("reset_code").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; background: #f5f5f5;">
  <div style="max-width: 600px; margin: 0 auto; background: white; padding: 30px; border-radius: 10px;">
    <h2 style="color: #0D47A1;">Password Reset Code</h2>
    <p style="font-size: 16px; color: #666;">Use the code below to reset your password:</p>
    <div style="background: #E3F2FD; padding: 20px; text-align: center; border-radius: 8px; margin: 20px 0;">
      <h1 style="color: #0D47A1; font-size: 36px; margin: 0; letter-spacing: 8px;">{{.Code}}</h1>
    </div>
    <p style="color: #999; font-size: 14px;">This code will expire in {{.TTLMinutes}} minutes.</p>
    <p style="color: #999; font-size: 14px;">If you did not request this, please ignore this email.</p>
  </div>
</div>
`))

type resetCodeTemplateData struct {
	Code       string
	TTLMinutes int64
}

func renderResetCodeEmail(data resetCodeTemplateData) (html, text string, err error) {
	var buf bytes.Buffer
	if err := resetCodeHTML.Execute(&buf, data); err != nil {
		return "", "", err
	}

	text = fmt.Sprintf(
		"Use the code %s to reset your password. It expires in %d minutes. If you did not request this, please ignore this email.",
		data.Code, data.TTLMinutes,
	)

	return buf.String(), text, nil
}
