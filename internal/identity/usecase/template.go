package usecase

import (
	"html/template"
	"strings"
	"time"

	"github.com/wishbox/wishbox/internal/identity/entity"
)

const passcodeTemplate = `<html>
<body style="font-family: sans-serif;">
  <p>Hi {{.Name}},</p>
  <p>{{.Intro}}</p>
  <p style="font-size: 28px; letter-spacing: 4px;"><strong>{{.Code}}</strong></p>
  <p>The code expires in {{.ExpiresIn}}. If you did not request it, you can ignore this email.</p>
  <p>— Wishbox</p>
</body>
</html>`

var passcodeTmpl = template.Must(template.New("passcode").Parse(passcodeTemplate))

type passcodeTemplateData struct {
	Name      string
	Intro     string
	Code      string
	ExpiresIn string
}

func (s *Usecase) renderPasscodeEmail(name string, purpose entity.OTPPurpose, code string, ttl time.Duration) (subject, body string, err error) {
	subject = "Your Wishbox sign-in code"
	intro := "Use this code to sign in to Wishbox:"
	if purpose == entity.OTPPurposeSignup {
		subject = "Confirm your Wishbox account"
		intro = "Use this code to confirm your new Wishbox account:"
	}

	var sb strings.Builder
	err = passcodeTmpl.Execute(&sb, passcodeTemplateData{
		Name:      name,
		Intro:     intro,
		Code:      code,
		ExpiresIn: ttl.String(),
	})
	if err != nil {
		return "", "", err
	}

	return subject, sb.String(), nil
}
