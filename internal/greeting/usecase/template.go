package usecase

import (
	"html/template"
	"strings"
)

const birthdayTemplate = `<html>
<body style="font-family: sans-serif;">
  <p>Happy birthday, {{.Name}}! 🎂</p>
  <p>Wishing you a wonderful day and a great year ahead.</p>
  <p>— {{.Sender}}</p>
</body>
</html>`

var birthdayTmpl = template.Must(template.New("birthday").Parse(birthdayTemplate))

type birthdayTemplateData struct {
	Name   string
	Sender string
}

func (s *Usecase) renderBirthdayEmail(name string) (subject, body string, err error) {
	sender := s.cfg.GetString("modules.greeting.sender_name")
	if sender == "" {
		sender = "Wishbox"
	}

	var sb strings.Builder
	err = birthdayTmpl.Execute(&sb, birthdayTemplateData{Name: name, Sender: sender})
	if err != nil {
		return "", "", err
	}

	return "Happy Birthday, " + name + "!", sb.String(), nil
}
