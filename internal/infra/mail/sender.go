package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/andrevc1/leadsync/internal/infra/queue"
)

var alertTemplate = template.Must(template.New("alert").Parse(`
<p>Olá {{.UserName}},</p>
<p>Você recebeu um novo lead na campanha <b>{{.CampaignID}}</b>:</p>
<ul>
  <li>Nome: {{.Name}}</li>
  <li>Email: {{.Email}}</li>
  <li>Telefone: {{.Phone}}</li>
</ul>
<p>Capturado via {{.Source}} em {{.CreatedTime}}.</p>
`))

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func NewEmailSender(host string, port int, user, password string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     "no-reply@leadsync.app",
	}
}

func (s *EmailSender) SendNewLeadAlert(to, userName string, lead queue.NewLeadPayload) error {
	data := struct {
		UserName string
		queue.NewLeadPayload
	}{UserName: userName, NewLeadPayload: lead}

	var body bytes.Buffer
	if err := alertTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("render alert template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Novo lead: %s", lead.Name))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
