package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"
)

const campaignReportTmpl = `
<h2>Campanha finalizada: {{.CampaignName}}</h2>
<p>Destinatários: {{.TotalRecipients}}</p>
<p>Enviadas: {{.SentCount}}</p>
<p>Falhas: {{.FailedCount}}</p>
`

func NewEmailSender(host string, port int, user, password string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
	}
}

// SendCampaignReport manda o resumo da execução pro inbox da agência.
// Best-effort: quem chama loga a falha e segue em frente.
func (s *EmailSender) SendCampaignReport(to, campaignName string, total, sent, failed int) error {
	data := CampaignReportData{
		CampaignName:    campaignName,
		TotalRecipients: total,
		SentCount:       sent,
		FailedCount:     failed,
	}

	t, err := template.New("campaign_report").Parse(campaignReportTmpl)
	if err != nil {
		return fmt.Errorf("erro ao montar template de email: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", "nao-responda@liguecrm.com")
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Campanha '%s' finalizada 🚀", campaignName))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
