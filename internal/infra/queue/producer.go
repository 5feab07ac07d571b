package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Origens da notificação
const (
	KindAutoResponder = "auto_responder"
	KindCampaign      = "campaign"
	KindReviewRequest = "review_request"
)

// NotificationPayload é a mensagem que o worker consome e manda pro WhatsApp.
// Publicada DEPOIS do commit no banco: falha aqui nunca desfaz a escrita.
type NotificationPayload struct {
	Kind        string `json:"kind"` // auto_responder, campaign, review_request
	LeadRef     int64  `json:"lead_ref,omitempty"`
	LeadID      string `json:"lead_id,omitempty"`
	CampaignID  int64  `json:"campaign_id,omitempty"`
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
	MediaURL    string `json:"media_url,omitempty"`
	MediaType   string `json:"media_type,omitempty"` // image, video, document
	LeadName    string `json:"lead_name,omitempty"`
}

type NotificationProducerInterface interface {
	PublishNotification(ctx context.Context, payload NotificationPayload) error
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishNotification(ctx context.Context, payload NotificationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName, // ex.crm
		RoutingKey,   // k.notification
		false,        // Mandatory
		false,        // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Mensagem salva no disco
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %v", err)
	}

	return nil
}
