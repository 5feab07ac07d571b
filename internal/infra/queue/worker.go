package queue

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
)

// MessengerClient é o contrato com o provedor de mensagens (WhatsApp Cloud API)
type MessengerClient interface {
	SendText(phone, message string) error
	SendMedia(phone, mediaURL, mediaType, caption string) error
	IsConfigured() bool
}

// Worker consome a fila de notificações e entrega via provedor.
// Totalmente desacoplado do banco: o que chega aqui já foi commitado.
type Worker struct {
	Channel   *amqp.Channel
	Messenger MessengerClient
}

func NewWorker(ch *amqp.Channel, messenger MessengerClient) *Worker {
	return &Worker{
		Channel:   ch,
		Messenger: messenger,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload NotificationPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] JSON Inválido: %s", err)
				// Mensagem podre (malformada). Rejeita sem requeue para não travar a fila.
				d.Nack(false, false)
				continue
			}

			log.Printf("⚙️ [WORKER] Notificação %s para %s", payload.Kind, payload.PhoneNumber)

			if err := w.processMessage(payload); err != nil {
				log.Printf("❌ [WORKER] Erro no envio: %s", err)
				d.Nack(false, false) // vai pra DLQ
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	<-forever
}

func (w *Worker) processMessage(payload NotificationPayload) error {
	if !w.Messenger.IsConfigured() {
		// Sem Cloud API configurada a entrega fica por conta dos links wa.me
		// gerados na execução da campanha. Ack pra não acumular fila.
		log.Printf("⚠️ [WORKER] Provedor não configurado, descartando notificação %s", payload.Kind)
		return nil
	}

	var err error
	if payload.MediaURL != "" {
		err = w.Messenger.SendMedia(payload.PhoneNumber, payload.MediaURL, payload.MediaType, payload.Message)
	} else {
		err = w.Messenger.SendText(payload.PhoneNumber, payload.Message)
	}
	if err != nil {
		middleware.RecordIntegrationError("whatsapp")
	}
	return err
}
