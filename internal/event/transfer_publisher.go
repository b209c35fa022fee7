package event

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"riskpool-service/internal/ledger"
)

// TransferQueue carries transfer requests to the host ledger's custody
// executor.
const TransferQueue = "ledger_transfer_requests"

// TransferPublisher implements ledger.TransferPort by publishing each
// transfer request to RabbitMQ. Requests are fire-and-forget: publish
// failures are logged, never surfaced, because the state machine has already
// committed the operation that emitted the request.
type TransferPublisher struct {
	conn              *RabbitMQConnection
	messagesPublished int64
	messagesFailed    int64
	lastPublishTime   time.Time
}

// NewTransferPublisher creates a new transfer request publisher
func NewTransferPublisher(conn *RabbitMQConnection) *TransferPublisher {
	return &TransferPublisher{
		conn:            conn,
		lastPublishTime: time.Now(),
	}
}

func (p *TransferPublisher) Request(ctx context.Context, req ledger.TransferRequest) {
	// Ensure the queue exists
	_, err := p.conn.Channel.QueueDeclare(
		TransferQueue, // queue name
		true,          // durable
		false,         // delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		p.messagesFailed++
		slog.Error("Failed to declare transfer queue", "error", err, "transfer_id", req.ID)
		return
	}

	body, err := json.Marshal(req)
	if err != nil {
		p.messagesFailed++
		slog.Error("Failed to marshal transfer request", "error", err, "transfer_id", req.ID)
		return
	}

	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",            // exchange
		TransferQueue, // routing key (queue name)
		false,         // mandatory
		false,         // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		p.messagesFailed++
		slog.Error("Failed to publish transfer request", "error", err, "transfer_id", req.ID)
		return
	}

	p.messagesPublished++
	p.lastPublishTime = time.Now()

	slog.Info("Transfer request published",
		"queue", TransferQueue,
		"transfer_id", req.ID,
		"amount", req.Amount,
		"from", req.From,
		"to", req.To,
	)
}
