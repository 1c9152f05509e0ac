package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kakunuriMahesh/doctor-appointments/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}
	logger.DebugContext(ctx, "publishing event", "subject", subject, "bytes", len(payload))
	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{Subject: msg.Subject, Data: msg.Data, Timestamp: time.Now()})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{Subject: msg.Subject, Data: msg.Data, Timestamp: time.Now()})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Subjects
const (
	AppointmentBooked  = "appointment.booked"
	AppointmentExpired = "appointment.expired"
	AppointmentDeleted = "appointment.deleted"
	CouponCreated      = "coupon.created"
)

type AppointmentBookedEvent struct {
	AppointmentID   int64     `json:"appointment_id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	AppointmentDate string    `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	Price           float64   `json:"price"`
	MeetingLink     string    `json:"meeting_link"`
	RebookingCode   string    `json:"rebooking_code,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type AppointmentExpiredEvent struct {
	Count    int64     `json:"count"`
	SweptAt  time.Time `json:"swept_at"`
	DoctorID string    `json:"doctor_id"`
}

type AppointmentDeletedEvent struct {
	IDs       []int64   `json:"ids"`
	DeletedAt time.Time `json:"deleted_at"`
}

type CouponCreatedEvent struct {
	Code               string    `json:"code"`
	DiscountPercentage float64   `json:"discount_percentage"`
	ValidUntil         time.Time `json:"valid_until"`
}
