package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/2eliot/Inefablestore/models"
)

// Broadcaster pushes a realtime event to connected admin sockets.
type Broadcaster interface {
	Broadcast(event string, payload interface{})
}

// NotifyService implements Notifier: each event is saved as an in-app
// notification, broadcast to the admin websocket hub, and (for events the
// admin must act on) emailed. All delivery runs in detached goroutines so
// the triggering request never waits on it.
type NotifyService struct {
	notifications *mongo.Collection
	mailer        *Mailer
	settings      *SettingsService
	hub           Broadcaster
}

func NewNotifyService(notifications *mongo.Collection, mailer *Mailer, settings *SettingsService, hub Broadcaster) *NotifyService {
	return &NotifyService{
		notifications: notifications,
		mailer:        mailer,
		settings:      settings,
		hub:           hub,
	}
}

func (n *NotifyService) OrderCreated(order *models.Order) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		title := "New order received"
		message := fmt.Sprintf("Order %s via %s for %s %.2f", order.ID.Hex(), order.Method, order.Currency, order.Amount)
		n.save(ctx, models.AudienceAdmin, title, message, "order_created", order)
		n.hub.Broadcast("order_created", order)

		adminEmail := n.settings.AdminNotifyEmail(ctx)
		body := fmt.Sprintf(
			"<h3>New order</h3><p>Order <b>%s</b><br>Method: %s<br>Amount: %s %.2f<br>Reference: %s<br>Buyer: %s (%s)</p>",
			order.ID.Hex(), order.Method, order.Currency, order.Amount, order.Reference, order.Name, order.Email,
		)
		if err := n.mailer.Send(adminEmail, title, body); err != nil {
			log.Printf("Order notification email failed: %v", err)
		}
	}()
}

func (n *NotifyService) OrderDecided(order *models.Order) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		title := fmt.Sprintf("Order %s", order.Status)
		message := fmt.Sprintf("Order %s was %s", order.ID.Hex(), order.Status)
		if order.AffiliateID != nil {
			n.save(ctx, order.AffiliateID.Hex(), title, message, "order_decided", order)
		}
		n.hub.Broadcast("order_decided", order)

		if order.Email != "" {
			body := fmt.Sprintf("<h3>Your order was %s</h3><p>Order <b>%s</b></p>", order.Status, order.ID.Hex())
			if order.Status == models.OrderStatusApproved {
				codes := order.DeliveryCodes
				if len(codes) == 0 && order.DeliveryCode != "" {
					codes = []string{order.DeliveryCode}
				}
				for _, code := range codes {
					body += fmt.Sprintf("<p>Delivery code: <b>%s</b></p>", code)
				}
			}
			if err := n.mailer.Send(order.Email, title, body); err != nil {
				log.Printf("Order decision email failed: %v", err)
			}
		}
	}()
}

func (n *NotifyService) WithdrawalRequested(withdrawal *models.Withdrawal) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		title := "New withdrawal request"
		message := fmt.Sprintf("Withdrawal %s for $%.2f via %s", withdrawal.ID.Hex(), withdrawal.Amount, withdrawal.Method)
		n.save(ctx, models.AudienceAdmin, title, message, "withdrawal_requested", withdrawal)
		n.hub.Broadcast("withdrawal_requested", withdrawal)

		adminEmail := n.settings.AdminNotifyEmail(ctx)
		body := fmt.Sprintf(
			"<h3>Withdrawal request</h3><p>Request <b>%s</b><br>Amount: $%.2f<br>Method: %s</p>",
			withdrawal.ID.Hex(), withdrawal.Amount, withdrawal.Method,
		)
		if err := n.mailer.Send(adminEmail, title, body); err != nil {
			log.Printf("Withdrawal notification email failed: %v", err)
		}
	}()
}

func (n *NotifyService) WithdrawalDecided(withdrawal *models.Withdrawal) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		title := fmt.Sprintf("Withdrawal %s", withdrawal.Status)
		message := fmt.Sprintf("Withdrawal %s for $%.2f was %s", withdrawal.ID.Hex(), withdrawal.Amount, withdrawal.Status)
		n.save(ctx, withdrawal.AffiliateID.Hex(), title, message, "withdrawal_decided", withdrawal)
		n.hub.Broadcast("withdrawal_decided", withdrawal)
	}()
}

func (n *NotifyService) save(ctx context.Context, audience, title, message, notifType string, data interface{}) {
	notification := models.Notification{
		Audience:  audience,
		Title:     title,
		Message:   message,
		Type:      notifType,
		Data:      data,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if _, err := n.notifications.InsertOne(ctx, notification); err != nil {
		log.Printf("Error saving notification: %v", err)
	}
}
