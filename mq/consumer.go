package mq

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"notemart-api/pkg/events"
	"notemart-api/pkg/notify"
	"notemart-api/repository"
)

// Consumer drains the engagement and campaign queues into the notifications
// table and pushes realtime copies over websocket.
type Consumer struct {
	notifications *repository.NotificationsRepository
	campaigns     *repository.CampaignsRepository
	rabbit        *RabbitMQ
	notifier      notify.Notifier
}

func NewConsumer(
	notifications *repository.NotificationsRepository,
	campaigns *repository.CampaignsRepository,
	rabbit *RabbitMQ,
	notifier notify.Notifier,
) *Consumer {
	return &Consumer{
		notifications: notifications,
		campaigns:     campaigns,
		rabbit:        rabbit,
		notifier:      notifier,
	}
}

// Start launches one goroutine per queue plus the scheduler loop that
// enqueues due campaigns. Without a broker nothing is started; campaign
// sends then degrade to synchronous delivery in the handler.
func (c *Consumer) Start() {
	if c.rabbit == nil {
		return
	}
	go c.consumeEngagement()
	go c.consumeCampaigns()
	go c.scheduleDueCampaigns()
}

func (c *Consumer) consumeEngagement() {
	msgs, err := c.rabbit.Consume(EngagementQueue)
	if err != nil {
		slog.Error("failed to start engagement consumer", "err", err)
		return
	}

	for d := range msgs {
		var ev events.Engagement
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			slog.Error("bad engagement message", "err", err)
			continue
		}
		// Self-engagement produces no notification.
		if ev.ActorID == ev.OwnerID {
			continue
		}
		if err := c.notifications.Create(ev.OwnerID, ev.Type, d.Body, false); err != nil {
			slog.Error("failed to store notification", "err", err, "type", ev.Type)
			continue
		}
		if c.notifier != nil {
			c.notifier.NotifyUser(ev.OwnerID, ev)
		}
	}
}

func (c *Consumer) consumeCampaigns() {
	msgs, err := c.rabbit.Consume(CampaignQueue)
	if err != nil {
		slog.Error("failed to start campaign consumer", "err", err)
		return
	}

	for d := range msgs {
		var ev events.CampaignSend
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			slog.Error("bad campaign message", "err", err)
			continue
		}
		if err := c.Fanout(ev.CampaignID); err != nil {
			slog.Error("campaign fanout failed", "err", err, "campaign", ev.CampaignID)
		}
	}
}

// Fanout delivers one campaign to every user in its audience and records the
// sent count. Exported so the send handler can fall back to synchronous
// delivery when the broker is unavailable.
func (c *Consumer) Fanout(campaignID int) error {
	campaign, err := c.campaigns.GetByID(campaignID)
	if err != nil {
		return err
	}
	if campaign == nil {
		return fmt.Errorf("campaign %d not found", campaignID)
	}
	if campaign.SentAt != nil {
		// Already delivered; a redelivered queue message must not double-send.
		return nil
	}

	userIDs, err := c.campaigns.AudienceUserIDs(campaign.Audience)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]interface{}{
		"campaignId": campaign.ID,
		"title":      campaign.Title,
		"message":    campaign.Message,
	})
	if err != nil {
		return err
	}

	sent := 0
	for _, uid := range userIDs {
		if err := c.notifications.Create(uid, "campaign", payload, true); err != nil {
			slog.Error("campaign notification insert failed", "err", err, "user", uid)
			continue
		}
		if c.notifier != nil {
			c.notifier.NotifyUser(uid, json.RawMessage(payload))
		}
		sent++
	}

	if err := c.campaigns.MarkSent(campaign.ID, sent); err != nil {
		return err
	}
	slog.Info("campaign sent", "campaign", campaign.ID, "recipients", sent)
	return nil
}

// scheduleDueCampaigns polls for scheduled campaigns whose time has come and
// enqueues them for fanout.
func (c *Consumer) scheduleDueCampaigns() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		due, err := c.campaigns.ListDue(time.Now())
		if err != nil {
			slog.Error("due campaign scan failed", "err", err)
			continue
		}
		for _, campaign := range due {
			body, err := json.Marshal(events.CampaignSend{CampaignID: campaign.ID})
			if err != nil {
				continue
			}
			if err := c.rabbit.Publish(CampaignQueue, body); err != nil {
				slog.Error("failed to enqueue due campaign", "err", err, "campaign", campaign.ID)
			}
		}
	}
}
