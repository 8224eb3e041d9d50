package notifier

import (
	"fmt"

	"github.com/asaskevich/EventBus"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
	"github.com/talentsync/job-ingest/internal/events"
	"github.com/talentsync/job-ingest/internal/logger"
)

// Telegram pushes newly discovered postings and run results to a single chat.
// Send errors are logged and dropped so a Telegram outage never affects
// ingestion.
type Telegram struct {
	api    *botApi.BotAPI
	bus    EventBus.Bus
	chatID int64
}

func NewTelegram(token string, chatID int64, bus EventBus.Bus) (*Telegram, error) {

	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("authorized on account %s", api.Self.UserName)

	if err = botApi.SetLogger(log.StandardLogger()); err != nil {
		return nil, err
	}

	notifier := &Telegram{api: api, bus: bus, chatID: chatID}

	if err = bus.Subscribe(events.JobDiscoveredTopic, notifier.onJobDiscovered); err != nil {
		return nil, err
	}
	if err = bus.Subscribe(events.RunCompletedTopic, notifier.onRunCompleted); err != nil {
		return nil, err
	}
	return notifier, nil
}

func (t *Telegram) Stop() {
	_ = t.bus.Unsubscribe(events.JobDiscoveredTopic, t.onJobDiscovered)
	_ = t.bus.Unsubscribe(events.RunCompletedTopic, t.onRunCompleted)
}

func (t *Telegram) onJobDiscovered(event events.JobDiscovered) {
	text := fmt.Sprintf("New job: %v at %v", event.Job.Title, event.Job.Company)
	if event.Job.URL != "" {
		text += "\n" + event.Job.URL
	}
	t.send(text)
}

func (t *Telegram) onRunCompleted(event events.RunCompleted) {
	t.send(fmt.Sprintf("%v ingestion run finished: inserted %v, updated %v, skipped %v, failed %v",
		event.Strategy, event.Inserted, event.Updated, event.Skipped, event.Failed))
}

func (t *Telegram) send(text string) {
	msg := botApi.NewMessage(t.chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).
			Errorf("error occured while sending message: %v", err)
	}
}
