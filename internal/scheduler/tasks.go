package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"opportunity_automation/internal/opportunity/automation"
)

const TaskNotificationEmailSend = "notification.email.send"

type NotificationEmailPayload struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

func NewNotificationEmailTask(msg automation.Message) (*asynq.Task, error) {
	data, err := json.Marshal(NotificationEmailPayload{
		To:      msg.To,
		Subject: msg.Subject,
		Body:    msg.Body,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotificationEmailSend, data), nil
}

func ParseNotificationEmailPayload(task *asynq.Task) (NotificationEmailPayload, error) {
	var payload NotificationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return NotificationEmailPayload{}, err
	}
	return payload, nil
}

func (p NotificationEmailPayload) Message() automation.Message {
	return automation.Message{To: p.To, Subject: p.Subject, Body: p.Body}
}
