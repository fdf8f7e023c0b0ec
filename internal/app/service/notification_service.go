package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"userpanel/internal/common"
	"userpanel/internal/domain/model"
	"userpanel/internal/domain/repository"
)

// Sender delivers a notification to a recipient address.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender simulates delivery by writing to the operational log. Real SMTP
// delivery is out of scope; this is the only implementation.
type LogSender struct{}

func (LogSender) Send(_ context.Context, to, subject, _ string) error {
	slog.Info("simulated email sent", "to", to, "subject", subject)
	return nil
}

type NotificationService struct {
	userRepo repository.UserRepository
	sender   Sender
	audit    *AuditService
}

func NewNotificationService(userRepo repository.UserRepository, sender Sender, audit *AuditService) *NotificationService {
	return &NotificationService{userRepo: userRepo, sender: sender, audit: audit}
}

type SendNotificationRequest struct {
	RecipientID int64  `json:"recipient_id"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

type SendNotificationResponse struct {
	Message   string `json:"message"`
	Recipient string `json:"recipient"`
	SenderID  int64  `json:"sender_id"`
}

// Send delivers a (simulated) email to an existing user and audits the
// action against the acting admin.
func (s *NotificationService) Send(ctx context.Context, actor *model.User, req SendNotificationRequest) (*SendNotificationResponse, error) {
	fields := map[string]string{}
	if req.RecipientID <= 0 {
		fields["recipient_id"] = "recipient_id is required"
	}
	if strings.TrimSpace(req.Subject) == "" {
		fields["subject"] = "subject is required"
	}
	if strings.TrimSpace(req.Body) == "" {
		fields["body"] = "body is required"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError(fields)
	}

	recipient, err := s.userRepo.FindByID(ctx, req.RecipientID)
	if err != nil {
		return nil, err
	}

	if err := s.sender.Send(ctx, recipient.Email, req.Subject, req.Body); err != nil {
		return nil, fmt.Errorf("failed to send notification: %w", err)
	}

	s.audit.Record(ctx, model.ActionEmailSent,
		fmt.Sprintf("admin #%d sent an email to user #%d", actor.ID, recipient.ID), &actor.ID)

	return &SendNotificationResponse{
		Message:   "email sent (simulated) successfully",
		Recipient: recipient.Email,
		SenderID:  actor.ID,
	}, nil
}
