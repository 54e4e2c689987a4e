package inquiries

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrInvalidSource = errors.New("invalid source")
	ErrInvalidStatus = errors.New("invalid status")
	ErrNotFound      = errors.New("inquiry not found")
)

type Notifier interface {
	SendInquiryNotification(ctx context.Context, inquiry Inquiry) (string, error)
	SendInquiryConfirmation(ctx context.Context, inquiry Inquiry) (string, error)
}

type Service struct {
	repo     Repository
	location *time.Location
	notifier Notifier
	now      func() time.Time
}

func NewService(repo Repository, location *time.Location, notifier Notifier) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		repo:     repo,
		location: location,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Inquiry, error) {
	source := strings.ToLower(strings.TrimSpace(req.Source))
	if source == "" {
		source = SourceWebsite
	}
	if !IsValidSource(source) {
		return Inquiry{}, ErrInvalidSource
	}

	now := s.now().In(s.location)
	inquiry := Inquiry{
		ID:              primitive.NewObjectID().Hex(),
		Name:            strings.TrimSpace(req.Name),
		Company:         strings.TrimSpace(req.Company),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:           strings.TrimSpace(req.Phone),
		ProductInterest: strings.TrimSpace(req.ProductInterest),
		Message:         strings.TrimSpace(req.Message),
		Status:          StatusNew,
		Source:          source,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, inquiry); err != nil {
		return Inquiry{}, err
	}
	return inquiry, nil
}

func (s *Service) ListAdmin(ctx context.Context, filter ListFilter, limit, offset int64) ([]Inquiry, int64, error) {
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	filter.Source = strings.ToLower(strings.TrimSpace(filter.Source))

	if filter.Status != "" && !IsValidStatus(filter.Status) {
		return nil, 0, ErrInvalidStatus
	}
	if filter.Source != "" && !IsValidSource(filter.Source) {
		return nil, 0, ErrInvalidSource
	}

	items, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) GetAdminByID(ctx context.Context, id string) (Inquiry, error) {
	item, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Inquiry{}, ErrNotFound
		}
		return Inquiry{}, err
	}
	return item, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) (Inquiry, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !IsValidStatus(status) {
		return Inquiry{}, ErrInvalidStatus
	}

	updated, err := s.repo.UpdateStatus(ctx, strings.TrimSpace(id), status, s.now().In(s.location))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Inquiry{}, ErrNotFound
		}
		return Inquiry{}, err
	}
	return updated, nil
}

// NotifySales e-mails the sales inbox about a new inquiry. Without a
// configured notifier it does nothing.
func (s *Service) NotifySales(ctx context.Context, inquiry Inquiry) error {
	if s.notifier == nil {
		return nil
	}
	_, err := s.notifier.SendInquiryNotification(ctx, inquiry)
	return err
}

// NotifyVisitor sends the visitor a receipt when they left an e-mail address.
func (s *Service) NotifyVisitor(ctx context.Context, inquiry Inquiry) error {
	if s.notifier == nil || inquiry.Email == "" {
		return nil
	}
	_, err := s.notifier.SendInquiryConfirmation(ctx, inquiry)
	return err
}
