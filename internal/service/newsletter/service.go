package newsletter

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/whatisthe411/the411/backend/internal/logging"
)

const (
	invalidEmailText  = "Please enter a valid email address"
	unavailableText   = "Newsletter signup is currently unavailable"
	providerErrorText = "Something went wrong, please try again later"
)

var (
	ErrInvalidEmail       = goerr.New(invalidEmailText)
	ErrSubmissionNotFound = goerr.New("submission not found")
)

// Submission tracks one subscription attempt.
type Submission struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Status    Status    `json:"status"`
	Code      string    `json:"code,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate trims email and checks it is non-empty and contains "@".
func Validate(email string) (string, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" || !strings.Contains(trimmed, "@") {
		return "", ErrInvalidEmail
	}
	return trimmed, nil
}

// Service validates addresses, delegates to the provider and keeps the
// outcome of every attempt in memory.
type Service struct {
	provider Provider

	mu          sync.RWMutex
	submissions map[string]Submission
}

// NewService creates a Service. A nil provider means signup is disabled and
// every valid submission ends in StatusError.
func NewService(provider Provider) *Service {
	return &Service{
		provider:    provider,
		submissions: make(map[string]Submission),
	}
}

// Submit validates email and, if valid, hands it to the provider. Provider
// failures are reported through the submission status, not the error.
func (s *Service) Submit(ctx context.Context, email string) (Submission, error) {
	address, err := Validate(email)
	if err != nil {
		return Submission{}, err
	}

	now := time.Now().UTC()
	sub := Submission{
		ID:        uuid.NewString(),
		Email:     address,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.save(sub)

	logger := logging.From(ctx).With("submission", sub.ID)

	if s.provider == nil {
		sub.Status = StatusError
		sub.Message = unavailableText
		logger.Warn("newsletter provider not configured")
		return s.finish(sub), nil
	}

	result, err := s.provider.Subscribe(ctx, Form{EMAIL: address})
	if err != nil {
		sub.Status = StatusError
		sub.Message = providerErrorText
		logger.Error("newsletter provider call failed", "error", err)
		return s.finish(sub), nil
	}

	msg := ParseMessage(result.Message)
	sub.Status = result.Status
	sub.Code = msg.Code
	sub.Message = msg.Display()
	if sub.Status != StatusSuccess {
		sub.Status = StatusError
		logger.Info("newsletter provider reported error", "code", msg.Code)
	}
	return s.finish(sub), nil
}

// Get returns a stored submission.
func (s *Service) Get(_ context.Context, id string) (Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[id]
	if !ok {
		return Submission{}, goerr.Wrap(ErrSubmissionNotFound, "get submission", goerr.V("id", id))
	}
	return sub, nil
}

func (s *Service) finish(sub Submission) Submission {
	sub.UpdatedAt = time.Now().UTC()
	s.save(sub)
	return sub
}

func (s *Service) save(sub Submission) {
	s.mu.Lock()
	s.submissions[sub.ID] = sub
	s.mu.Unlock()
}
