package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/repository"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/metrics"
	apperrors "github.com/199-biotechnologies/continuum-clinic-sub000/internal/pkg/errors"
)

// OnboardingStepMarker отмечает этап онбординга. Реализуется OnboardingService.
type OnboardingStepMarker interface {
	UpdateStep(ctx context.Context, clientID, petID string, step entity.OnboardingStep, completed bool) (*entity.OnboardingStatus, error)
	UpdateStepForClient(ctx context.Context, clientID string, step entity.OnboardingStep, completed bool) error
}

// AcceptConsentInput - данные для принятия документа
type AcceptConsentInput struct {
	ClientID        string
	PetID           string
	DocumentID      string
	SignatureMethod string
	SignatureValue  string
	IPAddress       string
	UserAgent       string
}

// RevokeConsentInput - данные для отзыва согласия
type RevokeConsentInput struct {
	ClientID   string
	PetID      string
	DocumentID string
	IPAddress  string
	UserAgent  string
}

// ConsentService ведёт журнал согласий
type ConsentService struct {
	consents   repository.ConsentRepository
	pets       repository.PetRepository
	onboarding OnboardingStepMarker
	documents  []entity.ConsentDocument
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewConsentService создает сервис согласий. onboarding может быть nil.
func NewConsentService(
	consents repository.ConsentRepository,
	pets repository.PetRepository,
	onboarding OnboardingStepMarker,
	m *metrics.Metrics,
) *ConsentService {
	return &ConsentService{
		consents:   consents,
		pets:       pets,
		onboarding: onboarding,
		documents:  ConsentDocuments,
		metrics:    m,
		now:        time.Now,
	}
}

// Documents возвращает все документы
func (s *ConsentService) Documents() []entity.ConsentDocument {
	return s.documents
}

// Document возвращает документ по id
func (s *ConsentService) Document(id string) (*entity.ConsentDocument, error) {
	for i := range s.documents {
		if s.documents[i].ID == id {
			doc := s.documents[i]
			return &doc, nil
		}
	}
	return nil, fmt.Errorf("%w: consent document %s", apperrors.ErrNotFound, id)
}

// checkPetScope проверяет, что питомец принадлежит клиенту
func (s *ConsentService) checkPetScope(ctx context.Context, clientID, petID string) error {
	if petID == "" {
		return nil
	}
	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return err
	}
	if pet.ClientID != clientID {
		return fmt.Errorf("%w: pet %s does not belong to client", apperrors.ErrForbidden, petID)
	}
	return nil
}

// Accept добавляет запись о принятии текущей версии документа.
// Повторное принятие разрешено и добавляет новую запись в историю.
func (s *ConsentService) Accept(ctx context.Context, in AcceptConsentInput) (*entity.ConsentAcceptance, error) {
	doc, err := s.Document(in.DocumentID)
	if err != nil {
		return nil, err
	}
	switch in.SignatureMethod {
	case entity.SignatureMethodTyped, entity.SignatureMethodDrawn, entity.SignatureMethodCheckbox:
	default:
		return nil, validationError("signature method must be typed, drawn or checkbox")
	}
	value := strings.TrimSpace(in.SignatureValue)
	if value == "" {
		return nil, validationError("signature is required")
	}
	if strings.EqualFold(value, entity.RevokedSignatureValue) {
		return nil, validationError("signature value is reserved")
	}
	if err := s.checkPetScope(ctx, in.ClientID, in.PetID); err != nil {
		return nil, err
	}

	record, err := s.append(ctx, doc, in.ClientID, in.PetID, in.IPAddress, in.UserAgent,
		entity.ConsentSignature{Method: in.SignatureMethod, Value: value})
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementConsentEvent("accept")
	s.syncOnboarding(ctx, in.ClientID, in.PetID)
	return record, nil
}

// Revoke добавляет запись-отзыв. Старые записи сохраняются.
func (s *ConsentService) Revoke(ctx context.Context, in RevokeConsentInput) (*entity.ConsentAcceptance, error) {
	doc, err := s.Document(in.DocumentID)
	if err != nil {
		return nil, err
	}
	if err := s.checkPetScope(ctx, in.ClientID, in.PetID); err != nil {
		return nil, err
	}

	records, err := s.consents.ListByScope(ctx, in.ClientID, in.PetID)
	if err != nil {
		return nil, err
	}
	if !entity.IsDocumentAccepted(entity.ScopeRecords(records, in.PetID), doc.ID) {
		return nil, fmt.Errorf("%w: document %s is not currently accepted", apperrors.ErrConflict, doc.ID)
	}

	record, err := s.append(ctx, doc, in.ClientID, in.PetID, in.IPAddress, in.UserAgent,
		entity.ConsentSignature{Method: entity.SignatureMethodSystem, Value: entity.RevokedSignatureValue})
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementConsentEvent("revoke")
	s.syncOnboarding(ctx, in.ClientID, in.PetID)
	return record, nil
}

func (s *ConsentService) append(ctx context.Context, doc *entity.ConsentDocument, clientID, petID, ip, ua string, sig entity.ConsentSignature) (*entity.ConsentAcceptance, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate consent id: %w", err)
	}
	now := s.now().UTC()
	sig.Timestamp = now

	record := &entity.ConsentAcceptance{
		ID:              id.String(),
		ClientID:        clientID,
		PetID:           petID,
		DocumentID:      doc.ID,
		DocumentType:    doc.Type,
		DocumentVersion: doc.Version,
		AcceptedAt:      now,
		IPAddress:       ip,
		UserAgent:       ua,
		Signature:       sig,
	}
	if err := s.consents.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save consent record: %w", err)
	}
	return record, nil
}

// Status вычисляет pending = required − accepted для клиента или питомца
func (s *ConsentService) Status(ctx context.Context, clientID, petID string) (*entity.ConsentStatus, error) {
	if err := s.checkPetScope(ctx, clientID, petID); err != nil {
		return nil, err
	}
	records, err := s.consents.ListByScope(ctx, clientID, petID)
	if err != nil {
		return nil, err
	}
	// Индекс клиента содержит и записи питомцев; статус считается только по своей области
	status := entity.ComputeConsentStatus(s.documents, entity.ScopeRecords(records, petID))
	status.ClientID = clientID
	status.PetID = petID
	return status, nil
}

// History возвращает все записи области, новые первыми.
// История клиента включает записи по его питомцам.
func (s *ConsentService) History(ctx context.Context, clientID, petID string) ([]*entity.ConsentAcceptance, error) {
	if err := s.checkPetScope(ctx, clientID, petID); err != nil {
		return nil, err
	}
	records, err := s.consents.ListByScope(ctx, clientID, petID)
	if err != nil {
		return nil, err
	}
	entity.SortAcceptancesNewestFirst(records)
	return records, nil
}

// syncOnboarding отмечает этап consents по итогам нового статуса. Ошибки не прерывают запрос.
func (s *ConsentService) syncOnboarding(ctx context.Context, clientID, petID string) {
	if s.onboarding == nil {
		return
	}
	status, err := s.Status(ctx, clientID, petID)
	if err != nil {
		log.Printf("[ConsentService] failed to recompute status for client %s: %v", clientID, err)
		return
	}

	if petID != "" {
		_, err = s.onboarding.UpdateStep(ctx, clientID, petID, entity.OnboardingStepConsents, status.AllRequiredAccepted)
	} else {
		err = s.onboarding.UpdateStepForClient(ctx, clientID, entity.OnboardingStepConsents, status.AllRequiredAccepted)
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		log.Printf("[ConsentService] failed to update onboarding consents step for client %s: %v", clientID, err)
	}
}
