package entity

import (
	"sort"
	"time"
)

// RevokedSignatureValue - значение подписи, которым помечается отзыв согласия.
// История не удаляется: отзыв - это новая запись поверх предыдущих.
const RevokedSignatureValue = "REVOKED"

// Методы подписи
const (
	SignatureMethodTyped    = "typed"
	SignatureMethodDrawn    = "drawn"
	SignatureMethodCheckbox = "checkbox"
	// SignatureMethodSystem используется для записей, созданных сервером (отзыв)
	SignatureMethodSystem = "system"
)

// ConsentDocument - версионированный юридический документ. Определяется при сборке
// и не изменяется во время работы.
type ConsentDocument struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Version       string `json:"version"`
	Title         string `json:"title"`
	EffectiveDate string `json:"effective_date"`
	Required      bool   `json:"required"`
	Category      string `json:"category"`
	Content       string `json:"content"`
}

// ConsentSignature - подпись под документом
type ConsentSignature struct {
	Method    string    `json:"method"`
	Value     string    `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// ConsentAcceptance - запись о принятии документа (append-only)
type ConsentAcceptance struct {
	ID              string           `json:"id"`
	ClientID        string           `json:"client_id"`
	PetID           string           `json:"pet_id,omitempty"`
	DocumentID      string           `json:"document_id"`
	DocumentType    string           `json:"document_type"`
	DocumentVersion string           `json:"document_version"`
	AcceptedAt      time.Time        `json:"accepted_at"`
	IPAddress       string           `json:"ip_address,omitempty"`
	UserAgent       string           `json:"user_agent,omitempty"`
	Signature       ConsentSignature `json:"signature"`
}

// IsRevocation сообщает, является ли запись отзывом согласия
func (a *ConsentAcceptance) IsRevocation() bool {
	return a.Signature.Value == RevokedSignatureValue
}

// ConsentStatus - результат сравнения обязательных документов с принятыми
type ConsentStatus struct {
	ClientID            string   `json:"client_id"`
	PetID               string   `json:"pet_id,omitempty"`
	Required            []string `json:"required"`
	Accepted            []string `json:"accepted"`
	Pending             []string `json:"pending"`
	Outdated            []string `json:"outdated"`
	AllRequiredAccepted bool     `json:"all_required_accepted"`
}

// SortAcceptancesNewestFirst сортирует записи по убыванию AcceptedAt.
// При равном времени выше идёт запись с большим ID (ID - UUIDv7, упорядочены по времени создания).
func SortAcceptancesNewestFirst(records []*ConsentAcceptance) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].AcceptedAt.Equal(records[j].AcceptedAt) {
			return records[i].AcceptedAt.After(records[j].AcceptedAt)
		}
		return records[i].ID > records[j].ID
	})
}

// ScopeRecords оставляет записи ровно одной области: petID == "" - собственные
// согласия клиента, иначе согласия конкретного питомца. Записи питомцев
// не влияют на статус клиента и друг на друга.
func ScopeRecords(records []*ConsentAcceptance, petID string) []*ConsentAcceptance {
	scoped := make([]*ConsentAcceptance, 0, len(records))
	for _, r := range records {
		if r.PetID == petID {
			scoped = append(scoped, r)
		}
	}
	return scoped
}

// LatestAcceptance возвращает авторитетную (последнюю) запись по документу или nil.
// records должны относиться к одной области (см. ScopeRecords).
// Единственное место, где решается "latest wins": все проверки статуса идут через неё.
func LatestAcceptance(records []*ConsentAcceptance, documentID string) *ConsentAcceptance {
	sorted := make([]*ConsentAcceptance, len(records))
	copy(sorted, records)
	SortAcceptancesNewestFirst(sorted)
	for _, r := range sorted {
		if r.DocumentID == documentID {
			return r
		}
	}
	return nil
}

// IsDocumentAccepted - действует ли сейчас согласие на документ
func IsDocumentAccepted(records []*ConsentAcceptance, documentID string) bool {
	latest := LatestAcceptance(records, documentID)
	return latest != nil && !latest.IsRevocation()
}

// ComputeConsentStatus вычисляет pending = required − accepted.
// accepted - документы, у которых последняя запись не является отзывом.
func ComputeConsentStatus(documents []ConsentDocument, records []*ConsentAcceptance) *ConsentStatus {
	status := &ConsentStatus{
		Required: []string{},
		Accepted: []string{},
		Pending:  []string{},
		Outdated: []string{},
	}

	accepted := make(map[string]bool)
	for _, doc := range documents {
		latest := LatestAcceptance(records, doc.ID)
		if latest == nil || latest.IsRevocation() {
			continue
		}
		accepted[doc.ID] = true
		status.Accepted = append(status.Accepted, doc.ID)
		if latest.DocumentVersion != doc.Version {
			status.Outdated = append(status.Outdated, doc.ID)
		}
	}

	for _, doc := range documents {
		if !doc.Required {
			continue
		}
		status.Required = append(status.Required, doc.ID)
		if !accepted[doc.ID] {
			status.Pending = append(status.Pending, doc.ID)
		}
	}

	status.AllRequiredAccepted = len(status.Pending) == 0
	return status
}
