package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testDocuments = []ConsentDocument{
	{ID: "terms", Version: "2.0", Required: true},
	{ID: "privacy", Version: "1.1", Required: true},
	{ID: "treatment", Version: "1.0", Required: true},
	{ID: "research", Version: "1.0", Required: false},
}

func acceptance(id, doc, version string, at time.Time, value string) *ConsentAcceptance {
	return &ConsentAcceptance{
		ID:              id,
		ClientID:        "client-1",
		DocumentID:      doc,
		DocumentVersion: version,
		AcceptedAt:      at,
		Signature:       ConsentSignature{Method: SignatureMethodTyped, Value: value, Timestamp: at},
	}
}

func TestComputeConsentStatus_PendingIsRequiredMinusAccepted(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	records := []*ConsentAcceptance{
		acceptance("a1", "terms", "2.0", base, "Jane Doe"),
		acceptance("a2", "research", "1.0", base, "Jane Doe"),
	}

	status := ComputeConsentStatus(testDocuments, records)

	assert.Equal(t, []string{"terms", "privacy", "treatment"}, status.Required)
	assert.ElementsMatch(t, []string{"terms", "research"}, status.Accepted)
	assert.Equal(t, []string{"privacy", "treatment"}, status.Pending)
	assert.False(t, status.AllRequiredAccepted)
}

func TestComputeConsentStatus_AllAccepted(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	records := []*ConsentAcceptance{
		acceptance("a1", "terms", "2.0", base, "Jane"),
		acceptance("a2", "privacy", "1.1", base, "Jane"),
		acceptance("a3", "treatment", "1.0", base, "Jane"),
	}

	status := ComputeConsentStatus(testDocuments, records)

	assert.Empty(t, status.Pending)
	assert.True(t, status.AllRequiredAccepted)
}

func TestComputeConsentStatus_RevocationWins(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	records := []*ConsentAcceptance{
		acceptance("a1", "terms", "2.0", base, "Jane"),
		acceptance("a2", "terms", "2.0", base.Add(time.Hour), "Jane again"),
		acceptance("a3", "terms", "2.0", base.Add(2*time.Hour), RevokedSignatureValue),
	}

	assert.False(t, IsDocumentAccepted(records, "terms"), "последняя запись - отзыв")

	status := ComputeConsentStatus(testDocuments, records)
	assert.Contains(t, status.Pending, "terms")
	assert.NotContains(t, status.Accepted, "terms")

	// Повторное принятие после отзыва снова делает документ принятым
	records = append(records, acceptance("a4", "terms", "2.0", base.Add(3*time.Hour), "Jane"))
	assert.True(t, IsDocumentAccepted(records, "terms"))
}

func TestLatestAcceptance_OrderIndependent(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	older := acceptance("a1", "privacy", "1.0", base, "Jane")
	newer := acceptance("a2", "privacy", "1.1", base.Add(time.Minute), "Jane")

	assert.Equal(t, newer, LatestAcceptance([]*ConsentAcceptance{newer, older}, "privacy"))
	assert.Equal(t, newer, LatestAcceptance([]*ConsentAcceptance{older, newer}, "privacy"))
	assert.Nil(t, LatestAcceptance([]*ConsentAcceptance{older}, "terms"))
}

func TestLatestAcceptance_TieBrokenByID(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	first := acceptance("0190a000-0000-7000-8000-000000000001", "terms", "2.0", at, "Jane")
	second := acceptance("0190a000-0000-7000-8000-000000000002", "terms", "2.0", at, RevokedSignatureValue)

	assert.Equal(t, second, LatestAcceptance([]*ConsentAcceptance{first, second}, "terms"))
}

func TestComputeConsentStatus_OutdatedVersion(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	records := []*ConsentAcceptance{acceptance("a1", "terms", "1.0", base, "Jane")}

	status := ComputeConsentStatus(testDocuments, records)

	assert.Contains(t, status.Accepted, "terms")
	assert.Equal(t, []string{"terms"}, status.Outdated)
	assert.NotContains(t, status.Pending, "terms")
}

func TestScopeRecords_SeparatesClientAndPets(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	own := acceptance("1", "terms", "2.0", base, "Sam")
	petAccept := acceptance("2", "terms", "2.0", base.Add(time.Minute), "Sam")
	petAccept.PetID = "pet-1"
	petRevoke := acceptance("3", "terms", "2.0", base.Add(2*time.Minute), RevokedSignatureValue)
	petRevoke.PetID = "pet-1"
	records := []*ConsentAcceptance{petRevoke, own, petAccept}

	assert.Equal(t, []*ConsentAcceptance{own}, ScopeRecords(records, ""))
	assert.Equal(t, []*ConsentAcceptance{petRevoke, petAccept}, ScopeRecords(records, "pet-1"))
	assert.Empty(t, ScopeRecords(records, "pet-2"))

	assert.True(t, IsDocumentAccepted(ScopeRecords(records, ""), "terms"))
	assert.False(t, IsDocumentAccepted(ScopeRecords(records, "pet-1"), "terms"))
}
