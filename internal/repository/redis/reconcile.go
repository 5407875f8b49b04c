package redis

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/go-redis/redis/v8"
)

// ReconcileReport - результат прохода по индексам
type ReconcileReport struct {
	IndexesScanned int            `json:"indexes_scanned"`
	EntriesChecked int            `json:"entries_checked"`
	Removed        map[string]int `json:"removed"`
}

// TotalRemoved - сколько висячих ссылок удалено
func (r *ReconcileReport) TotalRemoved() int {
	total := 0
	for _, n := range r.Removed {
		total += n
	}
	return total
}

// indexSpec описывает семейство индексов: где искать ключи индекса и как из элемента
// получить ключ основной записи
type indexSpec struct {
	name    string
	key     string // точный ключ индекса
	pattern string // либо шаблон SCAN для семейства индексов
	sorted  bool

	recordKey func(indexKey, member string) string
}

func memberKey(fn func(string) string) func(string, string) string {
	return func(_, member string) string { return fn(member) }
}

var reconcileIndexes = []indexSpec{
	{name: "clients", key: keyClients, recordKey: memberKey(clientKey)},
	{name: "client_pets", pattern: "client:*:pets", recordKey: memberKey(petKey)},
	{name: "client_appointments", pattern: "client:*:appointments", recordKey: memberKey(appointmentKey)},
	{name: "pet_appointments", pattern: "pet:*:appointments", recordKey: memberKey(appointmentKey)},
	{name: "appointments", key: keyAppointments, sorted: true, recordKey: memberKey(appointmentKey)},
	{name: "posts", key: keyPosts, sorted: true, recordKey: memberKey(postKey)},
	{name: "contacts", key: keyContacts, sorted: true, recordKey: memberKey(contactKey)},
	{name: "redirects", key: keyRedirects, recordKey: memberKey(redirectKey)},
	{name: "seo_pages", key: keySEOPages, recordKey: func(_, member string) string {
		locale, path, _ := splitSEOMember(member)
		return seoKey(locale, path)
	}},
	{name: "consents", pattern: "consent:client:*", recordKey: memberKey(consentKey)},
	{name: "onboarding", pattern: "onboarding:client:*", recordKey: func(indexKey, member string) string {
		return onboardingKey(strings.TrimPrefix(indexKey, "onboarding:client:"), member)
	}},
	{name: "sessions", pattern: "session:*:subject:*", recordKey: func(indexKey, member string) string {
		role := strings.TrimPrefix(indexKey, "session:")
		role, _, _ = strings.Cut(role, ":")
		return sessionKey(role, member)
	}},
}

// Reconciler удаляет из индексов ссылки на отсутствующие записи.
// Многоключевые операции не транзакционны, поэтому после сбоя в индексах могут оставаться хвосты.
type Reconciler struct {
	store
}

// NewReconciler создает Reconciler
func NewReconciler(client redis.UniversalClient) *Reconciler {
	return &Reconciler{store: newStore(client)}
}

// Run проходит по всем индексам. Повторный запуск ничего не меняет.
func (r *Reconciler) Run(ctx context.Context) (*ReconcileReport, error) {
	report := &ReconcileReport{Removed: make(map[string]int)}

	for _, spec := range reconcileIndexes {
		indexKeys := []string{spec.key}
		if spec.pattern != "" {
			found, err := r.scanKeys(ctx, spec.pattern)
			if err != nil {
				return report, err
			}
			indexKeys = found
		}

		for _, indexKey := range indexKeys {
			removed, checked, err := r.reconcileIndex(ctx, spec, indexKey)
			if err != nil {
				return report, err
			}
			report.IndexesScanned++
			report.EntriesChecked += checked
			if removed > 0 {
				report.Removed[spec.name] += removed
				log.Printf("[Reconciler] %s: removed %d dangling entries from %s", spec.name, removed, indexKey)
			}
		}
	}

	removed, err := r.reconcileEmailIndex(ctx)
	if err != nil {
		return report, err
	}
	if removed > 0 {
		report.Removed["client_emails"] = removed
	}

	return report, nil
}

func (r *Reconciler) reconcileIndex(ctx context.Context, spec indexSpec, indexKey string) (int, int, error) {
	var (
		members []string
		err     error
	)
	if spec.sorted {
		members, err = r.client.ZRange(ctx, indexKey, 0, -1).Result()
	} else {
		members, err = r.client.SMembers(ctx, indexKey).Result()
	}
	if err != nil {
		// Ключ другого типа, совпавший с шаблоном (например, строковый счётчик)
		if strings.Contains(err.Error(), "WRONGTYPE") {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("read index %s: %w", indexKey, err)
	}
	if len(members) == 0 {
		return 0, 0, nil
	}

	cmds := make([]*redis.IntCmd, len(members))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, m := range members {
			cmds[i] = pipe.Exists(ctx, spec.recordKey(indexKey, m))
		}
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("check index %s: %w", indexKey, err)
	}

	var dangling []interface{}
	for i, cmd := range cmds {
		if cmd.Val() == 0 {
			dangling = append(dangling, members[i])
		}
	}
	if len(dangling) == 0 {
		return 0, len(members), nil
	}

	if spec.sorted {
		err = r.client.ZRem(ctx, indexKey, dangling...).Err()
	} else {
		err = r.client.SRem(ctx, indexKey, dangling...).Err()
	}
	if err != nil {
		return 0, len(members), fmt.Errorf("clean index %s: %w", indexKey, err)
	}
	return len(dangling), len(members), nil
}

// reconcileEmailIndex удаляет client:email:* ключи, указывающие на удалённых клиентов
func (r *Reconciler) reconcileEmailIndex(ctx context.Context) (int, error) {
	keys, err := r.scanKeys(ctx, clientEmailKey("*"))
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, key := range keys {
		id, err := r.getString(ctx, key)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return removed, err
		}
		ok, err := r.exists(ctx, clientKey(id))
		if err != nil {
			return removed, err
		}
		if !ok {
			if err := r.client.Del(ctx, key).Err(); err != nil {
				return removed, fmt.Errorf("delete %s: %w", key, err)
			}
			removed++
		}
	}
	return removed, nil
}
