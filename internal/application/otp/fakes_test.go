package otp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yatraone/transit-api/internal/config"
	"github.com/yatraone/transit-api/internal/domain"
)

// memRecords mirrors the DynamoDB store: writes after issuance only apply to
// the record with the caller's created_at.
type memRecords struct {
	mu   sync.Mutex
	recs map[string]domain.OTPRecord
}

func newMemRecords() *memRecords {
	return &memRecords{recs: map[string]domain.OTPRecord{}}
}

func (m *memRecords) Get(_ context.Context, email string) (*domain.OTPRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[email]
	if !ok {
		return nil, fmt.Errorf("otp record: %w", domain.ErrNotFound)
	}
	return &r, nil
}

func (m *memRecords) Put(_ context.Context, rec *domain.OTPRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[rec.Email] = *rec
	return nil
}

func (m *memRecords) DeleteIssued(_ context.Context, email string, createdAt int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[email]
	if !ok || r.CreatedAt != createdAt {
		return fmt.Errorf("delete: %w", domain.ErrConflict)
	}
	delete(m.recs, email)
	return nil
}

func (m *memRecords) IncrementAttempts(_ context.Context, email string, createdAt int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[email]
	if !ok || r.CreatedAt != createdAt {
		return fmt.Errorf("increment: %w", domain.ErrConflict)
	}
	r.Attempts++
	m.recs[email] = r
	return nil
}

func (m *memRecords) MarkVerified(_ context.Context, email string, createdAt int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[email]
	if !ok || r.CreatedAt != createdAt {
		return fmt.Errorf("mark: %w", domain.ErrConflict)
	}
	r.Verified = true
	m.recs[email] = r
	return nil
}

func (m *memRecords) ListCreatedBefore(_ context.Context, cutoff int64) ([]domain.OTPRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.OTPRecord
	for _, r := range m.recs {
		if r.CreatedAt < cutoff {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRecords) set(rec domain.OTPRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[rec.Email] = rec
}

func (m *memRecords) peek(email string) (domain.OTPRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[email]
	return r, ok
}

type memUsers map[string]*domain.User

func (u memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if usr, ok := u[email]; ok {
		return usr, nil
	}
	return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
}

type sentMail struct {
	To, Subject, Template string
	Data                  map[string]string
}

type captureMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (c *captureMailer) Send(to, subject, templateID string, data map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, sentMail{To: to, Subject: subject, Template: templateID, Data: data})
}

func (c *captureMailer) last() sentMail {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent[len(c.sent)-1]
}

// clock is a settable time source.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type harness struct {
	svc     *service
	records *memRecords
	users   memUsers
	mail    *captureMailer
	clock   *clock
}

func testConfig() config.OTPConfig {
	return config.OTPConfig{
		Expiry:         5 * time.Minute,
		ResendCooldown: time.Minute,
		MaxAttempts:    3,
		HashCost:       4,
		SweepInterval:  time.Minute,
	}
}

func newHarness() *harness {
	h := &harness{
		records: newMemRecords(),
		users:   memUsers{},
		mail:    &captureMailer{},
		clock:   &clock{t: time.Unix(1_700_000_000, 0)},
	}
	h.svc = NewService(ServiceDeps{
		Records: h.records,
		Users:   h.users,
		Mail:    h.mail,
		Config:  testConfig(),
	}).(*service)
	h.svc.now = h.clock.Now
	return h
}

// lastCode returns the plaintext code of the most recent email.
func (h *harness) lastCode() string {
	return h.mail.last().Data["otp"]
}
