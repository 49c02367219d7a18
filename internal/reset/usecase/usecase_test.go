package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kodapp/resetgate/internal/pkg/config"
	"github.com/kodapp/resetgate/internal/pkg/goerror"
	"github.com/kodapp/resetgate/internal/pkg/hash"
	"github.com/kodapp/resetgate/internal/pkg/instrument"
	"github.com/kodapp/resetgate/internal/pkg/validator"
	"github.com/kodapp/resetgate/internal/reset/entity"
)

const testConfigYAML = `
modules:
  reset:
    code_ttl_minutes: 5
    issue_window_hours: 1
    issue_limit: 3
`

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeCodeGen returns codes from a fixed sequence, repeating the last one.
type fakeCodeGen struct {
	mu    sync.Mutex
	codes []string
	idx   int
	err   error
}

func (g *fakeCodeGen) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.err != nil {
		return "", g.err
	}
	code := g.codes[g.idx]
	if g.idx < len(g.codes)-1 {
		g.idx++
	}

	return code, nil
}

// fakeStore mimics the Redis store semantics in memory: one record per email,
// atomic attempt counting with delete-at-max, and a sliding issuance window.
type fakeStore struct {
	mu      sync.Mutex
	clock   *fakeClock
	window  time.Duration
	limit   int
	records map[string]entity.OtpRecord
	issues  map[string][]time.Time

	throttleErr error
	saveErr     error
	getErr      error
	consumeErr  error
}

func newFakeStore(clock *fakeClock) *fakeStore {
	return &fakeStore{
		clock:   clock,
		window:  time.Hour,
		limit:   3,
		records: make(map[string]entity.OtpRecord),
		issues:  make(map[string][]time.Time),
	}
}

func (s *fakeStore) ThrottleIssue(_ context.Context, email string) (bool, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.throttleErr != nil {
		return false, 0, s.throttleErr
	}

	now := s.clock.Now()
	kept := s.issues[email][:0]
	for _, ts := range s.issues[email] {
		if now.Sub(ts) < s.window {
			kept = append(kept, ts)
		}
	}
	s.issues[email] = kept

	if len(kept) >= s.limit {
		return false, kept[0].Add(s.window).Sub(now), nil
	}

	s.issues[email] = append(kept, now)

	return true, 0, nil
}

func (s *fakeStore) SaveResetCode(_ context.Context, email string, rec entity.OtpRecord, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return s.saveErr
	}
	s.records[email] = rec

	return nil
}

func (s *fakeStore) GetResetCode(_ context.Context, email string) (*entity.OtpRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getErr != nil {
		return nil, s.getErr
	}
	rec, ok := s.records[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	return &rec, nil
}

func (s *fakeStore) DeleteResetCode(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, email)

	return nil
}

func (s *fakeStore) RegisterAttempt(_ context.Context, email string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[email]
	if !ok {
		return 0, goerror.ErrNotFound
	}

	rec.Attempts++
	if rec.Attempts >= entity.MaxAttempts {
		delete(s.records, email)
	} else {
		s.records[email] = rec
	}

	return rec.Attempts, nil
}

func (s *fakeStore) ConsumeResetCode(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.consumeErr != nil {
		return false, s.consumeErr
	}
	rec, ok := s.records[email]
	if !ok {
		return false, goerror.ErrNotFound
	}
	if rec.Used {
		return false, nil
	}
	rec.Used = true
	s.records[email] = rec

	return true, nil
}

// fakeIDP is an in-memory identity provider keyed by email.
type fakeIDP struct {
	mu        sync.Mutex
	accounts  map[string]entity.Account
	passwords map[string]string

	lookupErr error
	updateErr error
}

func newFakeIDP(emails ...string) *fakeIDP {
	idp := &fakeIDP{
		accounts:  make(map[string]entity.Account),
		passwords: make(map[string]string),
	}
	for i, email := range emails {
		idp.accounts[email] = entity.Account{ID: "uid-" + string(rune('a'+i)), Email: email}
	}

	return idp
}

func (p *fakeIDP) Lookup(_ context.Context, email string) (*entity.Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lookupErr != nil {
		return nil, p.lookupErr
	}
	acc, ok := p.accounts[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	return &acc, nil
}

func (p *fakeIDP) UpdateCredential(_ context.Context, accountID, newPassword string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.updateErr != nil {
		return p.updateErr
	}
	p.passwords[accountID] = newPassword

	return nil
}

// fakePublisher records published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []ResetCodeIssuedEvent
	err    error
}

func (p *fakePublisher) PublishResetCodeIssued(_ context.Context, msg ResetCodeIssuedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, msg)

	return nil
}

func (p *fakePublisher) last(t *testing.T) ResetCodeIssuedEvent {
	t.Helper()

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.events) == 0 {
		t.Fatal("expected at least one published event")
	}

	return p.events[len(p.events)-1]
}

type fixture struct {
	uc      *Usecase
	store   *fakeStore
	idp     *fakeIDP
	pub     *fakePublisher
	clock   *fakeClock
	codeGen *fakeCodeGen
}

func newFixture(t *testing.T, emails ...string) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("init config: %v", err)
	}

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("init validator: %v", err)
	}

	clk := &fakeClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	store := newFakeStore(clk)
	idp := newFakeIDP(emails...)
	pub := &fakePublisher{}
	codeGen := &fakeCodeGen{codes: []string{"123456", "654321", "111111", "222222"}}

	uc := New(Dependency{
		RepoStore:     store,
		RepoIDP:       idp,
		RepoMessaging: pub,
		Validator:     v10,
		Config:        cfg,
		HMAC:          hash.NewHMACSHA256("test-secret"),
		CodeGenerator: codeGen,
		Clock:         clk,
		Instrument:    instrument.NewNoop(),
	})

	return &fixture{uc: uc, store: store, idp: idp, pub: pub, clock: clk, codeGen: codeGen}
}

func assertCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error with code %s, got nil", want)
	}

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *goerror.Error, got %T: %v", err, err)
	}
	if gerr.Code() != want {
		t.Fatalf("expected code %s, got %s (%v)", want, gerr.Code(), err)
	}
}
