package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jobboard/jobboard-api/internal/core/domain"
)

type eventFixture struct {
	store  *memStore
	audit  *stubAudit
	index  *stubIndex
	mailer *stubMailer
	sms    *stubSMS
	dedup  *stubDedup
	svc    *EventService
}

func newEventFixture() *eventFixture {
	f := &eventFixture{
		store:  appStore(domain.AppPending),
		audit:  &stubAudit{},
		index:  &stubIndex{},
		mailer: &stubMailer{},
		sms:    &stubSMS{},
		dedup:  &stubDedup{seen: map[string]bool{}},
	}
	f.store.apps["a-1"].CoverLetter = "I love rockets."
	f.svc = NewEventService(EventDeps{
		Applications: f.store,
		Jobs:         f.store,
		Users:        f.store,
		Audit:        f.audit,
		Index:        f.index,
		Mailer:       f.mailer,
		SMS:          f.sms,
		Dedup:        f.dedup,
	}, zerolog.Nop())
	return f
}

func TestEventService_Process_NewApplication(t *testing.T) {
	f := newEventFixture()
	ev := domain.NewEvent(domain.EventNewApplication, "a-1", string(domain.AppPending), fixedNow)

	if err := f.svc.Process(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.audit.appended) != 1 || f.audit.appended[0].EventID != ev.ID {
		t.Fatalf("expected the event in the audit log, got %+v", f.audit.appended)
	}
	if len(f.mailer.sent) != 1 {
		t.Fatalf("expected one e-mail, got %d", len(f.mailer.sent))
	}
	mail := f.mailer.sent[0]
	if mail.to != "u-acme@example.com" {
		t.Errorf("expected mail to the company owner, got %s", mail.to)
	}
	if mail.subject != "New Application for Job j-1" {
		t.Errorf("unexpected subject %q", mail.subject)
	}
	if !strings.Contains(mail.body, "Ada Lovelace") || !strings.Contains(mail.body, "I love rockets.") {
		t.Errorf("body must name the applicant and include the cover letter, got %q", mail.body)
	}
	if len(f.dedup.marked) != 1 || f.dedup.marked[0] != ev.ID {
		t.Fatalf("expected event to be marked processed, got %v", f.dedup.marked)
	}
}

func TestEventService_Process_StatusUpdateNotifiesApplicant(t *testing.T) {
	f := newEventFixture()
	f.sms.enabled = true
	f.store.users["u-ada"].Phone = "+4915112345678"
	ev := domain.NewEvent(domain.EventStatusUpdate, "a-1", string(domain.AppReviewed), fixedNow)

	if err := f.svc.Process(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.mailer.sent) != 1 || f.mailer.sent[0].to != "u-ada@example.com" {
		t.Fatalf("expected mail to the applicant, got %+v", f.mailer.sent)
	}
	if f.mailer.sent[0].subject != "Application Status Update for Job j-1" {
		t.Errorf("unexpected subject %q", f.mailer.sent[0].subject)
	}
	want := "+4915112345678: Your application for Job j-1 status updated to reviewed"
	if len(f.sms.sent) != 1 || f.sms.sent[0] != want {
		t.Fatalf("expected sms %q, got %v", want, f.sms.sent)
	}
}

func TestEventService_Process_EscapesUserContent(t *testing.T) {
	f := newEventFixture()
	f.store.apps["a-1"].CoverLetter = `<a href="https://evil.example">review</a><script>steal()</script>`
	f.store.seekers["s-ada"].LastName = `<img src=x onerror=alert(1)>`
	f.store.jobs["j-1"].Title = "Go & <b>Rust</b>"
	f.store.companies["c-acme"].Name = "<i>Acme</i>"

	for _, ev := range []domain.Event{
		domain.NewEvent(domain.EventNewApplication, "a-1", string(domain.AppPending), fixedNow),
		domain.NewEvent(domain.EventStatusUpdate, "a-1", string(domain.AppReviewed), fixedNow),
	} {
		if err := f.svc.Process(context.Background(), ev); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(f.mailer.sent) != 2 {
		t.Fatalf("expected two e-mails, got %d", len(f.mailer.sent))
	}

	newApp, update := f.mailer.sent[0].body, f.mailer.sent[1].body
	if !strings.Contains(newApp, "&lt;script&gt;steal()&lt;/script&gt;") {
		t.Errorf("cover letter must be escaped, got %q", newApp)
	}
	for _, body := range []string{newApp, update} {
		for _, raw := range []string{"<script>", "<img", "<a href", "<b>Rust</b>", "<i>Acme</i>"} {
			if strings.Contains(body, raw) {
				t.Errorf("body carries raw markup %q: %s", raw, body)
			}
		}
	}
	if !strings.Contains(update, "&lt;i&gt;Acme&lt;/i&gt;") || !strings.Contains(update, "Go &amp; &lt;b&gt;Rust&lt;/b&gt;") {
		t.Errorf("status mail must escape company and title, got %q", update)
	}
	if !strings.Contains(update, "<strong>reviewed</strong>") {
		t.Errorf("template markup must survive, got %q", update)
	}
}

func TestEventService_Process_SMSDisabled(t *testing.T) {
	f := newEventFixture()
	f.store.users["u-ada"].Phone = "+4915112345678"
	ev := domain.NewEvent(domain.EventStatusUpdate, "a-1", string(domain.AppReviewed), fixedNow)

	if err := f.svc.Process(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.sms.sent) != 0 {
		t.Fatalf("no sms expected when disabled, got %v", f.sms.sent)
	}
}

func TestEventService_Process_SMSFailureIsNotFatal(t *testing.T) {
	f := newEventFixture()
	f.sms.enabled = true
	f.sms.err = errors.New("twilio down")
	f.store.users["u-ada"].Phone = "+4915112345678"
	ev := domain.NewEvent(domain.EventStatusUpdate, "a-1", string(domain.AppReviewed), fixedNow)

	if err := f.svc.Process(context.Background(), ev); err != nil {
		t.Fatalf("sms failures must not fail the event: %v", err)
	}
	if len(f.dedup.marked) != 1 {
		t.Fatal("event must still be marked")
	}
}

func TestEventService_Process_Duplicate(t *testing.T) {
	f := newEventFixture()
	ev := domain.NewEvent(domain.EventNewApplication, "a-1", "pending", fixedNow)
	f.dedup.seen[ev.ID] = true

	if err := f.svc.Process(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.audit.appended) != 0 || len(f.mailer.sent) != 0 {
		t.Fatal("a duplicate must not be processed again")
	}
}

func TestEventService_Process_DedupOutageStillDelivers(t *testing.T) {
	f := newEventFixture()
	f.dedup.seenErr = errors.New("redis down")
	ev := domain.NewEvent(domain.EventNewApplication, "a-1", "pending", fixedNow)

	if err := f.svc.Process(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.mailer.sent) != 1 {
		t.Fatal("expected delivery despite the dedup outage")
	}
}

func TestEventService_Process_MailFailureIsRetried(t *testing.T) {
	f := newEventFixture()
	f.mailer.err = errors.New("smtp timeout")
	ev := domain.NewEvent(domain.EventNewApplication, "a-1", "pending", fixedNow)

	if err := f.svc.Process(context.Background(), ev); err == nil {
		t.Fatal("expected an error so the event is retried")
	}
	if len(f.dedup.marked) != 0 {
		t.Fatal("a failed event must not be marked processed")
	}
}

func TestEventService_Process_AuditFailure(t *testing.T) {
	f := newEventFixture()
	f.audit.appendErr = errors.New("mongo down")
	ev := domain.NewEvent(domain.EventNewApplication, "a-1", "pending", fixedNow)

	if err := f.svc.Process(context.Background(), ev); err == nil {
		t.Fatal("expected an error")
	}
	if len(f.mailer.sent) != 0 {
		t.Fatal("no mail before the audit record is written")
	}
}

func TestEventService_Process_ApplicationGone(t *testing.T) {
	f := newEventFixture()
	ev := domain.NewEvent(domain.EventStatusUpdate, "missing", "reviewed", fixedNow)

	if err := f.svc.Process(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.mailer.sent) != 0 {
		t.Fatal("nothing to notify")
	}
}

func TestEventService_Process_JobIndexed(t *testing.T) {
	f := newEventFixture()

	if err := f.svc.Process(context.Background(), domain.NewEvent(domain.EventJobIndexed, "j-1", "active", fixedNow)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.index.indexed) != 1 || f.index.indexed[0].ID != "j-1" {
		t.Fatalf("expected j-1 indexed, got %+v", f.index.indexed)
	}
	if f.index.indexed[0].CompanyName != "Acme" {
		t.Errorf("document must embed the company name, got %q", f.index.indexed[0].CompanyName)
	}

	// A job deleted before its index event is processed is removed instead.
	if err := f.svc.Process(context.Background(), domain.NewEvent(domain.EventJobIndexed, "j-gone", "active", fixedNow)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.index.deleted) != 1 || f.index.deleted[0] != "j-gone" {
		t.Fatalf("expected j-gone deleted from the index, got %v", f.index.deleted)
	}
}

func TestEventService_Process_JobRemoved(t *testing.T) {
	f := newEventFixture()

	if err := f.svc.Process(context.Background(), domain.NewEvent(domain.EventJobRemoved, "j-1", "", fixedNow)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.index.deleted) != 1 || f.index.deleted[0] != "j-1" {
		t.Fatalf("expected j-1 deleted, got %v", f.index.deleted)
	}
}

func TestEventService_Process_UnknownKind(t *testing.T) {
	f := newEventFixture()

	if err := f.svc.Process(context.Background(), domain.Event{ID: "e-x", Kind: "mystery"}); err != nil {
		t.Fatalf("unknown kinds are ignored: %v", err)
	}
	if len(f.dedup.marked) != 0 {
		t.Fatal("unknown kinds are not marked")
	}
}
