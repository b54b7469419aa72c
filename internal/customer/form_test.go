package customer_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"

	"github.com/goliatone/go-customerform/internal/customer"
	"github.com/goliatone/go-customerform/internal/platform/logging"
	"github.com/goliatone/go-customerform/pkg/forms"
	"github.com/goliatone/go-customerform/pkg/testsupport"
)

func newForm(t *testing.T, opts ...customer.Option) *customer.Form {
	t.Helper()
	form, err := customer.NewForm(opts...)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	t.Cleanup(func() { _ = form.Close() })
	return form
}

func waitMessage(t *testing.T, messages <-chan string) string {
	t.Helper()
	select {
	case msg := <-messages:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("email message was not published")
		return ""
	}
}

func assertNoMessage(t *testing.T, messages <-chan string) {
	t.Helper()
	select {
	case msg := <-messages:
		t.Fatalf("unexpected email message %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNewForm_InitialState(t *testing.T) {
	form := newForm(t)

	want := map[string]any{
		"firstName": "",
		"lastName":  "",
		"emailGroup": map[string]any{
			"email":        "",
			"confirmEmail": "",
		},
		"phone":        "",
		"notification": "email",
		"rating":       nil,
		"sendCatalog":  true,
	}
	form.Update(func(g *forms.Group) {
		if diff := cmp.Diff(want, g.Values()); diff != "" {
			t.Fatalf("initial values mismatch (-want +got):\n%s", diff)
		}
		if g.Valid() {
			t.Fatalf("expected empty form to be invalid")
		}
		if !g.Pristine() || !g.Untouched() {
			t.Fatalf("expected a pristine, untouched form")
		}
		if !g.Get(customer.PathPhone).Valid() {
			t.Fatalf("phone must be optional for email notifications")
		}
		if !g.Get(customer.PathRating).Valid() {
			t.Fatalf("an empty rating must be valid")
		}
	})

	if form.EmailMessage() != "" {
		t.Fatalf("expected no email message initially")
	}
	if form.ID() == "" {
		t.Fatalf("expected a form id")
	}
	if diff := cmp.Diff(customer.New(), form.Customer()); diff != "" {
		t.Fatalf("customer mismatch (-want +got):\n%s", diff)
	}
	if form.Schema() == nil {
		t.Fatalf("expected a schema")
	}
}

func TestForm_FieldRules(t *testing.T) {
	form := newForm(t)

	form.Update(func(g *forms.Group) {
		first := g.Field(customer.PathFirstName)
		first.Input("Ja")
		if !first.Errors().Has("minlength") {
			t.Fatalf("expected minLength failure, got %v", first.Errors().Keys())
		}
		first.Input("Jack")
		if first.Invalid() {
			t.Fatalf("expected Jack to be valid, got %v", first.Errors().Keys())
		}

		last := g.Field(customer.PathLastName)
		last.Input(strings.Repeat("x", 51))
		if !last.Errors().Has("maxlength") {
			t.Fatalf("expected maxLength failure, got %v", last.Errors().Keys())
		}

		rating := g.Field(customer.PathRating)
		rating.Input(6)
		if !rating.Errors().Has(customer.FailureRange) {
			t.Fatalf("expected range failure for 6")
		}
		rating.Input(nil)
		if rating.Invalid() {
			t.Fatalf("expected cleared rating to be valid")
		}
	})
}

func TestForm_EmailGroupMatch(t *testing.T) {
	form := newForm(t)

	form.Update(func(g *forms.Group) {
		group := g.Group(customer.PathEmailGroup)
		g.Field(customer.PathEmail).Input("jack@example.com")
		if group.Errors().Has(customer.FailureMatch) {
			t.Fatalf("expected no match failure while confirmEmail is pristine")
		}

		g.Field(customer.PathConfirmEmail).Input("jack@example.org")
		if !group.Errors().Has(customer.FailureMatch) {
			t.Fatalf("expected match failure, got %v", group.Errors().Keys())
		}
		if g.Valid() {
			t.Fatalf("a mismatched email group must invalidate the form")
		}

		g.Field(customer.PathConfirmEmail).Input("jack@example.com")
		if group.Invalid() {
			t.Fatalf("expected email group valid, got %v", forms.CollectErrors(g))
		}
	})
}

func TestForm_NotificationDrivesPhoneValidation(t *testing.T) {
	form := newForm(t)

	form.Update(func(g *forms.Group) {
		phone := g.Field(customer.PathPhone)

		g.Field(customer.PathNotification).Input(customer.NotifyByText)
		if !phone.Errors().Has(forms.RuleRequired) {
			t.Fatalf("expected phone required for text, got %v", phone.Errors().Keys())
		}

		phone.Input("555-1234")
		if phone.Invalid() {
			t.Fatalf("expected phone valid once filled")
		}
		phone.Input("")

		g.Field(customer.PathNotification).Input(customer.NotifyByEmail)
		if phone.Invalid() {
			t.Fatalf("expected phone valid for email, got %v", phone.Errors().Keys())
		}
	})

	form.SetNotification(customer.NotifyByText)
	form.Update(func(g *forms.Group) {
		if !g.Get(customer.PathPhone).Errors().Has(forms.RuleRequired) {
			t.Fatalf("expected SetNotification to require the phone")
		}
		if got := g.Get(customer.PathNotification).Value(); got != customer.NotifyByEmail {
			t.Fatalf("SetNotification must not change the notification value, got %v", got)
		}
	})
}

func TestForm_EmailMessageIsDebounced(t *testing.T) {
	clock := clockwork.NewFakeClock()
	messages := make(chan string, 8)
	form := newForm(t,
		customer.WithClock(clock),
		customer.WithMessageListener(func(msg string) { messages <- msg }),
	)

	for _, typed := range []string{"j", "ja", "jac", "jack"} {
		form.Update(func(g *forms.Group) {
			g.Field(customer.PathEmail).Input(typed)
		})
		clock.Advance(customer.DefaultMessageDelay - time.Millisecond)
	}
	assertNoMessage(t, messages)
	if form.EmailMessage() != "" {
		t.Fatalf("message must not change before the quiet window elapses")
	}

	clock.Advance(time.Millisecond)
	if got := waitMessage(t, messages); got != "Please enter a valid email address." {
		t.Fatalf("unexpected message %q", got)
	}
	assertNoMessage(t, messages)
	if got := form.EmailMessage(); got != "Please enter a valid email address." {
		t.Fatalf("EmailMessage out of sync: %q", got)
	}

	form.Update(func(g *forms.Group) {
		g.Field(customer.PathEmail).Input("")
	})
	clock.Advance(customer.DefaultMessageDelay)
	if got := waitMessage(t, messages); got != "Please enter your email address." {
		t.Fatalf("unexpected message %q", got)
	}

	form.Update(func(g *forms.Group) {
		g.Field(customer.PathEmail).Input("jack@example.com")
	})
	clock.Advance(customer.DefaultMessageDelay)
	if got := waitMessage(t, messages); got != "" {
		t.Fatalf("expected message cleared, got %q", got)
	}
}

func TestForm_MessageDelayOption(t *testing.T) {
	clock := clockwork.NewFakeClock()
	messages := make(chan string, 2)
	form := newForm(t,
		customer.WithClock(clock),
		customer.WithMessageDelay(200*time.Millisecond),
		customer.WithMessageListener(func(msg string) { messages <- msg }),
	)
	if got := form.MessageDelay(); got != 200*time.Millisecond {
		t.Fatalf("expected 200ms delay, got %v", got)
	}
	if got := newForm(t, customer.WithMessageDelay(0)).MessageDelay(); got != customer.DefaultMessageDelay {
		t.Fatalf("expected default delay for a non-positive override, got %v", got)
	}

	form.Update(func(g *forms.Group) {
		g.Field(customer.PathEmail).Input("nope")
	})
	clock.Advance(200 * time.Millisecond)
	if got := waitMessage(t, messages); got != "Please enter a valid email address." {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestForm_PopulateTestData(t *testing.T) {
	form := newForm(t)
	form.Update(func(g *forms.Group) {
		g.Field(customer.PathEmail).Input("jack@example.com")
	})

	form.PopulateTestData()

	form.Update(func(g *forms.Group) {
		want := map[string]any{
			"firstName": "Jack",
			"lastName":  "Harkness",
			"emailGroup": map[string]any{
				"email":        "jack@example.com",
				"confirmEmail": "",
			},
			"phone":        "",
			"notification": "email",
			"rating":       nil,
			"sendCatalog":  false,
		}
		if diff := cmp.Diff(want, g.Values()); diff != "" {
			t.Fatalf("values mismatch (-want +got):\n%s", diff)
		}
		if g.Get(customer.PathFirstName).Dirty() || g.Get(customer.PathFirstName).Touched() {
			t.Fatalf("populated fields must keep their interaction flags")
		}
	})
}

func TestForm_SaveLogsPayloadInDeclarationOrder(t *testing.T) {
	var logs bytes.Buffer
	form := newForm(t, customer.WithLogger(logging.New("info", "json", &logs)))
	form.PopulateTestData()

	payload, err := form.Save()
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	want := `{"firstName":"Jack","lastName":"Harkness","emailGroup":{"email":"","confirmEmail":""},"phone":"","notification":"email","rating":null,"sendCatalog":false}`
	if string(payload) != want {
		t.Fatalf("payload mismatch\nwant %s\ngot  %s", want, payload)
	}

	records := testsupport.DecodeJSONLines(t, &logs)
	if len(records) != 2 {
		t.Fatalf("expected two log records, got %d: %v", len(records), records)
	}
	status := records[0]
	if status["msg"] != "customer form" || status["status"] != string(forms.StatusInvalid) {
		t.Fatalf("unexpected status record: %v", status)
	}
	errs, ok := status["errors"].(map[string]any)
	if !ok {
		t.Fatalf("expected errors on an invalid save, got %v", status["errors"])
	}
	if _, ok := errs[customer.PathEmail]; !ok {
		t.Fatalf("expected %s errors, got %v", customer.PathEmail, errs)
	}

	saved := records[1]
	if saved["msg"] != "customer saved" || saved["payload"] != want {
		t.Fatalf("unexpected saved record: %v", saved)
	}
	if saved["form_id"] != form.ID() {
		t.Fatalf("expected form id %s, got %v", form.ID(), saved["form_id"])
	}
}

func TestForm_SaveValidForm(t *testing.T) {
	var logs bytes.Buffer
	form := newForm(t, customer.WithLogger(logging.New("info", "json", &logs)))
	form.PopulateTestData()
	form.Update(func(g *forms.Group) {
		g.Field(customer.PathEmail).Input("jack@example.com")
		g.Field(customer.PathConfirmEmail).Input("jack@example.com")
		g.Field(customer.PathRating).Input(4)
	})
	if !form.Valid() {
		t.Fatalf("expected a valid form")
	}

	if _, err := form.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	records := testsupport.DecodeJSONLines(t, &logs)
	if len(records) != 2 {
		t.Fatalf("expected no schema warning, got %v", records)
	}
	if records[0]["status"] != string(forms.StatusValid) {
		t.Fatalf("expected VALID status, got %v", records[0]["status"])
	}
	if _, ok := records[0]["errors"]; ok {
		t.Fatalf("valid saves must not log errors")
	}
}

func TestForm_CloseStopsReactiveRules(t *testing.T) {
	clock := clockwork.NewFakeClock()
	messages := make(chan string, 2)
	form, err := customer.NewForm(
		customer.WithClock(clock),
		customer.WithMessageListener(func(msg string) { messages <- msg }),
	)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	form.Update(func(g *forms.Group) {
		g.Field(customer.PathEmail).Input("nope")
	})
	if err := form.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	clock.Advance(2 * customer.DefaultMessageDelay)
	assertNoMessage(t, messages)

	form.Update(func(g *forms.Group) {
		g.Field(customer.PathNotification).Input(customer.NotifyByText)
		if g.Get(customer.PathPhone).Invalid() {
			t.Fatalf("notification changes must not reach the phone after Close")
		}
	})

	if err := form.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
