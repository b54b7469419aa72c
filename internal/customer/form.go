// Package customer implements the customer sign-up form: its schema, its
// validators and the reactive rules tying fields together.
package customer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/goliatone/go-customerform/internal/platform/logging"
	"github.com/goliatone/go-customerform/pkg/debounce"
	"github.com/goliatone/go-customerform/pkg/forms"
	"github.com/goliatone/go-customerform/pkg/openapi"
)

const (
	PathFirstName    = "firstName"
	PathLastName     = "lastName"
	PathEmailGroup   = "emailGroup"
	PathEmail        = "emailGroup.email"
	PathConfirmEmail = "emailGroup.confirmEmail"
	PathPhone        = "phone"
	PathNotification = "notification"
	PathRating       = "rating"
	PathSendCatalog  = "sendCatalog"

	// DefaultMessageDelay is the quiet window before the email message
	// reflects what the user typed.
	DefaultMessageDelay = time.Second
)

// Form is the customer form component. It owns the form tree, keeps the
// phone validators in step with the notification preference and maintains a
// debounced email message.
//
// The form tree is not goroutine-safe and the debounced message is computed
// on a timer goroutine, so every access goes through the Form lock. Form
// implements sync.Locker for callers that mutate Controls directly; the
// exported methods lock on their own.
type Form struct {
	mu sync.Mutex

	id       uuid.UUID
	logger   *slog.Logger
	clock    clockwork.Clock
	delay    time.Duration
	onMsg    func(string)
	customer Customer

	controls     *forms.Group
	schema       *openapi3.Schema
	debouncer    *debounce.Debouncer
	subs         []forms.Subscription
	emailMessage string
	closed       bool
}

// Option configures a Form.
type Option func(*Form)

// WithLogger sets the logger used by Save.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithClock swaps the clock driving the email message debounce.
func WithClock(clock clockwork.Clock) Option {
	return func(f *Form) {
		if clock != nil {
			f.clock = clock
		}
	}
}

// WithMessageDelay overrides DefaultMessageDelay.
func WithMessageDelay(delay time.Duration) Option {
	return func(f *Form) {
		if delay > 0 {
			f.delay = delay
		}
	}
}

// WithMessageListener registers fn to receive every email message update.
// fn runs without the Form lock held.
func WithMessageListener(fn func(string)) Option {
	return func(f *Form) {
		f.onMsg = fn
	}
}

// WithCustomer seeds the customer record.
func WithCustomer(c Customer) Option {
	return func(f *Form) {
		f.customer = c
	}
}

// NewForm builds the form tree and starts the reactive rules. Call Close to
// release them.
func NewForm(opts ...Option) (*Form, error) {
	f := &Form{
		id:       uuid.New(),
		logger:   logging.Discard(),
		clock:    clockwork.NewRealClock(),
		delay:    DefaultMessageDelay,
		customer: New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	controls, err := NewControls()
	if err != nil {
		return nil, err
	}
	f.controls = controls
	f.schema = openapi.SchemaFor(controls)
	f.debouncer = debounce.New(f.delay, debounce.WithClock(f.clock))

	notification := controls.Get(PathNotification)
	email := controls.Get(PathEmail)
	if notification == nil || email == nil {
		return nil, fmt.Errorf("customer: form is missing %q or %q", PathNotification, PathEmail)
	}

	f.subs = append(f.subs,
		notification.ValueChanges(func(value any) {
			f.setNotification(value)
		}),
		email.ValueChanges(func(any) {
			f.debouncer.Trigger(f.refreshEmailMessage)
		}),
	)
	f.logger.Debug("customer form ready",
		slog.String("form_id", f.ID()),
		slog.Duration("message_delay", f.debouncer.Wait()),
	)
	return f, nil
}

// ID identifies the component instance in logs.
func (f *Form) ID() string {
	return f.id.String()
}

// MessageDelay reports the quiet window of the email message.
func (f *Form) MessageDelay() time.Duration {
	return f.debouncer.Wait()
}

// Lock acquires the Form lock.
func (f *Form) Lock() {
	f.mu.Lock()
}

// Unlock releases the Form lock.
func (f *Form) Unlock() {
	f.mu.Unlock()
}

// Controls returns the form tree. Hold the Form lock while using it.
func (f *Form) Controls() *forms.Group {
	return f.controls
}

// Update runs fn with the Form lock held.
func (f *Form) Update(fn func(*forms.Group)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f.controls)
}

// Customer returns the customer record the form was created with.
func (f *Form) Customer() Customer {
	return f.customer
}

// Schema returns the OpenAPI schema describing the form value.
func (f *Form) Schema() *openapi3.Schema {
	return f.schema
}

// Valid reports whether the whole form passes validation.
func (f *Form) Valid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.controls.Valid()
}

// EmailMessage returns the current live email message.
func (f *Form) EmailMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.emailMessage
}

// SetNotification applies the phone validators derived from notifyVia and
// re-validates the phone field.
func (f *Form) SetNotification(notifyVia string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setNotification(notifyVia)
}

// setNotification expects the lock to be held; it runs inside the
// notification value-change listener.
func (f *Form) setNotification(notifyVia any) {
	phone := f.controls.Get(PathPhone)
	if phone == nil {
		return
	}
	phone.SetValidators(PhoneValidators(notifyVia)...)
	phone.UpdateValueAndValidity()
}

func (f *Form) refreshEmailMessage() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	msg := MessageFor(f.controls.Get(PathEmail))
	f.emailMessage = msg
	listener := f.onMsg
	f.mu.Unlock()

	if listener != nil {
		listener(msg)
	}
}

// PopulateTestData fills firstName, lastName and sendCatalog with sample
// values. Other fields and all interaction flags are left alone.
func (f *Form) PopulateTestData() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.controls.PatchValue(map[string]any{
		PathFirstName:   "Jack",
		PathLastName:    "Harkness",
		PathSendCatalog: false,
	})
}

// Save serialises the whole value tree as JSON, logs it and returns it.
// Save does not check validity; callers decide whether an invalid form may be
// saved.
func (f *Form) Save() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	payload, err := json.Marshal(f.controls)
	if err != nil {
		return nil, fmt.Errorf("customer: save: %w", err)
	}

	valid := f.controls.Valid()
	attrs := []any{
		slog.String("form_id", f.ID()),
		slog.String("status", string(f.controls.Status())),
		slog.Bool("dirty", f.controls.Dirty()),
		slog.Bool("touched", f.controls.Touched()),
	}
	if !valid {
		attrs = append(attrs, slog.Any("errors", errorKeys(f.controls)))
	}
	if valid {
		if err := openapi.ValidateValue(f.schema, f.controls.Values()); err != nil {
			f.logger.Warn("customer payload does not match schema",
				slog.String("form_id", f.ID()),
				slog.Any("error", err),
			)
		}
	}
	f.logger.Info("customer form", attrs...)
	f.logger.Info("customer saved",
		slog.String("form_id", f.ID()),
		slog.String("payload", string(payload)),
	)
	return payload, nil
}

// Close stops the reactive rules and any pending email message update. It is
// safe to call more than once.
func (f *Form) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	for _, sub := range f.subs {
		sub.Unsubscribe()
	}
	f.subs = nil
	f.debouncer.Stop()
	return nil
}

func errorKeys(root *forms.Group) map[string][]string {
	collected := forms.CollectErrors(root)
	if len(collected) == 0 {
		return nil
	}
	out := make(map[string][]string, len(collected))
	for path, errs := range collected {
		out[path] = errs.Keys()
	}
	return out
}
