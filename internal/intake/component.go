package intake

import (
	"context"

	"github.com/emekaobi/staffintake/pkg/live"
	"github.com/emekaobi/staffintake/pkg/logging"
)

// SuccessMessage is shown after the endpoint accepts a registration.
const SuccessMessage = "Registration submitted successfully"

// Component is the live view over a Form. All handlers run on the session's
// event loop; the only background work is the submission request, whose
// result comes back through HandleInfo.
type Component struct {
	live.BaseComponent

	form      *Form
	submitter Submitter
	log       logging.Logger

	// notice is the success banner; failure the dismissible error one.
	notice  string
	failure string

	// syncSubmit runs the submission inline instead of on a goroutine.
	// Tests use it to keep the pipeline deterministic.
	syncSubmit bool
}

// ComponentOpt configures a component.
type ComponentOpt func(*Component)

// WithComponentLogger sets the component logger.
func WithComponentLogger(log logging.Logger) ComponentOpt {
	return func(c *Component) { c.log = log }
}

// WithSyncSubmit makes submissions run inline. For tests.
func WithSyncSubmit() ComponentOpt {
	return func(c *Component) { c.syncSubmit = true }
}

// NewComponent creates the intake form component.
func NewComponent(form *Form, submitter Submitter, opts ...ComponentOpt) *Component {
	c := &Component{
		form:      form,
		submitter: submitter,
		log:       logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the component name.
func (c *Component) Name() string {
	return "staff-intake"
}

// Form exposes the underlying form. Used by session hooks for draft
// persistence and by tests.
func (c *Component) Form() *Form {
	return c.form
}

// Failure returns the current failure banner, "" when none.
func (c *Component) Failure() string {
	return c.failure
}

// Notice returns the current success banner, "" when none.
func (c *Component) Notice() string {
	return c.notice
}

// Mount initializes the component. Without an explicit logger it adopts the
// request-scoped one carried on the mount context.
func (c *Component) Mount(ctx context.Context, params live.Params) error {
	if _, ok := c.log.(logging.NopLogger); ok {
		c.log = logging.FromContext(ctx)
	}
	return nil
}

// HandleEvent processes one user interaction.
func (c *Component) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	switch event {
	case "set_field":
		name, _ := payload["field"].(string)
		value, _ := payload["value"].(string)
		if name != "" {
			c.form.Set(name, value)
		}

	case "next_step":
		c.form.Advance()

	case "prev_step":
		c.form.Retreat()

	case "goto_step":
		if step, ok := payload["step"].(float64); ok {
			c.form.GoTo(int(step))
		}

	case "submit":
		c.submit(ctx)

	case "reset":
		c.form.Reset()
		c.notice = ""
		c.failure = ""

	case "dismiss_notice":
		c.notice = ""
		c.failure = ""
	}

	return nil
}

// submit runs the submission pipeline: revalidate everything, then issue
// exactly one request. Repeated submits while one is outstanding are
// dropped.
func (c *Component) submit(ctx context.Context) {
	if c.form.Step() != StepContact {
		return
	}
	if c.form.Submitting() {
		return
	}
	if !c.form.ValidateAll() {
		c.log.Info("submission blocked by validation errors")
		return
	}

	payload := c.form.Payload()
	c.form.BeginSubmit()
	c.failure = ""

	deliver := func() {
		result := c.submitter.Submit(context.WithoutCancel(ctx), payload)
		if notify := c.Notifier(); notify != nil {
			notify(result)
			return
		}
		// No session runtime attached; process inline.
		_ = c.HandleInfo(ctx, result)
	}

	if c.syncSubmit {
		deliver()
		return
	}
	go deliver()
}

// HandleInfo receives the submission outcome.
func (c *Component) HandleInfo(ctx context.Context, msg any) error {
	result, ok := msg.(SubmitResult)
	if !ok {
		return nil
	}

	c.form.EndSubmit()
	if result.OK {
		c.log.Info("registration accepted")
		c.form.Reset()
		c.notice = SuccessMessage
		return nil
	}

	// Leave the record untouched so the user can retry without
	// re-entering data.
	c.log.Warn("registration rejected", logging.String("message", result.Message))
	c.failure = result.Message
	return nil
}

// Terminate handles cleanup.
func (c *Component) Terminate(ctx context.Context, reason live.TerminateReason) error {
	return nil
}
