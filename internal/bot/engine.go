package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/model"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/queue"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/service"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/whatsapp"
)

// Sender is the outbound side of the messaging gateway the engine replies
// through. *whatsapp.Client satisfies it.
type Sender interface {
	SendText(ctx context.Context, to, body string) (string, error)
	SendButtons(ctx context.Context, to, body string, buttons []whatsapp.Button) (string, error)
}

// EventPublisher pushes domain events to the broker. *queue.Publisher
// satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, event queue.Event) error
}

// Engine drives one conversation turn per inbound message: it loads the
// sender's state, dispatches on the current phase, replies through the
// gateway and persists the updated state.
type Engine struct {
	users    *service.UserService
	sessions *service.SessionService
	appeals  *service.AppealService
	sender   Sender
	states   StateStore
	events   EventPublisher // nil when no broker is configured
	log      zerolog.Logger
}

// NewEngine wires a conversation engine. events may be nil.
func NewEngine(users *service.UserService, sessions *service.SessionService, appeals *service.AppealService, sender Sender, states StateStore, events EventPublisher, log zerolog.Logger) *Engine {
	return &Engine{
		users:    users,
		sessions: sessions,
		appeals:  appeals,
		sender:   sender,
		states:   states,
		events:   events,
		log:      log.With().Str("component", "bot").Logger(),
	}
}

// HandleMessage processes one normalized inbound message. Errors inside a
// flow are reported to the sender as a generic failure; state collected so
// far is persisted either way so the conversation can resume.
func (e *Engine) HandleMessage(ctx context.Context, msg whatsapp.Message) {
	st, ok, err := e.states.Get(ctx, msg.From)
	if err != nil {
		e.log.Error().Err(err).Str("sender", msg.From).Msg("load state failed")
	}
	if !ok || err != nil {
		st = newState()
	}

	if err := e.dispatch(ctx, msg, &st); err != nil {
		e.log.Error().Err(err).Str("sender", msg.From).Str("phase", string(st.Phase)).Msg("conversation turn failed")
		e.reply(ctx, msg.From, "Sorry, something went wrong. Please try again or contact support if the issue persists.")
	}

	if err := e.states.Put(ctx, msg.From, st); err != nil {
		e.log.Error().Err(err).Str("sender", msg.From).Msg("persist state failed")
	}
}

func (e *Engine) dispatch(ctx context.Context, msg whatsapp.Message, st *State) error {
	// A banned user is cut off before any flow runs.
	if st.UserID != "" {
		u, err := e.users.FindByID(ctx, st.UserID)
		if err != nil {
			return err
		}
		if u.IsBanned {
			e.reply(ctx, msg.From, "Your account has been permanently banned. You cannot use this service.")
			return nil
		}
	}

	switch st.Phase {
	case PhaseGreeting:
		return e.handleGreeting(ctx, msg, st)
	case PhaseSignup:
		return e.handleSignup(ctx, msg, st)
	case PhaseIntakeForm:
		return e.handleIntakeForm(ctx, msg, st)
	case PhaseAppealForm:
		return e.handleAppealForm(ctx, msg, st)
	case PhaseFeedbackForm:
		return e.handleFeedbackForm(ctx, msg, st)
	case PhaseMedicalReportRequest:
		return e.handleMedicalReport(ctx, msg, st)
	default:
		return e.handleDefault(ctx, msg, st)
	}
}

// handleGreeting starts the conversation: greeting keywords route to either
// signup or the returning-user flow, anything else gets the welcome prompt.
func (e *Engine) handleGreeting(ctx context.Context, msg whatsapp.Message, st *State) error {
	if !isGreeting(msg.TextBody) {
		e.reply(ctx, msg.From, "Welcome to our healthcare service! 👋\n\nPlease type \"hello\" or \"start\" to begin.")
		return nil
	}

	returning, err := e.users.IsReturningUser(ctx, msg.From)
	if err != nil {
		return err
	}
	if returning {
		return e.handleReturningUser(ctx, msg.From, st)
	}
	return e.startSignup(ctx, msg.From, st)
}

// handleReturningUser re-binds the conversation to the stored user record
// and routes on the review state.
func (e *Engine) handleReturningUser(ctx context.Context, from string, st *State) error {
	u, err := e.users.FindByWhatsAppNumber(ctx, from)
	if err != nil {
		return err
	}
	st.UserID = u.ID

	switch u.Status {
	case model.UserPending:
		st.Phase = PhasePendingApproval
		e.reply(ctx, from, "Thank you for your registration! Your application is now under review by our admin team. We will notify you once it has been processed.")
	case model.UserAccepted:
		return e.handleAcceptedUser(ctx, from, u, st)
	case model.UserRejected:
		return e.handleRejectedUser(ctx, from, u, st)
	case model.UserBanned:
		e.reply(ctx, from, "Your account has been permanently banned. You cannot use this service.")
	}
	return nil
}

func (e *Engine) handleAcceptedUser(ctx context.Context, from string, u model.User, st *State) error {
	ongoing, err := e.users.HasOngoingSession(ctx, u.ID)
	if err != nil {
		return err
	}
	if ongoing {
		// TODO: consume the continue/restart reply ids and resume or
		// restart the ongoing session accordingly.
		e.buttons(ctx, from, "You have an ongoing session. What would you like to do?", []whatsapp.Button{
			{ID: "continue", Title: "Continue Ongoing"},
			{ID: "restart", Title: "Start Again"},
		})
		return nil
	}
	return e.startIntakeForm(ctx, from, st)
}

func (e *Engine) handleRejectedUser(ctx context.Context, from string, u model.User, st *State) error {
	pending, err := e.appeals.HasPending(ctx, u.ID)
	if err != nil {
		return err
	}
	if pending {
		e.reply(ctx, from, "You already have a pending appeal. Please wait for our admin team to review it.")
		return nil
	}

	can, err := e.users.CanAppeal(ctx, u.ID)
	if err != nil {
		return err
	}
	if can {
		return e.startAppealForm(ctx, from, st)
	}

	if u.RejectionCount >= model.BanThreshold {
		e.reply(ctx, from, "Your account has been permanently banned due to multiple rejections. You cannot appeal further.")
	} else {
		e.reply(ctx, from, "Your application has been rejected. You have been rejected "+strconv.Itoa(u.RejectionCount)+" times. You can appeal this decision.")
	}
	return nil
}

func (e *Engine) startSignup(ctx context.Context, from string, st *State) error {
	st.Phase = PhaseSignup
	st.Signup = SignupData{}
	e.reply(ctx, from, "Welcome! Let's get you registered. Please provide your full name:")
	return nil
}

// handleSignup collects full name, age, gender and passport one answer at a
// time. Invalid answers re-prompt without advancing the step.
func (e *Engine) handleSignup(ctx context.Context, msg whatsapp.Message, st *State) error {
	text := msg.TextBody

	switch st.Signup.Step {
	case 0: // full name
		st.Signup.FullName = text
		st.Signup.Step = 1
		e.reply(ctx, msg.From, "Please provide your age (number only):")
	case 1: // age
		age, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil || age < 1 || age > 120 {
			e.reply(ctx, msg.From, "Please provide a valid age (1-120):")
			return nil
		}
		st.Signup.Age = age
		st.Signup.Step = 2
		e.buttons(ctx, msg.From, "Please select your gender:", []whatsapp.Button{
			{ID: "male", Title: "Male"},
			{ID: "female", Title: "Female"},
			{ID: "other", Title: "Other"},
		})
	case 2: // gender
		gender, ok := model.ParseGender(text)
		if !ok {
			e.reply(ctx, msg.From, "Please select a valid gender option (1, 2, or 3):")
			return nil
		}
		st.Signup.Gender = string(gender)
		st.Signup.Step = 3
		e.reply(ctx, msg.From, "Please provide your passport number:")
	case 3: // passport
		u, err := e.users.Register(ctx, service.RegisterUser{
			WhatsAppNumber: msg.From,
			FullName:       st.Signup.FullName,
			Age:            st.Signup.Age,
			Gender:         model.Gender(st.Signup.Gender),
			Passport:       text,
		})
		if err != nil {
			return err
		}
		st.UserID = u.ID
		st.Phase = PhasePendingApproval
		e.publish(ctx, queue.Event{
			Type:           queue.EventUserRegistered,
			UserID:         u.ID,
			WhatsAppNumber: u.WhatsAppNumber,
		})
		e.reply(ctx, msg.From, "Thank you for your registration! Your application is now under review by our admin team. We will notify you once it has been processed.")
	}
	return nil
}

func (e *Engine) startIntakeForm(ctx context.Context, from string, st *State) error {
	st.Phase = PhaseIntakeForm
	st.Intake = IntakeData{}
	e.reply(ctx, from, "Let's complete your intake form. Please provide your full name:")
	return nil
}

// handleIntakeForm collects the six intake answers and, on the last one,
// creates the session, stores the form and kicks off the care workflow.
func (e *Engine) handleIntakeForm(ctx context.Context, msg whatsapp.Message, st *State) error {
	text := msg.TextBody

	switch st.Intake.Step {
	case 0: // name
		st.Intake.Name = text
		st.Intake.Step = 1
		e.reply(ctx, msg.From, "Please provide your age:")
	case 1: // age
		age, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil || age < 1 || age > 120 {
			e.reply(ctx, msg.From, "Please provide a valid age (1-120):")
			return nil
		}
		st.Intake.Age = age
		st.Intake.Step = 2
		e.reply(ctx, msg.From, "Please provide your state:")
	case 2: // state
		st.Intake.State = text
		st.Intake.Step = 3
		e.buttons(ctx, msg.From, "What type of care do you need?", []whatsapp.Button{
			{ID: "medication", Title: "Medication"},
			{ID: "surgical", Title: "Surgical"},
		})
	case 3: // type of care
		careType, ok := model.ParseCareType(text)
		if !ok {
			e.reply(ctx, msg.From, "Please select a valid care type (1 or 2):")
			return nil
		}
		st.Intake.CareType = string(careType)
		st.Intake.Step = 4
		e.reply(ctx, msg.From, "Please provide your WhatsApp number:")
	case 4: // contact number
		st.Intake.ContactNumber = text
		st.Intake.Step = 5
		e.reply(ctx, msg.From, "Please provide your address:")
	case 5: // address
		st.Intake.Address = text
		return e.completeIntake(ctx, msg.From, st)
	}
	return nil
}

func (e *Engine) completeIntake(ctx context.Context, from string, st *State) error {
	sess, err := e.sessions.Create(ctx, st.UserID, nil)
	if err != nil {
		return err
	}

	careType := model.CareType(st.Intake.CareType)
	if _, err := e.sessions.SubmitIntakeForm(ctx, service.CreateIntakeForm{
		SessionID:     sess.ID,
		UserID:        st.UserID,
		Name:          st.Intake.Name,
		Age:           st.Intake.Age,
		State:         st.Intake.State,
		TypeOfCare:    careType,
		ContactNumber: st.Intake.ContactNumber,
		Address:       st.Intake.Address,
	}); err != nil {
		return err
	}
	if err := e.sessions.ProcessIntakeForm(ctx, sess.ID); err != nil {
		return err
	}

	e.publish(ctx, queue.Event{
		Type:           queue.EventIntakeCompleted,
		UserID:         st.UserID,
		WhatsAppNumber: from,
		SessionID:      sess.ID,
		CareType:       string(careType),
	})

	if careType == model.CareMedication {
		st.Phase = PhaseIntakeCompleted
		e.reply(ctx, from, "Thank you for completing your intake form! You have been assigned a counselor. You will receive medication information and dosage instructions shortly.")
	} else {
		// Surgical care needs the report right away, so the upload flow
		// starts here rather than waiting for the scheduled reminder.
		st.Phase = PhaseMedicalReportRequest
		e.reply(ctx, from, "Thank you for completing your intake form! Please upload your doctor's report or medical scan as a document.")
	}
	return nil
}

func (e *Engine) startAppealForm(ctx context.Context, from string, st *State) error {
	st.Phase = PhaseAppealForm
	e.reply(ctx, from, "Please provide a detailed reason for your appeal. Explain why you believe your application should be reconsidered:")
	return nil
}

func (e *Engine) handleAppealForm(ctx context.Context, msg whatsapp.Message, st *State) error {
	reason := strings.TrimSpace(msg.TextBody)
	if len([]rune(reason)) < 10 {
		e.reply(ctx, msg.From, "Please provide a detailed reason for your appeal (at least 10 characters):")
		return nil
	}

	ap, err := e.appeals.Create(ctx, st.UserID, reason)
	if errors.Is(err, service.ErrPendingAppealExists) {
		st.Phase = PhaseAppealSubmitted
		e.reply(ctx, msg.From, "You already have a pending appeal. Please wait for our admin team to review it.")
		return nil
	}
	if err != nil {
		return err
	}

	st.Phase = PhaseAppealSubmitted
	e.publish(ctx, queue.Event{
		Type:           queue.EventAppealSubmitted,
		UserID:         st.UserID,
		WhatsAppNumber: msg.From,
		AppealID:       ap.ID,
	})
	e.reply(ctx, msg.From, "Your appeal has been submitted successfully. Our admin team will review it and get back to you soon.")
	return nil
}

// StartFeedback moves a sender into the feedback flow for the given session.
// It is called by the reminder dispatcher when a FEEDBACK_REQUEST falls due.
func (e *Engine) StartFeedback(ctx context.Context, sender, sessionID string) error {
	st, ok, err := e.states.Get(ctx, sender)
	if err != nil {
		return err
	}
	if !ok {
		st = newState()
	}
	st.Phase = PhaseFeedbackForm
	st.Feedback = FeedbackData{SessionID: sessionID}

	e.reply(ctx, sender, "We would love to hear about your session. Please rate it from 1 to 5:")
	return e.states.Put(ctx, sender, st)
}

func (e *Engine) handleFeedbackForm(ctx context.Context, msg whatsapp.Message, st *State) error {
	text := msg.TextBody

	switch st.Feedback.Step {
	case 0: // rating
		rating, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil || rating < 1 || rating > 5 {
			e.reply(ctx, msg.From, "Please provide a rating between 1 and 5:")
			return nil
		}
		st.Feedback.Rating = rating
		st.Feedback.Step = 1
		e.reply(ctx, msg.From, "Please provide any additional comments (or type \"skip\" to skip):")
	case 1: // comment
		var comment *string
		if !strings.EqualFold(strings.TrimSpace(text), "skip") {
			comment = &text
		}
		if err := e.sessions.SubmitFeedback(ctx, st.Feedback.SessionID, st.Feedback.Rating, comment); err != nil {
			return err
		}
		st.Phase = PhaseFeedbackCompleted
		e.publish(ctx, queue.Event{
			Type:           queue.EventFeedbackCompleted,
			UserID:         st.UserID,
			WhatsAppNumber: msg.From,
			SessionID:      st.Feedback.SessionID,
		})
		e.reply(ctx, msg.From, "Thank you for your feedback! Your response has been recorded.")
	}
	return nil
}

// RequestMedicalReport moves a sender into the report upload flow. It is
// called by the reminder dispatcher when a MEDICAL_REPORT_REQUEST falls due.
func (e *Engine) RequestMedicalReport(ctx context.Context, sender string) error {
	st, ok, err := e.states.Get(ctx, sender)
	if err != nil {
		return err
	}
	if !ok {
		st = newState()
	}
	st.Phase = PhaseMedicalReportRequest

	e.reply(ctx, sender, "Please upload your medical report or doctor's scan as a document.")
	return e.states.Put(ctx, sender, st)
}

func (e *Engine) handleMedicalReport(ctx context.Context, msg whatsapp.Message, st *State) error {
	if msg.Type != "document" {
		e.reply(ctx, msg.From, "Please upload your medical report or doctor's scan as a document.")
		return nil
	}
	st.Phase = PhaseMedicalReportReceived
	e.reply(ctx, msg.From, "Thank you for uploading your medical report. Our team will review it and get back to you soon.")
	return nil
}

// handleDefault covers every settled phase: greetings re-enter the main
// flow, help and status answer directly, anything else gets a hint.
func (e *Engine) handleDefault(ctx context.Context, msg whatsapp.Message, st *State) error {
	text := strings.ToLower(msg.TextBody)

	switch {
	case isGreeting(msg.TextBody):
		return e.handleGreeting(ctx, msg, st)
	case strings.Contains(text, "help"):
		e.reply(ctx, msg.From, "Here are the available commands:\n• \"hello\" or \"start\" - Begin registration\n• \"status\" - Check your application status\n• \"help\" - Show this help message")
	case strings.Contains(text, "status"):
		return e.sendStatus(ctx, msg.From, st)
	default:
		e.reply(ctx, msg.From, "I didn't understand that. Type \"help\" for available commands or \"hello\" to start registration.")
	}
	return nil
}

func (e *Engine) sendStatus(ctx context.Context, from string, st *State) error {
	if st.UserID == "" {
		e.reply(ctx, from, "You are not registered yet. Please type \"hello\" to start registration.")
		return nil
	}
	u, err := e.users.FindByID(ctx, st.UserID)
	if err != nil {
		return err
	}
	e.reply(ctx, from, "Your current status: "+string(u.Status)+"\nRejection count: "+strconv.Itoa(u.RejectionCount))
	return nil
}

// reply sends a text message; delivery failures are logged, not propagated,
// so a flaky gateway cannot corrupt conversation state.
func (e *Engine) reply(ctx context.Context, to, body string) {
	if _, err := e.sender.SendText(ctx, to, body); err != nil {
		e.log.Error().Err(err).Str("to", to).Msg("send reply failed")
	}
}

func (e *Engine) buttons(ctx context.Context, to, body string, btns []whatsapp.Button) {
	if _, err := e.sender.SendButtons(ctx, to, body, btns); err != nil {
		e.log.Error().Err(err).Str("to", to).Msg("send buttons failed")
	}
}

// publish emits a domain event best effort; the conversation never fails on
// broker trouble.
func (e *Engine) publish(ctx context.Context, ev queue.Event) {
	if e.events == nil {
		return
	}
	if err := e.events.Publish(ctx, ev); err != nil {
		e.log.Warn().Err(err).Str("type", ev.Type).Msg("event publish failed")
	}
}

func isGreeting(text string) bool {
	t := strings.ToLower(text)
	return strings.Contains(t, "hello") || strings.Contains(t, "hi") || strings.Contains(t, "start")
}
