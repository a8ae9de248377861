// Package orchestrator is the per-turn dispatcher. It loads the
// thread's conversation state, routes the turn by pending-mode
// priority, mutates state through the slot-filling and contact
// resolution flows, and gates every side effect behind an explicit
// confirmation.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ankithreddys/orchestrai/contacts"
	"github.com/ankithreddys/orchestrai/conversation"
	"github.com/ankithreddys/orchestrai/decision"
	"github.com/ankithreddys/orchestrai/executor"
)

type Config struct {
	// DefaultProvider selects the backend for threads that have not
	// chosen one (gmail or outlook).
	DefaultProvider string
	// RepolishOnEdit re-runs the polishing step when the user edits a
	// field after the draft was already polished.
	RepolishOnEdit bool
}

func DefaultConfig() Config {
	return Config{
		DefaultProvider: "gmail",
		RepolishOnEdit:  true,
	}
}

type Orchestrator struct {
	agent  decision.Agent
	dir    *contacts.Directory
	exec   executor.Executor
	store  conversation.Store
	logger *slog.Logger
	cfg    Config

	mu      sync.Mutex
	threads map[string]*sync.Mutex
}

func New(agent decision.Agent, dir *contacts.Directory, exec executor.Executor, store conversation.Store, logger *slog.Logger, cfg Config) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(cfg.DefaultProvider) == "" {
		cfg.DefaultProvider = "gmail"
	}
	return &Orchestrator{
		agent:   agent,
		dir:     dir,
		exec:    exec,
		store:   store,
		logger:  logger,
		cfg:     cfg,
		threads: make(map[string]*sync.Mutex),
	}
}

// ErrUnknownProvider reports a provider name outside the supported set.
var ErrUnknownProvider = errors.New("orchestrator: unknown provider")

// TurnOptions carries per-turn overrides supplied by the caller.
type TurnOptions struct {
	// Provider switches the thread to gmail or outlook for this turn
	// and the rest of the thread. Empty keeps the thread's current
	// provider.
	Provider string
}

// HandleTurn processes one user turn for a thread: load state, route,
// mutate, persist, reply. Turns within a thread run strictly
// sequentially; distinct threads proceed concurrently.
func (o *Orchestrator) HandleTurn(ctx context.Context, threadID, userText string) (string, error) {
	return o.HandleTurnOptions(ctx, threadID, userText, TurnOptions{})
}

// HandleTurnOptions is HandleTurn with caller overrides applied before
// the turn is routed.
func (o *Orchestrator) HandleTurnOptions(ctx context.Context, threadID, userText string, opts TurnOptions) (string, error) {
	provider, err := normalizeProvider(opts.Provider)
	if err != nil {
		return "", err
	}

	userText = strings.TrimSpace(userText)
	lock := o.threadLock(threadID)
	lock.Lock()
	defer lock.Unlock()

	state, err := o.store.Load(ctx, threadID)
	if err != nil {
		return "", fmt.Errorf("load thread %s: %w", threadID, err)
	}
	if provider != "" {
		state.Provider = provider
	}
	if state.Provider == "" {
		state.Provider = o.cfg.DefaultProvider
	}

	if userText == "" {
		return "Please provide a request.", nil
	}

	state.AppendTurn("user", userText)
	reply := o.dispatch(ctx, &state, userText)
	state.AppendTurn("assistant", reply)

	if err := o.store.Save(ctx, state); err != nil {
		return "", fmt.Errorf("save thread %s: %w", threadID, err)
	}
	return reply, nil
}

func normalizeProvider(name string) (string, error) {
	switch normalized := strings.ToLower(strings.TrimSpace(name)); normalized {
	case "", "gmail", "outlook":
		return normalized, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}

func (o *Orchestrator) threadLock(threadID string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	lock, ok := o.threads[threadID]
	if !ok {
		lock = &sync.Mutex{}
		o.threads[threadID] = lock
	}
	return lock
}

// dispatch routes by pending-mode priority. The order is load-bearing:
// disambiguation, then capture, then confirmation, then fresh intent.
func (o *Orchestrator) dispatch(ctx context.Context, st *conversation.State, text string) string {
	switch {
	case len(st.PendingDisambiguation) > 0:
		return o.handleDisambiguation(ctx, st, text)
	case st.PendingCapture != nil:
		return o.handleCapture(ctx, st, text)
	case st.AwaitingConfirmation:
		return o.handleConfirmation(ctx, st, text)
	}

	intent, err := o.agent.ClassifyGeneral(ctx, st.RecentHistory(decision.DefaultMaxHistory), text)
	if err != nil {
		o.logger.Warn("general intent classification failed", "thread", st.ThreadID, "error", err)
		if !st.Email.Empty() {
			return o.continueDraft(ctx, st)
		}
		return msgClarify
	}

	switch intent.Kind {
	case decision.GeneralSmallTalk:
		// Answered directly; no state change.
		reply, err := o.agent.Compose(ctx, st.RecentHistory(decision.DefaultMaxHistory), "Reply to the user's last message conversationally.")
		if err != nil || reply == "" {
			return msgIdleHint
		}
		return reply
	case decision.GeneralLookup:
		return o.renderContactLookup(intent.Query)
	case decision.GeneralTask:
		return o.continueDraft(ctx, st)
	default:
		if !st.Email.Empty() {
			return o.continueDraft(ctx, st)
		}
		return msgIdleHint
	}
}

// handleConfirmation routes a turn while an action set is staged.
// Side effects happen only in the confirm branch.
func (o *Orchestrator) handleConfirmation(ctx context.Context, st *conversation.State, text string) string {
	kind := keywordConfirmation(text)
	if kind == decision.ConfirmationUnknown {
		classified, err := o.agent.ClassifyConfirmation(ctx, st.RecentHistory(decision.DefaultMaxHistory), text)
		if err != nil {
			o.logger.Warn("confirmation classification failed", "thread", st.ThreadID, "error", err)
			return msgConfirmOrCancel
		}
		kind = classified
	}

	switch kind {
	case decision.ConfirmationConfirm:
		return o.executeStaged(ctx, st)
	case decision.ConfirmationCancel:
		st.Clear()
		return msgCancelled
	case decision.ConfirmationMoreDetail:
		st.AwaitingConfirmation = false
		return o.continueDraft(ctx, st)
	case decision.ConfirmationUnrelated:
		reply, err := o.agent.Compose(ctx, st.RecentHistory(decision.DefaultMaxHistory), "Answer the user's aside without mentioning the staged draft.")
		if err != nil || reply == "" {
			return msgConfirmOrCancel
		}
		return reply + "\n\nThe drafted actions are still waiting - reply `confirm` to execute or `cancel`."
	default:
		return msgConfirmOrCancel
	}
}

// executeStaged performs the confirmed action set. On partial failure
// it reports both outcomes; completed actions are not repeated when the
// user confirms again.
func (o *Orchestrator) executeStaged(ctx context.Context, st *conversation.State) string {
	var lines []string
	emailStaged := st.Email.ResolvedEmail != ""

	if emailStaged && !st.EmailSent {
		err := o.exec.SendEmail(ctx, executor.EmailRequest{
			Provider: st.Provider,
			To:       st.Email.ResolvedEmail,
			Subject:  st.Email.Subject,
			Body:     st.Email.Body,
		})
		if err != nil {
			o.logger.Warn("send email failed", "thread", st.ThreadID, "error", err)
			// Draft stays staged so the user can retry with confirm.
			return executionFailureMessage("email", err)
		}
		st.EmailSent = true
		lines = append(lines, fmt.Sprintf("Email to %s sent.", st.Email.ResolvedEmail))
	} else if emailStaged && st.EmailSent {
		lines = append(lines, fmt.Sprintf("Email to %s was already sent.", st.Email.ResolvedEmail))
	}

	if st.Calendar != nil {
		eventID, err := o.exec.CreateEvent(ctx, executor.EventRequest{
			Provider:    st.Provider,
			Title:       st.Calendar.Title,
			Start:       st.Calendar.Start,
			End:         st.Calendar.End,
			Attendees:   st.Calendar.Attendees,
			Location:    st.Calendar.Location,
			Description: st.Calendar.Description,
		})
		if err != nil {
			o.logger.Warn("create event failed", "thread", st.ThreadID, "error", err)
			lines = append(lines, executionFailureMessage("calendar event", err))
			// Keep the calendar staged for a retried confirm; the sent
			// email is remembered so it is not repeated.
			return strings.Join(lines, "\n")
		}
		lines = append(lines, fmt.Sprintf("Calendar event %q created (%s).", st.Calendar.Title, eventID))
	}

	st.Clear()
	return strings.Join(lines, "\n")
}

func executionFailureMessage(what string, err error) string {
	switch {
	case errors.Is(err, executor.ErrAuthExpired):
		return fmt.Sprintf("I couldn't complete the %s: your session with the provider has expired. Please re-authenticate, then reply `confirm` to retry - the draft is saved.", what)
	default:
		return fmt.Sprintf("The %s failed on the provider's side. Nothing was lost - reply `confirm` to retry or `cancel` to discard.", what)
	}
}

func keywordConfirmation(text string) decision.ConfirmationKind {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "confirm", "yes", "y", "send", "go ahead":
		return decision.ConfirmationConfirm
	case "cancel", "no", "n", "stop":
		return decision.ConfirmationCancel
	default:
		return decision.ConfirmationUnknown
	}
}
