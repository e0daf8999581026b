package assistant

// Package assistant is the conversation manager: it persists the user's
// message, runs the context -> model -> classify -> resolve -> execute
// pipeline, and persists the outcome. A failed turn appends an apology; the
// user's message is never rolled back.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qmuntal/stateless"
	"github.com/sashabaranov/go-openai"

	"github.com/workhub-io/assistant/internal/config"
	"github.com/workhub-io/assistant/internal/executor"
	"github.com/workhub-io/assistant/internal/history"
	"github.com/workhub-io/assistant/internal/llm"
	"github.com/workhub-io/assistant/internal/logger"
	"github.com/workhub-io/assistant/internal/protocol"
	"github.com/workhub-io/assistant/internal/snapshot"
)

// FSM States
type FSMState stateless.State

var (
	StateReadyToBuildContext FSMState = "ReadyToBuildContext"
	StateReadyToCallLLM      FSMState = "ReadyToCallLLM"
	StateExecutingAction     FSMState = "ExecutingAction"
	StateDone                FSMState = "Done"  // Terminal: assistant text ready
	StateError               FSMState = "Error" // Terminal: pipeline failure
)

// FSM Triggers
type FSMTrigger stateless.Trigger

var (
	TriggerTurnStarted        FSMTrigger = "TurnStarted"
	TriggerContextBuilt       FSMTrigger = "ContextBuilt"
	TriggerLLMAnswered        FSMTrigger = "LLMAnswered"
	TriggerLLMRequestedAction FSMTrigger = "LLMRequestedAction"
	TriggerActionExecuted     FSMTrigger = "ActionExecuted"
	TriggerErrorOccurred      FSMTrigger = "ErrorOccurred"
)

// Reply is what the embedding chat feature renders for one turn.
type Reply struct {
	// Text is the assistant message appended to the conversation.
	Text string `json:"result_text"`
	// Description carries the underlying error on internal failure, for
	// diagnostic display.
	Description string `json:"description,omitempty"`
	// Affected lists the cached view keys the caller should invalidate.
	Affected []string `json:"affected,omitempty"`
}

// Assistant orchestrates one conversation turn at a time.
type Assistant struct {
	llmClient llm.Client
	cfg       config.Config
	history   *history.Store
	builder   *snapshot.Builder
	executor  *executor.Executor
	proposals *proposalBook
	now       func() time.Time
}

// New creates the assistant.
func New(llmClient llm.Client, cfg config.Config, hist *history.Store, builder *snapshot.Builder, exec *executor.Executor) *Assistant {
	return &Assistant{
		llmClient: llmClient,
		cfg:       cfg,
		history:   hist,
		builder:   builder,
		executor:  exec,
		proposals: newProposalBook(),
		now:       time.Now,
	}
}

// History returns the user's conversation in order.
func (a *Assistant) History(ctx context.Context, userID string) ([]history.Message, error) {
	return a.history.List(ctx, userID)
}

// Process handles one user turn. The returned error is reserved for failures
// that prevent the conversation from being recorded at all; pipeline failures
// come back as an apologetic Reply with Description set.
func (a *Assistant) Process(ctx context.Context, userID, message string) (Reply, error) {
	userMsg, err := a.history.Append(ctx, history.Message{
		UserID:  userID,
		Sender:  history.SenderUser,
		Content: message,
	})
	if err != nil {
		return Reply{}, fmt.Errorf("append user message: %w", err)
	}

	reply := a.runTurn(ctx, userID, message)

	if _, err := a.history.Append(ctx, history.Message{
		UserID:    userID,
		Sender:    history.SenderAssistant,
		Content:   reply.Text,
		ReplyToID: userMsg.ID,
	}); err != nil {
		return Reply{}, fmt.Errorf("append assistant message: %w", err)
	}
	return reply, nil
}

// runTurn produces the assistant's text for one turn. Failures are converted
// into the apology reply here so Process always has something to append.
func (a *Assistant) runTurn(ctx context.Context, userID, message string) Reply {
	// An outstanding proposal is consulted before the model: an affirmative
	// message executes the stored payload, anything else discards it and the
	// message is processed normally.
	if p, ok := a.proposals.take(userID, a.now()); ok {
		if isAffirmative(message) {
			return a.executeProposal(ctx, userID, p)
		}
		logger.L.Debug("pending proposal discarded", "user_id", userID, "kind", p.Kind)
	}

	reply, err := a.pipeline(ctx, userID)
	if err != nil {
		logger.L.Error("assistant turn failed", "user_id", userID, "error", err)
		return Reply{
			Text:        fmt.Sprintf("Sorry, I'm having trouble: %s", describeFailure(err)),
			Description: err.Error(),
		}
	}
	return reply
}

func (a *Assistant) executeProposal(ctx context.Context, userID string, p *PendingProposal) Reply {
	snap, err := a.builder.Build(ctx)
	if err == nil {
		var res executor.Result
		res, err = a.executor.Execute(ctx, userID, p.Payload, snap)
		if err == nil {
			return Reply{Text: res.Message, Affected: res.Affected}
		}
	}
	logger.L.Error("confirmed proposal failed", "user_id", userID, "kind", p.Kind, "error", err)
	return Reply{
		Text:        fmt.Sprintf("Sorry, I'm having trouble: %s", describeFailure(err)),
		Description: err.Error(),
	}
}

// pipeline is the per-turn state machine: build context, call the model,
// classify, and execute when the model chose an action.
func (a *Assistant) pipeline(ctx context.Context, userID string) (Reply, error) {
	type fsmContext struct {
		snap      *snapshot.Snapshot
		action    *protocol.ActionRequest
		finalText string
		affected  []string
		lastError error
	}
	fsmCtx := &fsmContext{}

	fsm := stateless.NewStateMachine(StateReadyToBuildContext)

	fsm.Configure(StateReadyToBuildContext).
		PermitReentry(TriggerTurnStarted). // firing the start trigger runs OnEntry
		OnEntry(func(ctx context.Context, args ...any) error {
			logger.L.Debug("FSM: building context snapshot", "user_id", userID)
			snap, err := a.builder.Build(ctx)
			if err != nil {
				fsmCtx.lastError = err
				return fsm.FireCtx(ctx, TriggerErrorOccurred)
			}
			fsmCtx.snap = snap
			return fsm.FireCtx(ctx, TriggerContextBuilt)
		}).
		Permit(TriggerContextBuilt, StateReadyToCallLLM).
		Permit(TriggerErrorOccurred, StateError)

	fsm.Configure(StateReadyToCallLLM).
		OnEntry(func(ctx context.Context, args ...any) error {
			logger.L.Debug("FSM: calling language model", "user_id", userID)
			rawText, err := a.callModel(ctx, userID, fsmCtx.snap)
			if err != nil {
				fsmCtx.lastError = err
				return fsm.FireCtx(ctx, TriggerErrorOccurred)
			}

			outcome := protocol.Classify(rawText)
			switch {
			case outcome.UnknownAction != "":
				// Never surface the raw JSON of an unrecognized action.
				logger.L.Warn("model emitted unknown action", "action", outcome.UnknownAction)
				fsmCtx.finalText = "Sorry, I can't perform that action yet."
				return fsm.FireCtx(ctx, TriggerLLMAnswered)
			case outcome.Action == nil:
				fsmCtx.finalText = outcome.Answer
				return fsm.FireCtx(ctx, TriggerLLMAnswered)
			case outcome.Action.Action == protocol.KindCreateTask:
				// Task creation is two-phase: hold the payload server-side
				// and ask for confirmation instead of executing.
				a.proposals.put(userID, *outcome.Action, a.now())
				fsmCtx.finalText = fmt.Sprintf(
					"I'd like to add the task %q to %q. Shall I go ahead?",
					outcome.Action.Title, outcome.Action.Project)
				return fsm.FireCtx(ctx, TriggerLLMAnswered)
			default:
				fsmCtx.action = outcome.Action
				return fsm.FireCtx(ctx, TriggerLLMRequestedAction)
			}
		}).
		Permit(TriggerLLMAnswered, StateDone).
		Permit(TriggerLLMRequestedAction, StateExecutingAction).
		Permit(TriggerErrorOccurred, StateError)

	fsm.Configure(StateExecutingAction).
		OnEntry(func(ctx context.Context, args ...any) error {
			logger.L.Debug("FSM: executing action", "user_id", userID, "action", fsmCtx.action.Action)
			res, err := a.executor.Execute(ctx, userID, *fsmCtx.action, fsmCtx.snap)
			if err != nil {
				fsmCtx.lastError = err
				return fsm.FireCtx(ctx, TriggerErrorOccurred)
			}
			fsmCtx.finalText = res.Message
			fsmCtx.affected = res.Affected
			return fsm.FireCtx(ctx, TriggerActionExecuted)
		}).
		Permit(TriggerActionExecuted, StateDone).
		Permit(TriggerErrorOccurred, StateError)

	fsm.Configure(StateDone).
		OnEntry(func(ctx context.Context, args ...any) error {
			logger.L.Debug("FSM: done", "user_id", userID)
			return nil
		})

	fsm.Configure(StateError).
		OnEntry(func(ctx context.Context, args ...any) error {
			if fsmCtx.lastError == nil {
				fsmCtx.lastError = errors.New("FSM reached error state without a specific error")
			}
			return nil
		})

	// Entering the initial state again via the start trigger kicks off the
	// OnEntry chain; the machine runs synchronously to a terminal state.
	if err := fsm.FireCtx(ctx, TriggerTurnStarted); err != nil {
		if fsmCtx.lastError != nil {
			return Reply{}, fsmCtx.lastError
		}
		return Reply{}, fmt.Errorf("FSM start error: %w", err)
	}

	currentState, err := fsm.State(ctx)
	if err != nil {
		return Reply{}, fmt.Errorf("FSM internal error: %w", err)
	}
	switch currentState {
	case StateDone:
		return Reply{Text: fsmCtx.finalText, Affected: fsmCtx.affected}, nil
	case StateError:
		return Reply{}, fsmCtx.lastError
	default:
		return Reply{}, fmt.Errorf("FSM ended in an unexpected state: %v", currentState)
	}
}

// callModel compiles the instructions, replays the conversation and performs
// the single blocking provider call, bounded by the configured timeout.
func (a *Assistant) callModel(ctx context.Context, userID string, snap *snapshot.Snapshot) (string, error) {
	instructions, err := protocol.Compile(a.cfg.Assistant.DisplayName, snap)
	if err != nil {
		return "", err
	}

	msgs, err := a.history.List(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load conversation: %w", err)
	}

	chat := make([]openai.ChatCompletionMessage, 0, len(msgs)+1)
	chat = append(chat, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: instructions})
	for _, m := range msgs {
		role := openai.ChatMessageRoleUser
		if m.Sender == history.SenderAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		chat = append(chat, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	timeout := time.Duration(a.cfg.LLM.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Minute
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := a.llmClient.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:    a.cfg.LLM.Model,
		Messages: chat,
	})
	if err != nil {
		return "", llm.ClassifyError(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.Join(llm.ErrProviderRejected, errors.New("provider returned no choices"))
	}
	return resp.Choices[0].Message.Content, nil
}

// describeFailure picks the user-facing phrasing for a pipeline error.
func describeFailure(err error) string {
	switch {
	case errors.Is(err, llm.ErrProviderUnavailable):
		return "I can't reach my language model right now. Please try again in a moment."
	case errors.Is(err, llm.ErrProviderRejected):
		return "my language model refused the request. Please try rephrasing."
	default:
		return err.Error()
	}
}
