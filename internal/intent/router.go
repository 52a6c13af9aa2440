package intent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/rivertown-concierge/internal/callback"
	"github.com/wolfman30/rivertown-concierge/internal/config"
	"github.com/wolfman30/rivertown-concierge/internal/orders"
	"github.com/wolfman30/rivertown-concierge/pkg/logging"
)

// Intent names the rule that handled a turn.
type Intent string

const (
	IntentOrderLookup     Intent = "order_lookup"
	IntentCustomerService Intent = "customer_service"
	IntentCallback        Intent = "callback"
	IntentChat            Intent = "chat"
)

// Backend names used when reporting adapter failures.
const (
	BackendOrderStore = "order_store"
	BackendLLM        = "llm"
	BackendCalls      = "calls"
)

// OrderStore looks up a customer's orders.
type OrderStore interface {
	LookupOrders(ctx context.Context, firstName, lastName string) ([]orders.Record, error)
}

// Completer produces a general chat reply for an utterance.
type Completer interface {
	Complete(ctx context.Context, utterance string) (string, error)
}

// Caller places an outbound call-back.
type Caller interface {
	PlaceCall(ctx context.Context, req callback.Request) (callback.Result, error)
}

// Observer receives routing events. metrics.RouterMetrics implements it.
type Observer interface {
	ObserveIntent(intent string)
	ObserveAdapterFailure(backend string)
}

// Options tunes a Router. Zero values fall back to defaults.
type Options struct {
	Persona           config.Persona
	OrderStoreTimeout time.Duration
	LLMTimeout        time.Duration
	CallTimeout       time.Duration

	// RequireCallbackPrompt limits digit-only call-backs to sessions that
	// were first offered a call.
	RequireCallbackPrompt bool
	Observer              Observer
	Logger                *logging.Logger
}

// Turn is the full outcome of routing one utterance.
type Turn struct {
	Intent   Intent
	Response Response
	State    ConversationState
}

// Router decides which backend handles an utterance.
type Router struct {
	orders    OrderStore
	completer Completer
	caller    Caller
	persona   config.Persona
	opts      Options
	logger    *logging.Logger
}

// NewRouter wires the router to its backends.
func NewRouter(store OrderStore, completer Completer, caller Caller, opts Options) *Router {
	if store == nil || completer == nil || caller == nil {
		panic("intent: order store, completer and caller are required")
	}
	if opts.Persona.CompanyName == "" {
		opts.Persona = config.DefaultPersona()
	}
	if opts.OrderStoreTimeout <= 0 {
		opts.OrderStoreTimeout = 5 * time.Second
	}
	if opts.LLMTimeout <= 0 {
		opts.LLMTimeout = 30 * time.Second
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	return &Router{
		orders:    store,
		completer: completer,
		caller:    caller,
		persona:   opts.Persona,
		opts:      opts,
		logger:    opts.Logger,
	}
}

// Route handles one utterance and returns the response plus the state to
// persist for the next turn.
func (r *Router) Route(ctx context.Context, utterance string, state ConversationState) (Response, ConversationState) {
	turn := r.RouteTurn(ctx, utterance, state)
	return turn.Response, turn.State
}

// RouteTurn applies the rules in precedence order: order lookup,
// customer-service request, call-back number, general chat.
func (r *Router) RouteTurn(ctx context.Context, utterance string, state ConversationState) Turn {
	var turn Turn
	if name, rule, ok := matchName(utterance); ok {
		r.logger.Info("intent: order lookup", "rule", rule, "customer", name.String())
		turn = Turn{Intent: IntentOrderLookup, Response: r.lookupOrders(ctx, name), State: state}
	} else if IsCustomerServiceRequest(utterance) {
		state.CustomerServiceMode = true
		turn = Turn{Intent: IntentCustomerService, Response: Text(r.callbackPrompt()), State: state}
	} else if phone, ok := CallbackDigits(utterance); ok && r.callbackAllowed(state) {
		resp, next := r.placeCallback(ctx, phone, state)
		turn = Turn{Intent: IntentCallback, Response: resp, State: next}
	} else {
		turn = Turn{Intent: IntentChat, Response: r.chat(ctx, utterance), State: state}
	}

	if r.opts.Observer != nil {
		r.opts.Observer.ObserveIntent(string(turn.Intent))
	}
	return turn
}

// RequestCallback places a call to an explicitly supplied number. Unlike the
// conversational rule it only accepts strictly formatted numbers.
func (r *Router) RequestCallback(ctx context.Context, phone string, state ConversationState) (Response, ConversationState) {
	normalized, ok := ExtractPhone(phone)
	if !ok {
		return Text("That doesn't look like a phone number I can call. Please share a 10-digit number like 123-456-7890."), state
	}
	if r.opts.Observer != nil {
		r.opts.Observer.ObserveIntent(string(IntentCallback))
	}
	return r.placeCallback(ctx, normalized, state)
}

func (r *Router) callbackAllowed(state ConversationState) bool {
	return !r.opts.RequireCallbackPrompt || state.AwaitingPhone()
}

func (r *Router) lookupOrders(ctx context.Context, name Name) Response {
	ctx, cancel := context.WithTimeout(ctx, r.opts.OrderStoreTimeout)
	defer cancel()

	records, err := r.orders.LookupOrders(ctx, name.First, name.Last)
	if err != nil {
		r.adapterFailed(BackendOrderStore, err)
		return Text("I'm sorry, I couldn't reach our order system just now. Please try again in a moment.")
	}
	if len(records) == 0 {
		return Text(fmt.Sprintf("I couldn't find any orders for %s %s. Would you like to place a new order?", name.First, name.Last))
	}
	r.logger.Info("intent: orders found", "count", len(records))
	return HTML(orders.FormatHTML(records))
}

func (r *Router) placeCallback(ctx context.Context, phone string, state ConversationState) (Response, ConversationState) {
	state.CustomerServiceMode = false
	state.PendingPhoneNumber = phone

	ctx, cancel := context.WithTimeout(ctx, r.opts.CallTimeout)
	defer cancel()

	call := r.persona.Call
	res, err := r.caller.PlaceCall(ctx, callback.Request{
		PhoneNumber:     phone,
		Task:            call.Script,
		Model:           call.Model,
		Voice:           call.Voice,
		MaxDuration:     call.MaxDuration,
		WaitForGreeting: call.WaitForGreeting,
		Temperature:     call.Temperature,
	})
	if err != nil {
		r.adapterFailed(BackendCalls, err)
		return Text(fmt.Sprintf("I apologize, but I'm experiencing technical difficulties arranging the call. "+
			"Please contact our customer service directly at %s", r.persona.FallbackPhone)), state
	}
	if !res.OK {
		r.adapterFailed(BackendCalls, fmt.Errorf("call rejected with status %d", res.StatusCode))
		return Text(fmt.Sprintf("I apologize, but I'm having trouble connecting with %s at the moment. "+
			"Please try again in a few minutes or call us directly at %s", r.persona.AgentName, r.persona.FallbackPhone)), state
	}

	r.logger.Info("intent: call-back placed", "to", logging.MaskPhone(phone), "call_id", res.CallID)
	return Text(fmt.Sprintf("Perfect! %s will be calling you right now at %s. "+
		"She's looking forward to helping you with any questions you have about our %s!",
		r.persona.AgentName, DisplayPhone(phone), r.persona.ProductNoun)), state
}

func (r *Router) chat(ctx context.Context, utterance string) Response {
	ctx, cancel := context.WithTimeout(ctx, r.opts.LLMTimeout)
	defer cancel()

	reply, err := r.completer.Complete(ctx, utterance)
	if err != nil {
		r.adapterFailed(BackendLLM, err)
		return Text("I apologize, but I'm having trouble connecting to my language model. Please try again in a moment.")
	}
	return Text(strings.TrimSpace(reply))
}

func (r *Router) callbackPrompt() string {
	return fmt.Sprintf("I'd be happy to have %s, our customer service specialist, give you a call! "+
		"What's the best phone number to reach you at? You can share it in any format "+
		"like: 123-456-7890 or (123) 456-7890", r.persona.AgentName)
}

func (r *Router) adapterFailed(backend string, err error) {
	r.logger.Error("intent: backend failed", "backend", backend, "error", err)
	if r.opts.Observer != nil {
		r.opts.Observer.ObserveAdapterFailure(backend)
	}
}
