package intent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/rivertown-concierge/internal/callback"
	"github.com/wolfman30/rivertown-concierge/internal/orders"
	"github.com/wolfman30/rivertown-concierge/pkg/logging"
)

type fakeStore struct {
	records []orders.Record
	err     error
	calls   int
	first   string
	last    string
}

func (f *fakeStore) LookupOrders(_ context.Context, first, last string) ([]orders.Record, error) {
	f.calls++
	f.first, f.last = first, last
	return f.records, f.err
}

type fakeCompleter struct {
	reply string
	err   error
	calls int
	last  string
	block bool
}

func (f *fakeCompleter) Complete(ctx context.Context, utterance string) (string, error) {
	f.calls++
	f.last = utterance
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

type fakeCaller struct {
	result callback.Result
	err    error
	calls  []callback.Request
}

func (f *fakeCaller) PlaceCall(_ context.Context, req callback.Request) (callback.Result, error) {
	f.calls = append(f.calls, req)
	return f.result, f.err
}

type fakeObserver struct {
	intents  []string
	failures []string
}

func (f *fakeObserver) ObserveIntent(intent string)          { f.intents = append(f.intents, intent) }
func (f *fakeObserver) ObserveAdapterFailure(backend string) { f.failures = append(f.failures, backend) }

type harness struct {
	store     *fakeStore
	completer *fakeCompleter
	caller    *fakeCaller
	observer  *fakeObserver
	router    *Router
}

func newHarness(opts Options) *harness {
	h := &harness{
		store:     &fakeStore{},
		completer: &fakeCompleter{reply: "Our balls are hand-turned maple."},
		caller:    &fakeCaller{result: callback.Result{OK: true, StatusCode: 200}},
		observer:  &fakeObserver{},
	}
	opts.Observer = h.observer
	opts.Logger = logging.Discard()
	h.router = NewRouter(h.store, h.completer, h.caller, opts)
	return h
}

func TestRoute_OrderLookupFound(t *testing.T) {
	h := newHarness(Options{})
	h.store.records = []orders.Record{{
		OrderID:    "abcd1234efgh",
		Product:    "Maple Sphere",
		Quantity:   2,
		OrderDate:  "2024-01-05",
		TotalPrice: 39.98,
	}}

	resp, state := h.router.Route(context.Background(), "What are Jane Doe's orders?", ConversationState{})

	assert.Equal(t, KindHTML, resp.Kind)
	for _, want := range []string{"Order #abcd1234...", "Maple Sphere", "2 units", "2024-01-05", "$39.98"} {
		assert.Contains(t, resp.Content, want)
	}
	assert.Equal(t, "Jane", h.store.first)
	assert.Equal(t, "Doe", h.store.last)
	assert.Equal(t, ConversationState{}, state)
	assert.Equal(t, []string{"order_lookup"}, h.observer.intents)
}

func TestRoute_OrderLookupNotFound(t *testing.T) {
	h := newHarness(Options{})

	resp, _ := h.router.Route(context.Background(), "show me john smith's orders", ConversationState{})

	assert.Equal(t, Text("I couldn't find any orders for John Smith. Would you like to place a new order?"), resp)
}

func TestRoute_OrderStoreFailureApologizes(t *testing.T) {
	h := newHarness(Options{})
	h.store.err = errors.New("dynamodb unavailable")

	resp, _ := h.router.Route(context.Background(), "show me john smith's orders", ConversationState{})

	assert.Equal(t, KindText, resp.Kind)
	assert.Contains(t, resp.Content, "couldn't reach our order system")
	assert.Equal(t, []string{BackendOrderStore}, h.observer.failures)
}

func TestRoute_OrderLookupBeatsDigits(t *testing.T) {
	h := newHarness(Options{})

	resp, state := h.router.Route(context.Background(), "show me john smith's orders, my number is 719-555-0199", ConversationState{CustomerServiceMode: true})

	assert.Equal(t, 1, h.store.calls)
	assert.Empty(t, h.caller.calls)
	assert.Contains(t, resp.Content, "John Smith")
	assert.True(t, state.CustomerServiceMode, "order lookups leave state untouched")
}

func TestRoute_OrderLookupBeatsCustomerService(t *testing.T) {
	h := newHarness(Options{})

	_, state := h.router.Route(context.Background(), "show me john smith's orders or call me", ConversationState{})

	assert.Equal(t, 1, h.store.calls)
	assert.False(t, state.CustomerServiceMode)
}

func TestRoute_CustomerServiceTrigger(t *testing.T) {
	h := newHarness(Options{})

	resp, state := h.router.Route(context.Background(), "I'd like to speak to someone", ConversationState{})

	assert.Equal(t, KindText, resp.Kind)
	assert.Contains(t, resp.Content, "What's the best phone number to reach you at?")
	assert.Contains(t, resp.Content, "Sara")
	assert.True(t, state.CustomerServiceMode)
	assert.Empty(t, h.caller.calls, "no call is placed on the trigger turn")
	assert.Zero(t, h.completer.calls)
}

func TestRoute_CustomerServiceWinsOverDigits(t *testing.T) {
	h := newHarness(Options{})

	_, state := h.router.Route(context.Background(), "customer service please, 7195550199", ConversationState{})

	assert.True(t, state.CustomerServiceMode)
	assert.Empty(t, h.caller.calls)
}

func TestRoute_TwoTurnCallback(t *testing.T) {
	h := newHarness(Options{})
	ctx := context.Background()

	_, state := h.router.Route(ctx, "Can someone call me?", ConversationState{})
	require.True(t, state.AwaitingPhone())

	resp, state := h.router.Route(ctx, "(719) 555-0199", state)

	assert.Equal(t, KindText, resp.Kind)
	assert.Contains(t, resp.Content, "719-555-0199")
	assert.False(t, state.CustomerServiceMode)
	assert.Equal(t, "+17195550199", state.PendingPhoneNumber)

	require.Len(t, h.caller.calls, 1)
	call := h.caller.calls[0]
	assert.Equal(t, "+17195550199", call.PhoneNumber)
	assert.Contains(t, call.Task, "Sara from Rivertown Ball Company")
	assert.Equal(t, "turbo", call.Model)
	assert.Equal(t, "Alexa", call.Voice)
	assert.Equal(t, 12, call.MaxDuration)
	assert.True(t, call.WaitForGreeting)
	assert.Equal(t, []string{"customer_service", "callback"}, h.observer.intents)
}

func TestRoute_BarePhoneNumberPlacesCallOutsideCustomerServiceMode(t *testing.T) {
	h := newHarness(Options{})

	resp, _ := h.router.Route(context.Background(), "(719) 555-0199", ConversationState{})

	require.Len(t, h.caller.calls, 1)
	assert.Contains(t, resp.Content, "719-555-0199")
}

func TestRoute_RequireCallbackPromptFallsThroughToChat(t *testing.T) {
	h := newHarness(Options{RequireCallbackPrompt: true})

	resp, _ := h.router.Route(context.Background(), "reach me at 12345678901", ConversationState{})

	assert.Empty(t, h.caller.calls)
	assert.Equal(t, 1, h.completer.calls)
	assert.Equal(t, Text("Our balls are hand-turned maple."), resp)

	_, state := h.router.Route(context.Background(), "7195550199", ConversationState{CustomerServiceMode: true})
	assert.Len(t, h.caller.calls, 1)
	assert.False(t, state.CustomerServiceMode)
}

func TestRoute_CallRejected(t *testing.T) {
	h := newHarness(Options{})
	h.caller.result = callback.Result{OK: false, StatusCode: 400}

	resp, state := h.router.Route(context.Background(), "7195550199", ConversationState{CustomerServiceMode: true})

	assert.Contains(t, resp.Content, "having trouble connecting with Sara")
	assert.Contains(t, resp.Content, "(719) 266-2837")
	assert.False(t, state.CustomerServiceMode, "reset regardless of outcome")
	assert.Equal(t, []string{BackendCalls}, h.observer.failures)
}

func TestRoute_CallTransportError(t *testing.T) {
	h := newHarness(Options{})
	h.caller.err = errors.New("dial tcp: timeout")

	resp, state := h.router.Route(context.Background(), "7195550199", ConversationState{CustomerServiceMode: true})

	assert.Contains(t, resp.Content, "technical difficulties")
	assert.Contains(t, resp.Content, "(719) 266-2837")
	assert.False(t, state.CustomerServiceMode)
}

func TestRoute_ChatFallback(t *testing.T) {
	h := newHarness(Options{})
	h.completer.reply = "  Why did the ball roll? It was bored.  "

	resp, state := h.router.Route(context.Background(), "tell me a joke", ConversationState{PendingPhoneNumber: "+17195550199"})

	assert.Equal(t, Text("Why did the ball roll? It was bored."), resp)
	assert.Equal(t, "tell me a joke", h.completer.last)
	assert.Equal(t, "+17195550199", state.PendingPhoneNumber)
	assert.Zero(t, h.store.calls)
}

func TestRoute_ChatBackendUnavailable(t *testing.T) {
	h := newHarness(Options{})
	h.completer.err = errors.New("ThrottlingException")

	resp, _ := h.router.Route(context.Background(), "tell me a joke", ConversationState{})

	assert.Equal(t, Text("I apologize, but I'm having trouble connecting to my language model. Please try again in a moment."), resp)
	assert.Equal(t, []string{BackendLLM}, h.observer.failures)
}

func TestRoute_ChatTimeoutIsAdapterFailure(t *testing.T) {
	h := newHarness(Options{LLMTimeout: 10 * time.Millisecond})
	h.completer.block = true

	resp, _ := h.router.Route(context.Background(), "tell me a joke", ConversationState{})

	assert.True(t, strings.HasPrefix(resp.Content, "I apologize"))
}

func TestRoute_MalformedCompletionIsBlankText(t *testing.T) {
	h := newHarness(Options{})
	h.completer.reply = ""

	resp, _ := h.router.Route(context.Background(), "tell me a joke", ConversationState{})

	assert.Equal(t, Text(""), resp)
}

func TestRequestCallback(t *testing.T) {
	h := newHarness(Options{})

	resp, state := h.router.RequestCallback(context.Background(), "555-1234", ConversationState{CustomerServiceMode: true})
	assert.Contains(t, resp.Content, "doesn't look like a phone number")
	assert.True(t, state.CustomerServiceMode)
	assert.Empty(t, h.caller.calls)

	resp, state = h.router.RequestCallback(context.Background(), "1-719-555-0199", state)
	assert.Contains(t, resp.Content, "719-555-0199")
	assert.False(t, state.CustomerServiceMode)
	require.Len(t, h.caller.calls, 1)
	assert.Equal(t, "+17195550199", h.caller.calls[0].PhoneNumber)
}

func TestNewRouter_PanicsWithoutBackends(t *testing.T) {
	assert.Panics(t, func() { NewRouter(nil, &fakeCompleter{}, &fakeCaller{}, Options{}) })
}

func TestResponseHelpers(t *testing.T) {
	assert.True(t, HTML("<b>x</b>").IsHTML())
	assert.False(t, Text("x").IsHTML())
}
