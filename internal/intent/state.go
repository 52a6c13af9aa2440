package intent

// ConversationState is the per-session context the router reads and
// returns on every turn. The zero value is the state of a new session.
type ConversationState struct {
	// PendingPhoneNumber is the last call-back number the router attempted,
	// in +1XXXXXXXXXX form.
	PendingPhoneNumber string `json:"pending_phone_number,omitempty"`
	// CustomerServiceMode is set once a call-back has been offered and the
	// router is waiting for a phone number.
	CustomerServiceMode bool `json:"customer_service_mode"`
}

// AwaitingPhone reports whether the session is in the AWAITING_PHONE state.
func (s ConversationState) AwaitingPhone() bool {
	return s.CustomerServiceMode
}
