package domain

// ServiceCall is one call parsed from a service-call transcript.
type ServiceCall struct {
	// CallID is the remainder of the call-marker line.
	CallID string

	// Interactions are the messages of this call in transcript order.
	Interactions []Interaction
}

// Interaction is one message within a service call.
type Interaction struct {
	// AddedBy is the author from an "added by" header line, empty when absent.
	AddedBy string

	// Timestamp is the date from an "added by" header line, empty when absent.
	Timestamp string

	// Message is the newline-joined body text.
	Message string
}

// HasHeader reports whether the interaction came from an "added by" header line.
func (i Interaction) HasHeader() bool {
	return i.AddedBy != "" || i.Timestamp != ""
}

// IsEmpty reports whether the interaction carries neither a header nor a message.
func (i Interaction) IsEmpty() bool {
	return !i.HasHeader() && i.Message == ""
}
