package kakao

import "encoding/json"

// ResponseVersion is the skill response schema version Open Builder
// currently accepts.
const ResponseVersion = "2.0"

// Response is an outgoing skill response under construction.
type Response struct {
	components   []Component
	quickReplies []QuickReply
	contexts     []Context
}

// NewResponse creates an empty skill response.
func NewResponse() *Response {
	return &Response{}
}

// AddComponent appends an output component. Empty carousels are skipped so
// callers can add conditionally-filled carousels without checking first.
func (r *Response) AddComponent(c Component) *Response {
	if carousel, ok := c.(Carousel); ok && carousel.IsEmpty() {
		return r
	}
	r.components = append(r.components, c)
	return r
}

// AddQuickReply appends a quick reply chip.
func (r *Response) AddQuickReply(qr QuickReply) *Response {
	r.quickReplies = append(r.quickReplies, qr)
	return r
}

// SetContexts replaces the outgoing conversation contexts.
func (r *Response) SetContexts(contexts []Context) *Response {
	r.contexts = contexts
	return r
}

// HasComponents reports whether any output has been added.
func (r *Response) HasComponents() bool { return len(r.components) > 0 }

// MarshalJSON renders the 2.0 skill response envelope.
func (r *Response) MarshalJSON() ([]byte, error) {
	outputs := make([]map[string]interface{}, 0, len(r.components))
	for _, c := range r.components {
		name, body := c.component()
		outputs = append(outputs, map[string]interface{}{name: body})
	}

	template := map[string]interface{}{"outputs": outputs}
	if len(r.quickReplies) > 0 {
		template["quickReplies"] = r.quickReplies
	}

	envelope := map[string]interface{}{
		"version":  ResponseVersion,
		"template": template,
	}
	if len(r.contexts) > 0 {
		envelope["context"] = map[string]interface{}{"values": r.contexts}
	}

	return json.Marshal(envelope)
}

// Text is shorthand for a response holding a single text bubble.
func Text(text string) *Response {
	return NewResponse().AddComponent(SimpleText{Text: text})
}
