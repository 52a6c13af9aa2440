package intent

// Kind tells the caller how to render Response.Content.
type Kind string

const (
	KindText Kind = "text"
	KindHTML Kind = "html"
)

// Response is the tagged payload produced for every routed utterance.
type Response struct {
	Kind    Kind   `json:"type"`
	Content string `json:"content"`
}

// Text builds a plain-text response.
func Text(content string) Response {
	return Response{Kind: KindText, Content: content}
}

// HTML builds a markup response.
func HTML(content string) Response {
	return Response{Kind: KindHTML, Content: content}
}

// IsHTML reports whether the content must be rendered as markup.
func (r Response) IsHTML() bool {
	return r.Kind == KindHTML
}
