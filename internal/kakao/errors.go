package kakao

// Error is a failure whose message is meant for the chat user. Skill
// endpoints always answer HTTP 200; an Error carries the card shown
// instead of the regular output.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// NewError wraps a user-facing message.
func NewError(message string) *Error {
	return &Error{Message: message}
}

// Response renders the error as a skill response.
func (e *Error) Response() *Response {
	return NewResponse().AddComponent(ErrorCard(e.Message))
}

// ErrorCard builds the standard error card shown when a skill fails.
func ErrorCard(detail string) TextCard {
	description := detail
	if description != "" {
		description += "\n"
	}
	description += "죄송합니다. 서버 오류가 발생했습니다. 오류가 지속될 경우 관리자에게 문의해주세요."
	return TextCard{
		Title:       "오류 발생",
		Description: description,
	}
}
