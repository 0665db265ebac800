package domain

// NoticeLevel selects how a Notice is styled.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient, dismissible message shown after an action.
type Notice struct {
	Level NoticeLevel
	Text  string
}

// Notices accumulates the messages produced while handling one page.
type Notices []Notice

func (n *Notices) Success(text string) {
	*n = append(*n, Notice{Level: NoticeSuccess, Text: text})
}

func (n *Notices) Error(text string) {
	*n = append(*n, Notice{Level: NoticeError, Text: text})
}

// Drain returns the pending notices and empties the list.
func (n *Notices) Drain() []Notice {
	out := *n
	*n = nil
	return out
}
