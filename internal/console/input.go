package console

import "strings"

// Field identifies which text box an Input backs.
type Field string

const (
	// FieldPrompt is the multi-line query box. Enter submits, Shift+Enter
	// inserts a newline.
	FieldPrompt Field = "prompt"
	// FieldTask is the single-line new-task box. Enter submits with or
	// without Shift.
	FieldTask Field = "task"
)

// KeyEnter is the key name browsers report for the Enter key.
const KeyEnter = "Enter"

// KeyEvent is a key press forwarded from the page.
type KeyEvent struct {
	Key   string `json:"key"`
	Shift bool   `json:"shift"`
}

// Input is a text box with a submit gate. It holds the text until it is
// submitted, then hands it off and clears itself.
type Input struct {
	field Field
	text  string
	seq   uint64
	busy  bool
}

// NewInput returns an empty input for field.
func NewInput(field Field) *Input {
	return &Input{field: field}
}

// Text returns the current text.
func (in *Input) Text() string { return in.text }

// Seq returns the page sequence number of the last edit applied.
func (in *Input) Seq() uint64 { return in.seq }

// Busy reports whether the control is disabled.
func (in *Input) Busy() bool { return in.busy }

// SetBusy enables or disables every interaction with the control.
func (in *Input) SetBusy(busy bool) { in.busy = busy }

// SetText replaces the text with an edit from the page. Edits are ignored
// while busy.
func (in *Input) SetText(text string, seq uint64) bool {
	if in.busy {
		return false
	}
	in.text = text
	if seq > in.seq {
		in.seq = seq
	}
	return true
}

// Submit hands off the raw text and clears the box. Nothing happens when
// the control is busy or the text is blank after trimming.
func (in *Input) Submit() (string, bool) {
	if in.busy || strings.TrimSpace(in.text) == "" {
		return "", false
	}
	text := in.text
	in.text = ""
	return text, true
}

// Key applies a key press and submits when it is a submit key for this
// field.
func (in *Input) Key(ev KeyEvent) (string, bool) {
	if ev.Key != KeyEnter {
		return "", false
	}
	if in.field == FieldPrompt && ev.Shift {
		return "", false
	}
	return in.Submit()
}

// Clear empties the text without submitting.
func (in *Input) Clear() bool {
	if in.busy {
		return false
	}
	in.text = ""
	return true
}

// InputView is the page-facing state of an Input.
type InputView struct {
	Text string `json:"text"`
	Seq  uint64 `json:"seq"`
	Busy bool   `json:"busy"`
}

func (in *Input) view() InputView {
	return InputView{Text: in.text, Seq: in.seq, Busy: in.busy}
}
