package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInput_SubmitClearsAndHandsOffRawText(t *testing.T) {
	in := NewInput(FieldPrompt)
	in.SetText("  hello\nworld ", 1)

	text, ok := in.Submit()
	assert.True(t, ok)
	assert.Equal(t, "  hello\nworld ", text)
	assert.Empty(t, in.Text())
}

func TestInput_BlankSubmitIsNoop(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t "} {
		in := NewInput(FieldPrompt)
		in.SetText(text, 1)

		_, ok := in.Submit()
		assert.False(t, ok, "text %q", text)
		assert.Equal(t, text, in.Text(), "blank text is left untouched")
	}
}

func TestInput_BusyDisablesEverything(t *testing.T) {
	in := NewInput(FieldPrompt)
	in.SetText("pending", 1)
	in.SetBusy(true)

	assert.False(t, in.SetText("edited", 2))
	_, ok := in.Submit()
	assert.False(t, ok)
	_, ok = in.Key(KeyEvent{Key: KeyEnter})
	assert.False(t, ok)
	assert.False(t, in.Clear())
	assert.Equal(t, "pending", in.Text())
	assert.Equal(t, uint64(1), in.Seq())

	in.SetBusy(false)
	assert.True(t, in.Clear())
	assert.Empty(t, in.Text())
}

func TestInput_PromptKeys(t *testing.T) {
	in := NewInput(FieldPrompt)
	in.SetText("line one", 1)

	_, ok := in.Key(KeyEvent{Key: KeyEnter, Shift: true})
	assert.False(t, ok, "shift+enter is a newline in the prompt box")
	assert.Equal(t, "line one", in.Text())

	_, ok = in.Key(KeyEvent{Key: "a"})
	assert.False(t, ok)

	text, ok := in.Key(KeyEvent{Key: KeyEnter})
	assert.True(t, ok)
	assert.Equal(t, "line one", text)
}

func TestInput_TaskKeys(t *testing.T) {
	in := NewInput(FieldTask)
	in.SetText("buy milk", 1)

	text, ok := in.Key(KeyEvent{Key: KeyEnter, Shift: true})
	assert.True(t, ok, "the task field has no newline affordance")
	assert.Equal(t, "buy milk", text)

	in.SetText("walk dog", 2)
	text, ok = in.Key(KeyEvent{Key: KeyEnter})
	assert.True(t, ok)
	assert.Equal(t, "walk dog", text)
}

func TestInput_SeqOnlyMovesForward(t *testing.T) {
	in := NewInput(FieldPrompt)
	in.SetText("ab", 5)
	in.SetText("a", 3)
	assert.Equal(t, uint64(5), in.Seq())
	assert.Equal(t, "a", in.Text())
}

func TestRenderOutput(t *testing.T) {
	assert.Equal(t, OutputView{Text: Placeholder, Placeholder: true}, RenderOutput(""))

	literal := "<b>not bold</b>\n  *not markdown*"
	assert.Equal(t, OutputView{Text: literal}, RenderOutput(literal))

	assert.Equal(t, OutputView{Text: " "}, RenderOutput(" "), "whitespace-only replies are shown as received")
}
