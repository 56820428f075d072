package console

// Placeholder is shown before the first reply arrives.
const Placeholder = "Responses will appear here."

// OutputView is what the output panel displays. Text is literal: the page
// renders it as text content with whitespace preserved.
type OutputView struct {
	Text        string `json:"text"`
	Placeholder bool   `json:"placeholder"`
}

// RenderOutput maps the last output text to the panel contents.
func RenderOutput(text string) OutputView {
	if text == "" {
		return OutputView{Text: Placeholder, Placeholder: true}
	}
	return OutputView{Text: text}
}
