package story

// Scene identifies which trial a piece of input or narration belongs to.
type Scene string

const (
	Prelude   Scene = "prelude"
	Convent   Scene = "convent"
	Hangman   Scene = "hangman"
	WhiteRoom Scene = "white_room"
)

// Directive is one timed message for the chat window. DelayMs is measured
// from the moment the sequence starts playing.
type Directive struct {
	DelayMs    int    `json:"delay"`
	Content    string `json:"content,omitempty"`
	Image      string `json:"image,omitempty"`
	Audio      string `json:"audio,omitempty"`
	ShowButton bool   `json:"showButton,omitempty"`
}

// Sequence is an ordered list of directives with cumulative delays.
type Sequence []Directive

// Text is a content directive whose delay is an interval, for Cumulative.
func Text(delay int, content string) Directive {
	return Directive{DelayMs: delay, Content: content}
}

func Image(delay int, src string) Directive {
	return Directive{DelayMs: delay, Image: src}
}

func Audio(delay int, src string) Directive {
	return Directive{DelayMs: delay, Audio: src}
}

// Button is a content directive that also shows the continue button.
func Button(delay int, content string) Directive {
	return Directive{DelayMs: delay, Content: content, ShowButton: true}
}

// Cumulative turns interval delays into delays from the start.
func Cumulative(steps ...Directive) Sequence {
	out := make(Sequence, len(steps))
	total := 0
	for i, s := range steps {
		total += s.DelayMs
		s.DelayMs = total
		out[i] = s
	}
	return out
}

// End is the delay of the last directive, or 0 for an empty sequence.
func (s Sequence) End() int {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].DelayMs
}

// Then appends more so that it starts playing when s finishes.
func (s Sequence) Then(more Sequence) Sequence {
	offset := s.End()
	out := make(Sequence, 0, len(s)+len(more))
	out = append(out, s...)
	for _, d := range more {
		d.DelayMs += offset
		out = append(out, d)
	}
	return out
}

// Contents returns the text of every directive that has any.
func (s Sequence) Contents() []string {
	var out []string
	for _, d := range s {
		if d.Content != "" {
			out = append(out, d.Content)
		}
	}
	return out
}

// Filler is the inert reply used when there is nothing meaningful to say.
func Filler(delay int) Sequence {
	return Cumulative(Text(delay, "..."))
}
