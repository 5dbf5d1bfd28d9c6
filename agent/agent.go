package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

// Agent chats with the user through a Facilitator that delegates to Experts.
type Agent struct {
	w           io.Writer
	r           *bufio.Reader
	Facilitator *Expert
	Experts     []*Expert

	// Render formats the markdown answers for the terminal, nil prints them
	// as is.
	Render func(markdown string) string
}

// New returns an Agent writing to w and reading the user questions from r.
func New(w io.Writer, r io.Reader, experts ...*Expert) *Agent {
	return &Agent{
		w:           w,
		r:           bufio.NewReader(r),
		Experts:     experts,
		Facilitator: newFacilitator(experts...),
	}
}

// Start opens a chat for every expert and for the facilitator.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range append([]*Expert{a.Facilitator}, a.Experts...) {
		if err := e.Start(ctx, client); err != nil {
			return fmt.Errorf("cannot start %s: %w", e.Name, err)
		}
	}
	return nil
}

const (
	prompt = "assist> "
	bye    = "bye"
)

// Run answers questions until the user says bye or closes the input. The
// scripted questions are asked first.
func (a *Agent) Run(ctx context.Context, client *genai.Client, scripted ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintf(a.w, "Welcome to mcs assist. Type '%s' to exit.\n", bye)
	for {
		question, err := a.next(&scripted)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if question == "" {
			continue
		}
		if question == bye {
			return nil
		}

		content, err := a.Facilitator.Ask(ctx, &genai.Part{Text: question})
		if err != nil {
			return err
		}
		a.answer(content.Parts[0].Text)
	}
}

// next prompts for a question, consuming the scripted ones first.
func (a *Agent) next(scripted *[]string) (string, error) {
	fmt.Fprint(a.w, prompt)
	if len(*scripted) > 0 {
		q := strings.TrimSpace((*scripted)[0])
		*scripted = (*scripted)[1:]
		fmt.Fprintln(a.w, q)
		return q, nil
	}
	line, err := a.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *Agent) answer(markdown string) {
	if a.Render != nil {
		markdown = a.Render(markdown)
	}
	fmt.Fprintln(a.w, markdown)
}
