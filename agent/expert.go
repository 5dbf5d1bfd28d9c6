package agent

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"
)

// maxCalls bounds the number of function calls an expert can chain to answer
// a single question.
const maxCalls = 8

// questionArg is the only argument of an expert seen as a function.
const questionArg = "question"

// Expert is a chat with a model, specialized by its system instruction and
// the functions of its Library.
type Expert struct {
	Name        string                       `json:"name"`
	Description string                       `json:"description"`
	ModelName   string                       `json:"model_name"`
	Config      *genai.GenerateContentConfig `json:"config"`
	Library     Library
	chat        *genai.Chat
}

// Start opens the chat of the expert.
func (e *Expert) Start(ctx context.Context, client *genai.Client) error {
	chat, err := client.Chats.Create(ctx, e.ModelName, e.Config, nil)
	if err != nil {
		return err
	}
	e.chat = chat
	return nil
}

// Ask sends parts to the chat and runs the function calls the model requests
// until it answers with content.
func (e *Expert) Ask(ctx context.Context, parts ...*genai.Part) (*genai.Content, error) {
	for range maxCalls {
		resp, err := e.chat.Send(ctx, parts...)
		if err != nil {
			return nil, err
		}
		content, call := firstPart(resp)
		switch {
		case content == nil:
			return nil, fmt.Errorf("no response from expert %s", e.Name)
		case call == nil:
			return content, nil
		case e.Library == nil:
			return nil, fmt.Errorf("expert %s requested %s but has no functions", e.Name, call.Name)
		}
		// errors are reported to the model within the response.
		log.Printf("%s calls %s(%v)", e.Name, call.Name, call.Args)
		parts = []*genai.Part{{FunctionResponse: e.Library(ctx, call)}}
	}
	return nil, fmt.Errorf("expert %s made more than %d function calls", e.Name, maxCalls)
}

// firstPart returns the content of the first candidate, and its function
// call if the first part is one.
func firstPart(resp *genai.GenerateContentResponse) (*genai.Content, *genai.FunctionCall) {
	if len(resp.Candidates) == 0 {
		return nil, nil
	}
	c := resp.Candidates[0].Content
	if c == nil || len(c.Parts) == 0 {
		return nil, nil
	}
	return c, c.Parts[0].FunctionCall
}

// Declaration describes the expert as a function taking a question, so that
// another expert can consult it.
func (e *Expert) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        e.Name,
		Description: e.Description,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				questionArg: {Type: genai.TypeString, Description: "The question to ask " + e.Name + "."},
			},
			Required: []string{questionArg},
		},
		Response: &genai.Schema{Type: genai.TypeString, Description: "The answer of " + e.Name + "."},
	}
}

// Call asks the question found in args.
func (e *Expert) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	question, ok := args[questionArg].(string)
	if !ok {
		return failure(id, e.Name, fmt.Errorf("argument %q must be a string, got %T", questionArg, args[questionArg]))
	}
	content, err := e.Ask(ctx, &genai.Part{Text: question})
	if err != nil {
		return failure(id, e.Name, fmt.Errorf("%s could not answer: %w", e.Name, err))
	}
	answer := content.Parts[0].Text
	log.Printf("%s answered %q with %q", e.Name, question, answer)
	return success(id, e.Name, answer)
}

func success(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"output": output}}
}

func failure(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"error": err.Error()}}
}
