package agent

import (
	"context"
	"fmt"
	"math"

	"github.com/etnz/montecarlo"
	"github.com/etnz/montecarlo/docs"
	"github.com/etnz/montecarlo/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:        "Facilitator",
		Description: ``,
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user wants to understand what their savings could become over the long term.
			Never make up figures: every amount, percentile or probability you give comes from
			a simulation run by the Analyst. Always state the assumptions of the simulation
			(expected return, volatility, horizon) next to its results.

			Devise a plan of questions to ask to each experts and come up with the best response to the user's request.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns an expert with a Google Search grounding, it knows the
// historical returns and volatilities of the usual asset classes.
func NewTrader() *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader,
		Very well aware of all the financial products and their long term history.
		Ask the Trader for realistic expected returns and volatilities of an asset class,
		a fund or an index, or for recent news.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a expert in Trading, you can search and find about anything related to
			financial institutions, funds, indexes and markets. You Leverage Google Search to
			ground your assertions in a solid truth.
			When asked for the expected return or the volatility of an asset, give annualized
			figures in percent and the period they were measured on.
				`}}},
		},
	}
}

// NewAnalyst returns the expert running Monte Carlo simulations. A nil
// narrative uses the default one.
func NewAnalyst(n *montecarlo.Narrative) *Expert {
	lib := []Function{Simulate(n), Topic}

	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. It runs Monte Carlo simulations of a portfolio to
		project its value over a long horizon, and explains the scenarios and their risks.
		Give it the initial capital, the expected annual return and volatility, and the horizon.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a quantitative analyst. You use the simulate tool to project the value
				of a portfolio with a Geometric Brownian Motion, and the topic tool to read the
				documentation of the simulation.
				Report the figures of the simulation as they are, mention the seed so that the
				user can replay it, and explain the tail-risk context of the extreme scenarios.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Simulate returns the function running a simulation and returning its
// markdown report.
func Simulate(n *montecarlo.Narrative) *Func {
	const name = "simulate"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: name,
			Description: `Simulates the value of a portfolio with a Geometric Brownian Motion, with monthly steps.
			Returns a markdown report with the parameters, the scenarios (percentiles of the final capital),
			the tail-risk context, the percentiles over time and the distribution of annual returns.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"capital": {Type: genai.TypeNumber, Description: "Initial capital, positive."},
					"mu":      {Type: genai.TypeNumber, Description: "Expected annual return in percent, e.g. 5.23."},
					"sigma":   {Type: genai.TypeNumber, Description: "Annual volatility in percent, e.g. 6.95."},
					"years":   {Type: genai.TypeNumber, Description: "Horizon in years."},
					"paths":   {Type: genai.TypeInteger, Description: "Number of simulations, 10000 by default."},
					"seed":    {Type: genai.TypeInteger, Description: "Seed to replay a previous simulation."},
				},
				Required: []string{"capital", "mu", "sigma", "years"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The markdown report of the simulation.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			p, err := parameters(args)
			if err != nil {
				return failure(id, name, err)
			}
			r, err := montecarlo.NewReport(p, n)
			if err != nil {
				return failure(id, name, err)
			}
			return success(id, name, renderer.ReportMarkdown(r))
		},
	}
}

// parameters reads the simulation parameters from the function call arguments.
func parameters(args map[string]any) (montecarlo.Parameters, error) {
	number := func(key string, def float64) (float64, error) {
		v, ok := args[key]
		if !ok || v == nil {
			if math.IsNaN(def) {
				return 0, fmt.Errorf("%w: argument %q is required", montecarlo.ErrInvalidParameter, key)
			}
			return def, nil
		}
		switch v := v.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}
		return 0, fmt.Errorf("%w: argument %q is not a number but %T", montecarlo.ErrInvalidParameter, key, v)
	}
	required := math.NaN()

	var p montecarlo.Parameters
	var err error
	if p.InitialCapital, err = number("capital", required); err != nil {
		return p, err
	}
	mu, err := number("mu", required)
	if err != nil {
		return p, err
	}
	sigma, err := number("sigma", required)
	if err != nil {
		return p, err
	}
	p.ExpectedAnnualReturn, p.AnnualVolatility = mu/100, sigma/100
	if p.HorizonYears, err = number("years", required); err != nil {
		return p, err
	}
	paths, err := number("paths", 10_000)
	if err != nil {
		return p, err
	}
	p.PathCount = int(paths)
	if _, ok := args["seed"]; ok {
		s, err := number("seed", 0)
		if err != nil {
			return p, err
		}
		seed := uint64(s)
		p.Seed = &seed
	}
	return p, nil
}

// Topic returns a documentation topic.
var Topic = &Func{
	Decl: &genai.FunctionDeclaration{
		Name:        "topic",
		Description: "Returns a documentation topic of the simulator. The readme topic lists them all.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name": {Type: genai.TypeString, Description: "The topic name, e.g. simulate or tailrisk."},
			},
			Required: []string{"name"},
		},
		Response: &genai.Schema{Type: genai.TypeString, Description: "The markdown documentation."},
	},
	Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
		name, _ := args["name"].(string)
		if name == "" {
			name = "readme"
		}
		doc, err := docs.GetTopic(name)
		if err != nil {
			return failure(id, "topic", err)
		}
		return success(id, "topic", doc)
	},
}
