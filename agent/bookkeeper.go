package agent

import (
	"context"
	"fmt"

	"github.com/chamara/finledger"
	"github.com/chamara/finledger/docs"
	"github.com/chamara/finledger/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here to understand his personal finances: what he owns, what he owes,
			what recently moved on his accounts and how his loans are progressing.

			Devise a plan of questions to ask each expert and come up with the best response
			to the user's request.

			The user will assume that you already checked his books and know his account and
			loan names, so look them up first.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewBookkeeper returns the expert in charge of reading the user's books.
//
// All of its tools load the books fresh from dir on every call, so the
// expert always answers from the state on disk.
func NewBookkeeper(dir string) *Expert {
	lib := []Function{
		accountsFunc(dir),
		liabilitiesFunc(dir),
		statementFunc(dir),
		summaryFunc(dir),
	}

	return &Expert{
		Name: "Bookkeeper",
		Description: `This is the Bookkeeper. He is in charge of reading the user's books.
		He can list accounts and their balances, reconstruct account statements,
		report the standing of every liability and compute the user's net worth.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a bookkeeper in charge of the user's personal books.
				You know how to use the Tools to extract relevant information about the
				user's accounts, transactions and liabilities.
				You are part of a team of experts, yours is everything recorded in the books.
				They might ask you questions in approximative language, figure out what they meant.

				Use the available tools to get information about:
				  - accounts and their balances
				  - account statements
				  - liabilities and what remains to pay on them
				  - overall net worth
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function.
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func errResponse(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"error": err.Error(),
		},
	}
}

func okResponse(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"output": output,
		},
	}
}

func accountsFunc(dir string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Accounts",
			Description: `Accounts lists every active account in the books with its type
			and current balance, followed by the headline totals (assets, liabilities, net worth).`,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of the accounts and their balances.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			b, err := finledger.LoadBooks(dir)
			if err != nil {
				return errResponse(id, "Accounts", fmt.Errorf("could not load books: %w", err))
			}
			return okResponse(id, "Accounts", renderer.AccountsMarkdown(b))
		},
	}
}

func liabilitiesFunc(dir string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Liabilities",
			Description: `Liabilities reports the standing of every liability in the books:
			remaining balance, monthly installment, amount paid so far and any arrears or late fees.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"date": {
						Type: genai.TypeString,
						Description: `The date on which to compute the standing. Today is the default.
						Otherwise it uses a flexible date format based on YYYY-MM-DD:

						` + must(docs.GetTopic("dates")),
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted report of outstanding and settled liabilities.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			asOf, err := parseDate(args)
			if err != nil {
				return errResponse(id, "Liabilities", err)
			}
			b, err := finledger.LoadBooks(dir)
			if err != nil {
				return errResponse(id, "Liabilities", fmt.Errorf("could not load books: %w", err))
			}
			return okResponse(id, "Liabilities", renderer.RenderLiabilities(renderer.NewLiabilityBoard(b, asOf)))
		},
	}
}

func statementFunc(dir string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Statement",
			Description: `Statement reconstructs the full transaction history of one account,
			newest first, with a running balance on every row.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"account": {
						Type:        genai.TypeString,
						Description: "The name of the account, as listed by the Accounts tool.",
					},
				},
				Required: []string{"account"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted statement of the account.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			name, ok := args["account"].(string)
			if !ok {
				return errResponse(id, "Statement", fmt.Errorf("argument 'account' is not a string as expected but %T", args["account"]))
			}
			b, err := finledger.LoadBooks(dir)
			if err != nil {
				return errResponse(id, "Statement", fmt.Errorf("could not load books: %w", err))
			}
			account, ok := b.Registry.ByName(name)
			if !ok {
				return errResponse(id, "Statement", fmt.Errorf("no account named %q, use the Accounts tool to list them", name))
			}
			s, err := finledger.BuildStatement(b, account.ID)
			if err != nil {
				return errResponse(id, "Statement", err)
			}
			return okResponse(id, "Statement", renderer.RenderStatement(renderer.NewStatement(s)))
		},
	}
}

func summaryFunc(dir string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "NetWorth",
			Description: `NetWorth computes the user's headline position: total assets,
			total liabilities and the resulting net worth.`,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The assets, liabilities and net worth figures.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			b, err := finledger.LoadBooks(dir)
			if err != nil {
				return errResponse(id, "NetWorth", fmt.Errorf("could not load books: %w", err))
			}
			s := b.Summarize()
			out := fmt.Sprintf("Assets: %s\nLiabilities: %s\nNet worth: %s", s.TotalAssets, s.Liabilities, s.NetWorth)
			return okResponse(id, "NetWorth", out)
		},
	}
}

func parseDate(args map[string]any) (finledger.Date, error) {
	idate, hasDate := args["date"]
	if !hasDate {
		return finledger.Today(), nil
	}
	sdate, ok := idate.(string)
	if !ok {
		return finledger.Today(), fmt.Errorf("argument 'date' is not a string as expected but %T", idate)
	}

	date, err := finledger.ParseDate(sdate)
	if err != nil {
		return finledger.Today(), fmt.Errorf("argument 'date' must be a valid date got %q. Below is the doc about the date format\n\n%s", sdate, must(docs.GetTopic("dates")))
	}

	return date, nil
}
