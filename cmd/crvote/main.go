// crvote is the command line client for the commit-reveal voting
// service. Every command talks to a running crvoted instance over its
// HTTP API and prints the response as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/vocdoni/commit-reveal/api"
	"github.com/vocdoni/commit-reveal/api/client"
	"github.com/vocdoni/commit-reveal/types"
)

var (
	apiURLFlag = &cli.StringFlag{
		Name:    "api-url",
		Value:   "http://localhost:8080",
		Usage:   "Base URL of the voting service API",
		EnvVars: []string{"CRVOTE_API_URL"},
	}
	voterFlag = &cli.StringFlag{
		Name:     "voter",
		Usage:    "Voter identifier",
		Required: true,
	}
	saltFlag = &cli.StringFlag{
		Name:     "salt",
		Usage:    "Hex encoded salt",
		Required: true,
	}
)

func main() {
	app := &cli.App{
		Name:  "crvote",
		Usage: "commit-reveal voting client",
		Flags: []cli.Flag{apiURLFlag},
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "create a new vote",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "description", Required: true},
					&cli.StringFlag{Name: "template", Value: "yes_no", Usage: "Ballot template identifier"},
					&cli.StringFlag{Name: "params", Usage: "Template parameters as JSON"},
					&cli.StringFlag{Name: "creator", Required: true},
					&cli.DurationFlag{Name: "commitment-duration", Value: 24 * time.Hour},
					&cli.DurationFlag{Name: "reveal-duration", Value: 24 * time.Hour},
				},
				Action: createVote,
			},
			{
				Name:      "get",
				Usage:     "fetch a vote by ID",
				ArgsUsage: "<voteId>",
				Action:    getVote,
			},
			{
				Name:  "list",
				Usage: "list votes",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Value: 1},
					&cli.IntFlag{Name: "page-size"},
					&cli.StringFlag{Name: "status"},
					&cli.StringFlag{Name: "creator"},
				},
				Action: listVotes,
			},
			{
				Name:      "commit",
				Usage:     "submit a ballot commitment",
				ArgsUsage: "<voteId>",
				Flags: []cli.Flag{
					voterFlag,
					&cli.StringFlag{Name: "hash", Usage: "Lowercase hex commitment hash", Required: true},
					saltFlag,
					&cli.StringFlag{Name: "algorithm", Usage: "Commitment hash algorithm"},
				},
				Action: commitBallot,
			},
			{
				Name:      "reveal",
				Usage:     "reveal a committed ballot",
				ArgsUsage: "<voteId>",
				Flags: []cli.Flag{
					voterFlag,
					&cli.StringFlag{Name: "value", Usage: "Ballot value as JSON", Required: true},
					saltFlag,
				},
				Action: revealBallot,
			},
			{
				Name:      "results",
				Usage:     "fetch the aggregated results of a vote",
				ArgsUsage: "<voteId>",
				Action:    getResults,
			},
			{
				Name:      "verify",
				Usage:     "replay a vote and fetch its verification report",
				ArgsUsage: "<voteId>",
				Action:    verifyVote,
			},
			{
				Name:      "cancel",
				Usage:     "cancel a vote",
				ArgsUsage: "<voteId>",
				Action:    cancelVote,
			},
			{
				Name:   "templates",
				Usage:  "list the available ballot templates",
				Action: listTemplates,
			},
			{
				Name:      "template",
				Usage:     "show the schema of a ballot template",
				ArgsUsage: "<templateId>",
				Action:    getTemplate,
			},
			{
				Name:   "health",
				Usage:  "check the service health",
				Action: getHealth,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient(cliCtx *cli.Context) (*client.HTTPclient, error) {
	return client.New(cliCtx.String(apiURLFlag.Name))
}

// requireArg returns the single positional argument of the command.
func requireArg(cliCtx *cli.Context, name string) (string, error) {
	if cliCtx.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one argument: <%s>", name)
	}
	return cliCtx.Args().First(), nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func createVote(cliCtx *cli.Context) error {
	c, err := newClient(cliCtx)
	if err != nil {
		return err
	}
	cfg := &types.VoteConfig{
		Title:              cliCtx.String("title"),
		Description:        cliCtx.String("description"),
		TemplateID:         cliCtx.String("template"),
		Creator:            cliCtx.String("creator"),
		CommitmentDuration: types.Duration(cliCtx.Duration("commitment-duration")),
		RevealDuration:     types.Duration(cliCtx.Duration("reveal-duration")),
	}
	if params := cliCtx.String("params"); params != "" {
		cfg.TemplateParams = types.BallotValue(params)
	}
	voteID, err := c.CreateVote(cfg)
	if err != nil {
		return err
	}
	return printJSON(&api.CreateVoteResponse{VoteID: voteID, Success: true})
}

func getVote(cliCtx *cli.Context) error {
	voteID, err := requireArg(cliCtx, "voteId")
	if err != nil {
		return err
	}
	c, err := newClient(cliCtx)
	if err != nil {
		return err
	}
	vote, err := c.Vote(voteID)
	if err != nil {
		return err
	}
	return printJSON(vote)
}

func listVotes(cliCtx *cli.Context) error {
	c, err := newClient(cliCtx)
	if err != nil {
		return err
	}
	page, err := c.ListVotes(cliCtx.Int("page"), cliCtx.Int("page-size"),
		cliCtx.String("status"), cliCtx.String("creator"))
	if err != nil {
		return err
	}
	return printJSON(page)
}

func commitBallot(cliCtx *cli.Context) error {
	voteID, err := requireArg(cliCtx, "voteId")
	if err != nil {
		return err
	}
	c, err := newClient(cliCtx)
	if err != nil {
		return err
	}
	id, err := c.Commit(voteID, &api.CommitRequest{
		Voter:          cliCtx.String(voterFlag.Name),
		CommitmentHash: cliCtx.String("hash"),
		Salt:           cliCtx.String(saltFlag.Name),
		Algorithm:      cliCtx.String("algorithm"),
	})
	if err != nil {
		return err
	}
	return printJSON(&api.CommitResponse{CommitmentID: id, Success: true})
}

func revealBallot(cliCtx *cli.Context) error {
	voteID, err := requireArg(cliCtx, "voteId")
	if err != nil {
		return err
	}
	c, err := newClient(cliCtx)
	if err != nil {
		return err
	}
	id, err := c.Reveal(voteID, &api.RevealRequest{
		Voter: cliCtx.String(voterFlag.Name),
		Value: types.BallotValue(cliCtx.String("value")),
		Salt:  cliCtx.String(saltFlag.Name),
	})
	if err != nil {
		return err
	}
	return printJSON(&api.RevealResponse{RevealID: id, Success: true})
}

func getResults(cliCtx *cli.Context) error {
	voteID, err := requireArg(cliCtx, "voteId")
	if err != nil {
		return err
	}
	c, err := newClient(cliCtx)
	if err != nil {
		return err
	}
	results, err := c.Results(voteID)
	if err != nil {
		return err
	}
	return printJSON(results)
}

func verifyVote(cliCtx *cli.Context) error {
	voteID, err := requireArg(cliCtx, "voteId")
	if err != nil {
		return err
	}
	c, err := newClient(cliCtx)
	if err != nil {
		return err
	}
	report, err := c.Verify(voteID)
	if err != nil {
		return err
	}
	return printJSON(report)
}

func cancelVote(cliCtx *cli.Context) error {
	voteID, err := requireArg(cliCtx, "voteId")
	if err != nil {
		return err
	}
	c, err := newClient(cliCtx)
	if err != nil {
		return err
	}
	if err := c.Cancel(voteID); err != nil {
		return err
	}
	fmt.Println("ok")
	return nil
}

func listTemplates(cliCtx *cli.Context) error {
	c, err := newClient(cliCtx)
	if err != nil {
		return err
	}
	templates, err := c.Templates()
	if err != nil {
		return err
	}
	return printJSON(&api.TemplateList{Templates: templates})
}

func getTemplate(cliCtx *cli.Context) error {
	id, err := requireArg(cliCtx, "templateId")
	if err != nil {
		return err
	}
	c, err := newClient(cliCtx)
	if err != nil {
		return err
	}
	schema, err := c.Template(id)
	if err != nil {
		return err
	}
	return printJSON(schema)
}

func getHealth(cliCtx *cli.Context) error {
	c, err := newClient(cliCtx)
	if err != nil {
		return err
	}
	health, err := c.Health()
	if err != nil {
		return err
	}
	return printJSON(health)
}
