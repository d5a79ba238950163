package api

const (
	// HealthEndpoint is the endpoint for checking the API status
	HealthEndpoint = "/health"
	// VotesEndpoint is the endpoint for creating and listing votes
	VotesEndpoint = "/api/v1/votes"
	// VoteEndpoint is the endpoint to get a single vote
	VoteURLParam = "voteId"
	VoteEndpoint = VotesEndpoint + "/{" + VoteURLParam + "}"
	// CommitEndpoint is the endpoint for submitting a ballot commitment
	CommitEndpoint = VoteEndpoint + "/commit"
	// RevealEndpoint is the endpoint for revealing a committed ballot
	RevealEndpoint = VoteEndpoint + "/reveal"
	// ResultsEndpoint is the endpoint for retrieving aggregated results
	ResultsEndpoint = VoteEndpoint + "/results"
	// VerifyEndpoint is the endpoint for replaying a vote and getting a
	// verification report
	VerifyEndpoint = VoteEndpoint + "/verify"
	// CancelEndpoint is the endpoint for cancelling a vote
	CancelEndpoint = VoteEndpoint + "/cancel"
	// TemplatesEndpoint is the endpoint for listing ballot templates
	TemplatesEndpoint = "/api/v1/templates"
	// TemplateEndpoint is the endpoint to get a single template schema
	TemplateURLParam = "templateId"
	TemplateEndpoint = TemplatesEndpoint + "/{" + TemplateURLParam + "}"
)
