// Package agent assembles the collection-aware assistant: the collection
// service that answers ownership and valuation queries locally, and the
// interfaces its external collaborators (query router, format specialists,
// web search) are expected to satisfy.
package agent

import "context"

// RouteRequest asks the router where a user query should go.
type RouteRequest struct {
	Query             string   `json:"query"`
	CollectionContext string   `json:"collection_context,omitempty"`
	Specialists       []string `json:"specialists"`
}

// RouteResponse names the specialist chosen for the query, or empty when the
// router decides the collection service should answer directly.
type RouteResponse struct {
	Specialist string `json:"specialist"`
	Reasoning  string `json:"reasoning,omitempty"`
}

// Router dispatches a user query to the specialist best suited to answer it.
type Router interface {
	Route(ctx context.Context, req RouteRequest) (RouteResponse, error)
}

// AnswerRequest carries a query and its collection context to a specialist.
type AnswerRequest struct {
	Query             string `json:"query"`
	CollectionContext string `json:"collection_context,omitempty"`
}

// AnswerResponse is a specialist's answer with the sources it used.
type AnswerResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}

// Specialist answers queries for one area of expertise, such as a
// constructed format or the comprehensive rules.
type Specialist interface {
	// Name identifies the specialist to the router.
	Name() string

	Answer(ctx context.Context, req AnswerRequest) (AnswerResponse, error)
}

// SearchHit is one web search result.
type SearchHit struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// WebSearcher performs web searches on behalf of specialists.
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]SearchHit, error)
}
