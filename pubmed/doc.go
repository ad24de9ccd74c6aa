// Package pubmed queries NCBI PubMed through the Entrez E-utilities and turns
// the returned MEDLINE XML into flat citation records.
//
// A query is two round trips: esearch resolves the search term to PMIDs,
// efetch returns the full PubmedArticleSet (in batches). Records are keyed by
// DOI.
//
//	email, err := pubmed.EmailFromEnv()
//	c, err := pubmed.NewClient(pubmed.Options{Email: email})
//	recs, err := c.ProcessedQuery(ctx, "ome-meme", 100)
//
// NCBI asks for at most 3 requests per second (10 with an API key); the
// client enforces that with a token bucket shared by all calls.
package pubmed
