package pubmed

import "errors"

var (
	// ErrMissingEmail indicates no contact email was configured (NCBI requires one).
	ErrMissingEmail = errors.New("pubmed: ENTREZ_EMAIL is not set (environment or .env)")

	// ErrEmptyQuery indicates a blank search term.
	ErrEmptyQuery = errors.New("pubmed: empty query")

	// ErrHTTPStatus indicates a non-2xx response from E-utilities.
	ErrHTTPStatus = errors.New("pubmed: unexpected HTTP status")

	// ErrBadPMID indicates a PMID that is not a positive integer.
	ErrBadPMID = errors.New("pubmed: malformed PMID")

	// ErrEntrez indicates E-utilities reported an error in the response body.
	ErrEntrez = errors.New("pubmed: entrez error")
)
