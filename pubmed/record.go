package pubmed

import (
	"fmt"
	"strconv"
	"strings"
)

// RecordType is the only citation type produced from PubMed.
const RecordType = "journal-article"

const doiPrefix = "http://dx.doi.org/"

// Record is the flattened citation. Optional fields are empty (Year 0) when
// PubMed has no value for them.
type Record struct {
	DOI      string `json:"DOI"`
	Abstract string `json:"Abstract,omitempty"`
	PMC      string `json:"PMC,omitempty"`
	PMID     int    `json:"PMID"`
	Type     string `json:"type"`
	Journal  string `json:"journal"`
	Year     int    `json:"year,omitempty"`
	Volume   string `json:"volume,omitempty"`
	Title    string `json:"title"`
	Pages    string `json:"page,omitempty"`
	Authors  string `json:"authors,omitempty"`
}

// ParseRecord flattens one article.
// Errors: ErrBadPMID.
func ParseRecord(a Article) (Record, error) {
	pmid, err := parsePMID(a.MedlineCitation.PMID)
	if err != nil {
		return Record{}, err
	}
	body := a.MedlineCitation.Article

	rec := Record{
		PMID:    pmid,
		Type:    RecordType,
		Journal: body.Journal.ISOAbbreviation,
		Year:    pubYear(body.Journal.Issue.PubDate),
		Volume:  body.Journal.Issue.Volume,
		Title:   string(body.Title),
	}
	// later ids of the same type win
	for _, id := range a.PubmedData.ArticleIDs {
		switch id.IDType {
		case "doi":
			rec.DOI = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(id.Value)), doiPrefix, "")
		case "pmc":
			rec.PMC = strings.TrimSpace(id.Value)
		}
	}
	if body.Pagination != nil {
		rec.Pages = body.Pagination.MedlinePgn
	}
	if body.Abstract != nil {
		parts := make([]string, 0, len(body.Abstract.Sections))
		for _, s := range body.Abstract.Sections {
			parts = append(parts, string(s.Text))
		}
		rec.Abstract = strings.Join(parts, " ")
	}
	if body.AuthorList != nil {
		names := make([]string, 0, len(body.AuthorList.Authors))
		for _, au := range body.AuthorList.Authors {
			if au.LastName == "" || au.Initials == "" {
				continue
			}
			names = append(names, au.LastName+" "+au.Initials)
		}
		rec.Authors = strings.Join(names, ", ")
	}

	return rec, nil
}

// ParseQueryResult flattens every article and keys the records by DOI.
// Records sharing a DOI (including the empty one) overwrite earlier ones.
func ParseQueryResult(set *ArticleSet) (map[string]Record, error) {
	out := make(map[string]Record)
	if set == nil {
		return out, nil
	}
	for i, a := range set.Articles {
		rec, err := ParseRecord(a)
		if err != nil {
			return nil, fmt.Errorf("ParseQueryResult: article %d: %w", i, err)
		}
		out[rec.DOI] = rec
	}

	return out, nil
}

func parsePMID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q: %w", s, ErrBadPMID)
	}

	return id, nil
}

// pubYear prefers PubDate/Year and falls back to the leading year of
// MedlineDate ("1998 Dec-1999 Jan"). Zero when neither parses.
func pubYear(d PubDate) int {
	if y, err := strconv.Atoi(strings.TrimSpace(d.Year)); err == nil {
		return y
	}
	s := strings.TrimSpace(d.MedlineDate)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if y, err := strconv.Atoi(s[:end]); err == nil {
		return y
	}

	return 0
}
