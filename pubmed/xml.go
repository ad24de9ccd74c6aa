package pubmed

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// Text is element content with inline markup (<i>, <sup>, …) flattened away.
type Text string

// UnmarshalXML concatenates all character data below the element.
func (t *Text) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	var b strings.Builder
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.CharData:
			b.Write(el)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				*t = Text(strings.TrimSpace(b.String()))
				return nil
			}
			depth--
		}
	}
}

// ArticleSet is an efetch PubmedArticleSet. Book records are ignored.
type ArticleSet struct {
	XMLName  xml.Name  `xml:"PubmedArticleSet"`
	Articles []Article `xml:"PubmedArticle"`
}

// Article is one PubmedArticle.
type Article struct {
	MedlineCitation MedlineCitation `xml:"MedlineCitation"`
	PubmedData      PubmedData      `xml:"PubmedData"`
}

type MedlineCitation struct {
	PMID    string      `xml:"PMID"`
	Article ArticleBody `xml:"Article"`
}

type ArticleBody struct {
	Journal    Journal     `xml:"Journal"`
	Title      Text        `xml:"ArticleTitle"`
	Pagination *Pagination `xml:"Pagination"`
	Abstract   *Abstract   `xml:"Abstract"`
	AuthorList *AuthorList `xml:"AuthorList"`
}

type Journal struct {
	Title           string       `xml:"Title"`
	ISOAbbreviation string       `xml:"ISOAbbreviation"`
	Issue           JournalIssue `xml:"JournalIssue"`
}

type JournalIssue struct {
	Volume  string  `xml:"Volume"`
	Issue   string  `xml:"Issue"`
	PubDate PubDate `xml:"PubDate"`
}

type PubDate struct {
	Year        string `xml:"Year"`
	Month       string `xml:"Month"`
	MedlineDate string `xml:"MedlineDate"`
}

type Pagination struct {
	MedlinePgn string `xml:"MedlinePgn"`
}

type Abstract struct {
	Sections []AbstractText `xml:"AbstractText"`
}

// AbstractText is one (possibly labelled) abstract section.
type AbstractText struct {
	Label string
	Text  Text
}

// UnmarshalXML reads the Label attribute and the flattened section text.
func (a *AbstractText) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		if attr.Name.Local == "Label" {
			a.Label = attr.Value
		}
	}

	return a.Text.UnmarshalXML(d, start)
}

type AuthorList struct {
	Authors []Author `xml:"Author"`
}

type Author struct {
	LastName string `xml:"LastName"`
	ForeName string `xml:"ForeName"`
	Initials string `xml:"Initials"`
}

type PubmedData struct {
	ArticleIDs []ArticleID `xml:"ArticleIdList>ArticleId"`
}

type ArticleID struct {
	IDType string `xml:"IdType,attr"`
	Value  string `xml:",chardata"`
}

// searchResult is an esearch eSearchResult.
type searchResult struct {
	XMLName xml.Name `xml:"eSearchResult"`
	Count   int      `xml:"Count"`
	IDs     []string `xml:"IdList>Id"`
	Error   string   `xml:"ERROR"`
}

// ParseArticleSet decodes an efetch XML payload.
func ParseArticleSet(r io.Reader) (*ArticleSet, error) {
	var set ArticleSet
	if err := xml.NewDecoder(r).Decode(&set); err != nil {
		if errors.Is(err, io.EOF) {
			return &set, nil
		}
		return nil, err
	}

	return &set, nil
}
