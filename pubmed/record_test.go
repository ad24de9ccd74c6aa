package pubmed_test

import (
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/poldracklab/labutils/pubmed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSet(t *testing.T) *pubmed.ArticleSet {
	t.Helper()
	f, err := os.Open("testdata/efetch.xml")
	require.NoError(t, err)
	defer f.Close()
	set, err := pubmed.ParseArticleSet(f)
	require.NoError(t, err)
	return set
}

func TestParseRecord_Full(t *testing.T) {
	set := loadSet(t)
	require.Len(t, set.Articles, 2)

	got, err := pubmed.ParseRecord(set.Articles[0])
	require.NoError(t, err)
	want := pubmed.Record{
		DOI:      "10.1186/2047-217x-1-6",
		Abstract: "Songs and phrases can be so catchy that they stick in your head. The term ome spreads like a meme.",
		PMC:      "PMC3626503",
		PMID:     23587201,
		Type:     "journal-article",
		Journal:  "Gigascience",
		Year:     2012,
		Volume:   "1",
		Title:    "Badomics words and the power and peril of the ome-meme.",
		Pages:    "6",
		Authors:  "Baker M, Eisen JA",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseRecord mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRecord_SparseFields(t *testing.T) {
	set := loadSet(t)
	got, err := pubmed.ParseRecord(set.Articles[1])
	require.NoError(t, err)
	want := pubmed.Record{
		DOI:     "10.1523/jneurosci.x",
		PMID:    10000001,
		Type:    pubmed.RecordType,
		Journal: "J Neurosci",
		Year:    1998,
		Title:   "CO2 and the BOLD signal.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseRecord mismatch (-want +got):\n%s", diff)
	}
}

func TestParseQueryResult_KeyedByDOI(t *testing.T) {
	recs, err := pubmed.ParseQueryResult(loadSet(t))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 23587201, recs["10.1186/2047-217x-1-6"].PMID)
	assert.Equal(t, 10000001, recs["10.1523/jneurosci.x"].PMID)

	// duplicate DOI: the later record wins
	set := loadSet(t)
	set.Articles = append(set.Articles, set.Articles[0])
	set.Articles[2].MedlineCitation.PMID = "42"
	recs, err = pubmed.ParseQueryResult(set)
	require.NoError(t, err)
	assert.Equal(t, 42, recs["10.1186/2047-217x-1-6"].PMID)
}

func TestParseRecord_BadPMID(t *testing.T) {
	set := loadSet(t)
	a := set.Articles[0]
	a.MedlineCitation.PMID = "abc"
	_, err := pubmed.ParseRecord(a)
	assert.ErrorIs(t, err, pubmed.ErrBadPMID)

	set.Articles[1].MedlineCitation.PMID = ""
	_, err = pubmed.ParseQueryResult(set)
	assert.ErrorIs(t, err, pubmed.ErrBadPMID)
}

func TestParseArticleSet_Malformed(t *testing.T) {
	_, err := pubmed.ParseArticleSet(strings.NewReader("<PubmedArticleSet><PubmedArticle>"))
	assert.Error(t, err)
}
