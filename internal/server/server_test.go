package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pzweuj/biotools-sub000/internal/dimer"
	"github.com/pzweuj/biotools-sub000/internal/hgvs"
	"github.com/pzweuj/biotools-sub000/internal/orf"
	"github.com/pzweuj/biotools-sub000/internal/restriction"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(opts).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	resp, err := http.Post(ts.URL+path, "application/json", &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "OK", string(body))
}

func TestRevCompAndTranscribe(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := post(t, ts, "/api/sequence/revcomp", SequenceRequest{Sequence: "atg aaa tag"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got SequenceResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "ATGAAATAG", got.Sequence)
	assert.Equal(t, "CTATTTCAT", got.Result)

	_, body = post(t, ts, "/api/sequence/transcribe", TranscribeRequest{Sequence: "ATGT"})
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "AUGU", got.Result)

	_, body = post(t, ts, "/api/sequence/transcribe", TranscribeRequest{Sequence: "AUGU", Reverse: true})
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "ATGT", got.Result)
}

func TestTranslate(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := post(t, ts, "/api/sequence/translate", TranslateRequest{Sequence: "CTATTTCAT", Frame: -1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got TranslateResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "MK*", got.Protein)
	assert.Equal(t, "standard", got.Code)
	assert.Greater(t, got.MolecularWeight, 0.0)

	resp, _ = post(t, ts, "/api/sequence/translate", TranslateRequest{Sequence: "ATG", Code: "martian"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestORF(t *testing.T) {
	ts := newTestServer(t, Options{})

	minLen := 9
	resp, body := post(t, ts, "/api/orf", ORFRequest{
		Sequence:  ">a\nATGAAATAG\n>b\nGGCTATTTCAT\n",
		MinLength: &minLen,
		StopMode:  "truncate",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []orf.RecordORFs
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	require.Len(t, got[0].ORFs, 1)
	assert.Equal(t, "MK", got[0].ORFs[0].Protein)
	require.Len(t, got[1].ORFs, 1)
	assert.Equal(t, -1, got[1].ORFs[0].Frame)

	// Server default minimum length (75) filters everything.
	_, body = post(t, ts, "/api/orf", ORFRequest{Sequence: "ATGAAATAG"})
	var filtered []orf.RecordORFs
	require.NoError(t, json.Unmarshal(body, &filtered))
	require.Len(t, filtered, 1)
	assert.Empty(t, filtered[0].ORFs)

	resp, _ = post(t, ts, "/api/orf", ORFRequest{Sequence: "ATG", Strand: "sideways"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDigest(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := post(t, ts, "/api/restriction/digest", DigestRequest{Sequence: "GGAATTCC", Enzymes: []string{"ecori"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Length    int                       `json:"length"`
		Sites     []restriction.CutSite     `json:"sites"`
		Fragments []restriction.Fragment    `json:"fragments"`
		Counts    []restriction.EnzymeCount `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, 8, got.Length)
	require.Len(t, got.Sites, 1)
	assert.Equal(t, 2, got.Sites[0].Start)
	assert.Len(t, got.Fragments, 2)
	assert.Equal(t, []restriction.EnzymeCount{{Enzyme: "EcoRI", Sites: 1}}, got.Counts)

	resp, body = post(t, ts, "/api/restriction/digest", DigestRequest{Sequence: "GGAATTCC", Enzymes: []string{"Nope"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "unknown enzymes: Nope")
}

func TestDigest_CustomCatalog(t *testing.T) {
	custom := restriction.NewCatalog(restriction.Builtin(), []restriction.Enzyme{{Name: "MyI", Site: "AATT", TopCut: 2, BottomCut: 2}})
	ts := newTestServer(t, Options{Catalog: custom})

	resp, _ := post(t, ts, "/api/restriction/digest", DigestRequest{Sequence: "GGAATTCC", Enzymes: []string{"MyI"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	r, err := http.Get(ts.URL + "/api/restriction/enzymes")
	require.NoError(t, err)
	defer r.Body.Close()
	var list []restriction.Enzyme
	require.NoError(t, json.NewDecoder(r.Body).Decode(&list))
	assert.Len(t, list, custom.Len())
}

func TestLigate(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := post(t, ts, "/api/restriction/ligate", LigateRequest{
		A: "AGGATCCA", EnzymeA: "BamHI", B: "AAGATCTA", EnzymeB: "BglII",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got restriction.Compatibility
	require.NoError(t, json.Unmarshal(body, &got))
	assert.True(t, got.Compatible)

	resp, _ = post(t, ts, "/api/restriction/ligate", LigateRequest{A: "AAAA", EnzymeA: "BamHI"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDimer(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := post(t, ts, "/api/dimer", DimerRequest{Text: "p1 ATCGCGAT\np2 AAAAAAAA"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Self []struct {
			Top  string `json:"top"`
			Risk string `json:"risk"`
		} `json:"self"`
		Hetero []json.RawMessage `json:"hetero"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got.Self, 2)
	assert.Equal(t, "p1", got.Self[0].Top)
	assert.Equal(t, "high", got.Self[0].Risk)
	assert.Len(t, got.Hetero, 1)
}

func TestDimer_TooManyPrimers(t *testing.T) {
	ts := newTestServer(t, Options{Dimer: dimer.Params{MaxPrimers: 2}})

	resp, body := post(t, ts, "/api/dimer", DimerRequest{Text: "ACGTACGT\nGGGGCCCC\nTTTTAAAA"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "too many primers: 3 given, limit is 2")

	resp, _ = post(t, ts, "/api/dimer", DimerRequest{Text: "ACGTACGT\nGGGGCCCC"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestIndexCheck(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := post(t, ts, "/api/index/check", IndexRequest{Sheet: "a AAACCCGG\nb CCGGGTTT\n"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Entries int `json:"entries"`
		Issues  []struct {
			Severity string `json:"severity"`
			Kind     string `json:"kind"`
			Rows     []int  `json:"rows"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, 2, got.Entries)
	require.Len(t, got.Issues, 1)
	assert.Equal(t, "error", got.Issues[0].Severity)
	assert.Equal(t, "reverse-complement", got.Issues[0].Kind)
	assert.Equal(t, []int{1, 2}, got.Issues[0].Rows)

	_, body = post(t, ts, "/api/index/check", IndexRequest{Sheet: "a ACGT\n"})
	assert.JSONEq(t, `{"entries":1,"issues":[]}`, string(body))
}

func TestConvert(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := post(t, ts, "/api/convert", ConvertRequest{Text: ">a desc\nACGT\nAC\n", To: "tsv"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got ConvertResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "a\tACGTAC\n", got.Output)
	require.Len(t, got.Records, 1)

	resp, _ = post(t, ts, "/api/convert", ConvertRequest{Text: "x", To: "genbank"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBadJSON(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, err := http.Post(ts.URL+"/api/dimer", "application/json", bytes.NewBufferString("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var got map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Contains(t, got["error"], "invalid request body")
}

func TestHGVSProxy(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/normalize/bad" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"error":"syntax"}`))
			return
		}
		w.Write([]byte(`{"input":"` + r.URL.Path + `"}`))
	}))
	defer upstream.Close()

	ts := newTestServer(t, Options{HGVS: hgvs.NewClient(upstream.URL+"/normalize", time.Second)})

	resp, err := http.Get(ts.URL + "/api/hgvs/NM_003002.2:c.274G%3ET")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"input":"/normalize/NM_003002.2:c.274G>T"}`, string(body))

	resp, err = http.Get(ts.URL + "/api/hgvs/bad")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, `{"error":"syntax"}`, string(body))
}

func TestHGVS_NotConfigured(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, err := http.Get(ts.URL + "/api/hgvs/x")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
