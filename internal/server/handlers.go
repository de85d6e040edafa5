package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pzweuj/biotools-sub000/internal/barcode"
	"github.com/pzweuj/biotools-sub000/internal/codon"
	"github.com/pzweuj/biotools-sub000/internal/dimer"
	"github.com/pzweuj/biotools-sub000/internal/hgvs"
	"github.com/pzweuj/biotools-sub000/internal/orf"
	"github.com/pzweuj/biotools-sub000/internal/restriction"
	"github.com/pzweuj/biotools-sub000/internal/seq"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func parseCode(s string) (codon.Code, error) {
	if strings.TrimSpace(s) == "" {
		return codon.Standard, nil
	}
	return codon.ParseCode(s)
}

func parseFormat(s string) (seq.Format, error) {
	if strings.TrimSpace(s) == "" {
		return seq.FormatFASTA, nil
	}
	return seq.ParseFormat(s)
}

// SequenceRequest carries a single sequence.
type SequenceRequest struct {
	Sequence string `json:"sequence"`
}

// SequenceResponse carries a transformed sequence.
type SequenceResponse struct {
	Sequence string `json:"sequence"`
	Result   string `json:"result"`
}

func (s *Server) handleRevComp(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if !decode(w, r, &req) {
		return
	}
	in := seq.Clean(req.Sequence)
	writeJSON(w, http.StatusOK, SequenceResponse{Sequence: in, Result: seq.ReverseComplement(in)})
}

// TranscribeRequest selects DNA->RNA or, with Reverse, RNA->DNA.
type TranscribeRequest struct {
	Sequence string `json:"sequence"`
	Reverse  bool   `json:"reverse"`
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	var req TranscribeRequest
	if !decode(w, r, &req) {
		return
	}
	in := seq.Clean(req.Sequence)
	out := seq.Transcribe(in)
	if req.Reverse {
		out = seq.ReverseTranscribe(in)
	}
	writeJSON(w, http.StatusOK, SequenceResponse{Sequence: in, Result: out})
}

// TranslateRequest is a single-frame translation.
type TranslateRequest struct {
	Sequence string `json:"sequence"`
	Frame    int    `json:"frame"`
	Code     string `json:"code"`
	StopMode string `json:"stop_mode"`
}

// TranslateResponse is the translated protein.
type TranslateResponse struct {
	Frame           int     `json:"frame"`
	Code            string  `json:"code"`
	Protein         string  `json:"protein"`
	MolecularWeight float64 `json:"molecular_weight"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if !decode(w, r, &req) {
		return
	}
	code, err := parseCode(req.Code)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	mode, err := codon.ParseStopMode(req.StopMode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	frame := req.Frame
	if frame == 0 || frame < -3 || frame > 3 {
		frame = 1
	}
	in := seq.Clean(req.Sequence)
	resp := TranslateResponse{
		Frame:   frame,
		Code:    code.String(),
		Protein: code.TranslateFrame(in, frame, mode),
	}
	if mode != codon.StopLabel {
		resp.MolecularWeight = codon.MolecularWeight(resp.Protein)
	}
	writeJSON(w, http.StatusOK, resp)
}

// UsageRequest asks for codon usage of a coding sequence.
type UsageRequest struct {
	Sequence string `json:"sequence"`
	Code     string `json:"code"`
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	var req UsageRequest
	if !decode(w, r, &req) {
		return
	}
	code, err := parseCode(req.Code)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, code.CountUsage(seq.Clean(req.Sequence)))
}

// ORFRequest searches every record of a (FASTA) text. Unset fields take
// the server defaults.
type ORFRequest struct {
	Sequence    string `json:"sequence"`
	MinLength   *int   `json:"min_length"`
	StartCodons string `json:"start_codons"`
	Code        string `json:"code"`
	Strand      string `json:"strand"`
	StopMode    string `json:"stop_mode"`
}

func (s *Server) handleORF(w http.ResponseWriter, r *http.Request) {
	var req ORFRequest
	if !decode(w, r, &req) {
		return
	}

	p := s.opts.ORF
	if req.MinLength != nil {
		p.MinLength = *req.MinLength
	}
	if req.StartCodons != "" {
		p.StartCodons = orf.ParseStartCodons(req.StartCodons)
	}
	var err error
	if req.Code != "" {
		if p.Code, err = codon.ParseCode(req.Code); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	if req.Strand != "" {
		if p.Strand, err = orf.ParseStrand(req.Strand); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	if req.StopMode != "" {
		if p.StopMode, err = codon.ParseStopMode(req.StopMode); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	f := orf.NewFinder(p)
	f.SetWorkers(s.opts.ORFWorkers)
	f.SetLogger(s.logger)
	results, err := f.FindAll(r.Context(), seq.ParseText(req.Sequence))
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleEnzymes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.opts.Catalog.All())
}

// DigestRequest digests one sequence with named enzymes.
type DigestRequest struct {
	Sequence string   `json:"sequence"`
	Enzymes  []string `json:"enzymes"`
	Circular bool     `json:"circular"`
}

// DigestResponse adds per-enzyme site counts to the digest result.
type DigestResponse struct {
	restriction.Result
	Counts []restriction.EnzymeCount `json:"counts"`
}

func (s *Server) handleDigest(w http.ResponseWriter, r *http.Request) {
	var req DigestRequest
	if !decode(w, r, &req) {
		return
	}
	enzymes, err := s.opts.Catalog.Resolve(req.Enzymes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res := restriction.Digest(req.Sequence, restriction.Params{Enzymes: enzymes, Circular: req.Circular})
	writeJSON(w, http.StatusOK, DigestResponse{Result: res, Counts: restriction.CountSites(enzymes, res.Sites)})
}

// LigateRequest checks end compatibility of two digests.
type LigateRequest struct {
	A        string `json:"a"`
	EnzymeA  string `json:"enzyme_a"`
	B        string `json:"b"`
	EnzymeB  string `json:"enzyme_b"`
	Circular bool   `json:"circular"`
}

func (s *Server) handleLigate(w http.ResponseWriter, r *http.Request) {
	var req LigateRequest
	if !decode(w, r, &req) {
		return
	}
	enzymes, err := s.opts.Catalog.Resolve([]string{req.EnzymeA, req.EnzymeB})
	if err == nil && len(enzymes) != 2 {
		err = errors.New("two enzymes are required")
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, restriction.Ligate(req.A, enzymes[0], req.B, enzymes[1], req.Circular))
}

// DimerRequest carries primers either as text or as a list.
type DimerRequest struct {
	Text        string         `json:"text"`
	Primers     []dimer.Primer `json:"primers"`
	Temperature float64        `json:"temperature"`
}

func (s *Server) handleDimer(w http.ResponseWriter, r *http.Request) {
	var req DimerRequest
	if !decode(w, r, &req) {
		return
	}
	primers := append(dimer.ParsePrimers(req.Text), req.Primers...)
	p := s.opts.Dimer
	if req.Temperature > 0 {
		p.Temperature = req.Temperature
	}
	report, err := dimer.Analyze(primers, p)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// IndexRequest carries an index sheet either as text or as entries.
type IndexRequest struct {
	Sheet   string          `json:"sheet"`
	Entries []barcode.Entry `json:"entries"`
}

// IndexResponse lists the detected issues.
type IndexResponse struct {
	Entries int             `json:"entries"`
	Issues  []barcode.Issue `json:"issues"`
}

func (s *Server) handleIndexCheck(w http.ResponseWriter, r *http.Request) {
	var req IndexRequest
	if !decode(w, r, &req) {
		return
	}
	entries := append(barcode.ParseSheet(req.Sheet), req.Entries...)
	for i := range entries {
		if entries[i].Row == 0 {
			entries[i].Row = i + 1
		}
	}
	issues := barcode.Check(entries, s.opts.Index)
	if issues == nil {
		issues = []barcode.Issue{}
	}
	writeJSON(w, http.StatusOK, IndexResponse{Entries: len(entries), Issues: issues})
}

// ConvertRequest converts sequence records between exchange formats.
type ConvertRequest struct {
	Text  string `json:"text"`
	From  string `json:"from"`
	To    string `json:"to"`
	Width int    `json:"width"`
}

// ConvertResponse holds the converted text and the parsed records.
type ConvertResponse struct {
	Output  string       `json:"output"`
	Records []seq.Record `json:"records"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if !decode(w, r, &req) {
		return
	}
	from, err := parseFormat(req.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	to, err := parseFormat(req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	width := req.Width
	if width <= 0 {
		width = seq.DefaultLineWidth
	}

	records := seq.Parse(req.Text, from)
	var buf bytes.Buffer
	if err := seq.Write(&buf, records, to, width); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, ConvertResponse{Output: buf.String(), Records: records})
}

func (s *Server) handleHGVS(w http.ResponseWriter, r *http.Request) {
	if s.opts.HGVS == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("HGVS normalization is not configured"))
		return
	}
	descriptor := chi.URLParam(r, "*")
	body, err := s.opts.HGVS.Normalize(r.Context(), descriptor)

	var herr *hgvs.HTTPError
	switch {
	case errors.As(err, &herr):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(herr.StatusCode)
		w.Write([]byte(herr.Body))
	case errors.Is(err, hgvs.ErrEmptyDescriptor):
		writeError(w, http.StatusBadRequest, err)
	case err != nil:
		s.logger.Warn("hgvs proxy failed", zap.String("descriptor", descriptor), zap.Error(err))
		writeError(w, http.StatusBadGateway, err)
	default:
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}
}
