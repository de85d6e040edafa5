// Package restriction finds restriction enzyme sites and digest fragments.
package restriction

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Overhang is the kind of end a cut leaves.
type Overhang int

const (
	Blunt Overhang = iota
	FivePrime
	ThreePrime
)

func (o Overhang) String() string {
	switch o {
	case Blunt:
		return "blunt"
	case FivePrime:
		return "5'"
	case ThreePrime:
		return "3'"
	}
	return fmt.Sprintf("Overhang(%d)", int(o))
}

// MarshalText renders the overhang kind for JSON output.
func (o Overhang) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Enzyme is a restriction enzyme. Cut offsets count the bases between the
// 5' end of the site (top strand) and the cut, for the top strand and the
// bottom strand respectively. Offsets may fall outside the site.
type Enzyme struct {
	Name      string `json:"name"`
	Site      string `json:"site"`
	TopCut    int    `json:"top_cut"`
	BottomCut int    `json:"bottom_cut"`
}

// Overhang returns the kind of end the enzyme leaves.
func (e Enzyme) Overhang() Overhang {
	switch {
	case e.TopCut < e.BottomCut:
		return FivePrime
	case e.TopCut > e.BottomCut:
		return ThreePrime
	}
	return Blunt
}

// OverhangLength returns the length of the single-stranded overhang.
func (e Enzyme) OverhangLength() int {
	if e.TopCut > e.BottomCut {
		return e.TopCut - e.BottomCut
	}
	return e.BottomCut - e.TopCut
}

// Notation renders the enzyme in cut-marker notation, the inverse of
// ParseEnzyme.
func (e Enzyme) Notation() string {
	n := len(e.Site)
	if e.TopCut >= 0 && e.TopCut <= n && e.BottomCut == n-e.TopCut {
		return e.Site[:e.TopCut] + "^" + e.Site[e.TopCut:]
	}
	if e.TopCut >= 0 && e.TopCut <= n && e.BottomCut >= 0 && e.BottomCut <= n {
		return insertMarkers(e.Site, e.TopCut, e.BottomCut)
	}
	return fmt.Sprintf("%s(%d/%d)", e.Site, e.TopCut-n, e.BottomCut-n)
}

func insertMarkers(site string, top, bottom int) string {
	var b strings.Builder
	for i := 0; i <= len(site); i++ {
		if i == top {
			b.WriteByte('^')
		}
		if i == bottom {
			b.WriteByte('_')
		}
		if i < len(site) {
			b.WriteByte(site[i])
		}
	}
	return b.String()
}

var (
	offsetNotation = regexp.MustCompile(`^([A-Za-z]+)\((-?\d+)/(-?\d+)\)$`)
	validSite      = regexp.MustCompile(`^[ACGTRYSWKMBDHVN]+$`)
)

// ParseEnzyme parses a recognition sequence in one of the notations
//
//	G^AATTC       top-strand cut; bottom cut mirrored (palindromic sites)
//	GT^MK_AC      explicit top (^) and bottom (_) cuts
//	GGTCTC(1/5)   cuts downstream of the site's 3' end
func ParseEnzyme(name, notation string) (Enzyme, error) {
	notation = strings.ToUpper(strings.TrimSpace(notation))
	name = strings.TrimSpace(name)
	if name == "" {
		return Enzyme{}, fmt.Errorf("enzyme name is empty")
	}

	if m := offsetNotation.FindStringSubmatch(notation); m != nil {
		site := m[1]
		if !validSite.MatchString(site) {
			return Enzyme{}, fmt.Errorf("%s: invalid recognition site %q", name, site)
		}
		top, _ := strconv.Atoi(m[2])
		bottom, _ := strconv.Atoi(m[3])
		return Enzyme{Name: name, Site: site, TopCut: len(site) + top, BottomCut: len(site) + bottom}, nil
	}

	carets := strings.Count(notation, "^")
	unders := strings.Count(notation, "_")
	if carets != 1 || unders > 1 {
		return Enzyme{}, fmt.Errorf("%s: %q needs exactly one '^' cut marker", name, notation)
	}

	top, bottom := -1, -1
	var site strings.Builder
	for i := 0; i < len(notation); i++ {
		switch c := notation[i]; c {
		case '^':
			top = site.Len()
		case '_':
			bottom = site.Len()
		default:
			site.WriteByte(c)
		}
	}

	s := site.String()
	if !validSite.MatchString(s) {
		return Enzyme{}, fmt.Errorf("%s: invalid recognition site %q", name, s)
	}
	if bottom < 0 {
		bottom = len(s) - top
	}
	return Enzyme{Name: name, Site: s, TopCut: top, BottomCut: bottom}, nil
}

func mustEnzyme(name, notation string) Enzyme {
	e, err := ParseEnzyme(name, notation)
	if err != nil {
		panic(err)
	}
	return e
}

// builtin lists common commercial enzymes in cut-marker notation.
var builtin = []Enzyme{
	mustEnzyme("AatII", "GACGT^C"),
	mustEnzyme("AccI", "GT^MKAC"),
	mustEnzyme("AgeI", "A^CCGGT"),
	mustEnzyme("AluI", "AG^CT"),
	mustEnzyme("ApaI", "GGGCC^C"),
	mustEnzyme("AscI", "GG^CGCGCC"),
	mustEnzyme("AvaI", "C^YCGRG"),
	mustEnzyme("BamHI", "G^GATCC"),
	mustEnzyme("BanI", "G^GYRCC"),
	mustEnzyme("BbsI", "GAAGAC(2/6)"),
	mustEnzyme("BglII", "A^GATCT"),
	mustEnzyme("BsaI", "GGTCTC(1/5)"),
	mustEnzyme("BsmBI", "CGTCTC(1/5)"),
	mustEnzyme("BsmI", "GAATGC(1/-1)"),
	mustEnzyme("BstXI", "CCANNNNN^NTGG"),
	mustEnzyme("ClaI", "AT^CGAT"),
	mustEnzyme("DpnII", "^GATC"),
	mustEnzyme("EagI", "C^GGCCG"),
	mustEnzyme("EcoRI", "G^AATTC"),
	mustEnzyme("EcoRV", "GAT^ATC"),
	mustEnzyme("HaeIII", "GG^CC"),
	mustEnzyme("HincII", "GTY^RAC"),
	mustEnzyme("HindIII", "A^AGCTT"),
	mustEnzyme("HpaII", "C^CGG"),
	mustEnzyme("KpnI", "GGTAC^C"),
	mustEnzyme("MboI", "^GATC"),
	mustEnzyme("MfeI", "C^AATTG"),
	mustEnzyme("MluI", "A^CGCGT"),
	mustEnzyme("MspI", "C^CGG"),
	mustEnzyme("NcoI", "C^CATGG"),
	mustEnzyme("NdeI", "CA^TATG"),
	mustEnzyme("NheI", "G^CTAGC"),
	mustEnzyme("NotI", "GC^GGCCGC"),
	mustEnzyme("NsiI", "ATGCA^T"),
	mustEnzyme("PacI", "TTAAT^TAA"),
	mustEnzyme("PstI", "CTGCA^G"),
	mustEnzyme("PvuI", "CGAT^CG"),
	mustEnzyme("PvuII", "CAG^CTG"),
	mustEnzyme("SacI", "GAGCT^C"),
	mustEnzyme("SacII", "CCGC^GG"),
	mustEnzyme("SalI", "G^TCGAC"),
	mustEnzyme("SapI", "GCTCTTC(1/4)"),
	mustEnzyme("Sau3AI", "^GATC"),
	mustEnzyme("ScaI", "AGT^ACT"),
	mustEnzyme("SfiI", "GGCCNNNN^NGGCC"),
	mustEnzyme("SmaI", "CCC^GGG"),
	mustEnzyme("SpeI", "A^CTAGT"),
	mustEnzyme("SphI", "GCATG^C"),
	mustEnzyme("StyI", "C^CWWGG"),
	mustEnzyme("TaqI", "T^CGA"),
	mustEnzyme("XbaI", "T^CTAGA"),
	mustEnzyme("XhoI", "C^TCGAG"),
	mustEnzyme("XmnI", "GAANN^NNTTC"),
}

// Catalog is an immutable set of enzymes addressed by case-insensitive name.
type Catalog struct {
	byName map[string]Enzyme
}

// NewCatalog builds a catalog. Later enzymes replace earlier ones with the
// same name.
func NewCatalog(enzymes ...[]Enzyme) *Catalog {
	c := &Catalog{byName: make(map[string]Enzyme)}
	for _, list := range enzymes {
		for _, e := range list {
			c.byName[strings.ToLower(e.Name)] = e
		}
	}
	return c
}

// Builtin returns the built-in enzymes.
func Builtin() []Enzyme {
	return append([]Enzyme(nil), builtin...)
}

// DefaultCatalog is the catalog of built-in enzymes.
var DefaultCatalog = NewCatalog(builtin)

// Lookup finds an enzyme by name, ignoring case.
func (c *Catalog) Lookup(name string) (Enzyme, bool) {
	e, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return e, ok
}

// Resolve looks up every name, reporting all unknown names in one error.
func (c *Catalog) Resolve(names []string) ([]Enzyme, error) {
	var out []Enzyme
	var unknown []string
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		e, ok := c.Lookup(n)
		if !ok {
			unknown = append(unknown, n)
			continue
		}
		out = append(out, e)
	}
	if len(unknown) > 0 {
		return out, fmt.Errorf("unknown enzymes: %s", strings.Join(unknown, ", "))
	}
	return out, nil
}

// All returns the catalog's enzymes sorted by name.
func (c *Catalog) All() []Enzyme {
	out := make([]Enzyme, 0, len(c.byName))
	for _, e := range c.byName {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Len returns the number of enzymes in the catalog.
func (c *Catalog) Len() int {
	return len(c.byName)
}

// Lookup finds a built-in enzyme by name, ignoring case.
func Lookup(name string) (Enzyme, bool) {
	return DefaultCatalog.Lookup(name)
}
