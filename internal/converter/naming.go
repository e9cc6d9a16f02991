package converter

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ginjaninja78/registry-converter/internal/config"
)

// =============================================================================
// ATTACHMENT PACKAGE TYPES
// =============================================================================

// DocType is the type of a generated attachment package.
type DocType int

const (
	// DocTer is the therapeutic attachment package.
	DocTer DocType = iota
	// DocFap holds records attached through FAP organisations.
	DocFap
	// DocTerOutOfTown holds therapeutic records insured outside the area.
	DocTerOutOfTown
	// DocFapOutOfTown holds FAP records insured outside the area.
	DocFapOutOfTown
)

func (d DocType) String() string {
	switch d {
	case DocFap:
		return "FAP"
	case DocTerOutOfTown:
		return "TER out-of-town"
	case DocFapOutOfTown:
		return "FAP out-of-town"
	default:
		return "TER"
	}
}

// OutOfTown returns the out-of-town package type of the same family.
func (d DocType) OutOfTown() DocType {
	if d == DocFap || d == DocFapOutOfTown {
		return DocFapOutOfTown
	}
	return DocTerOutOfTown
}

// =============================================================================
// SEQUENTIAL NAMES
// =============================================================================

// packageName matches ATM<org><suffix>_<YYMM><NNN>. Organisation codes may be
// alphanumeric, so the suffix is split off against the configured suffixes.
var packageName = regexp.MustCompile(`^(?i)ATM([0-9A-Z]+)_\d{7,}`)

// Namer issues sequential package names. Every call to Next consumes a packet
// number and saves the store before returning.
type Namer struct {
	store    *config.Store
	docTypes config.DocTypeSettings
	now      func() time.Time
}

// NewNamer creates a Namer backed by store.
func NewNamer(store *config.Store, docTypes config.DocTypeSettings, now func() time.Time) *Namer {
	if now == nil {
		now = time.Now
	}
	return &Namer{store: store, docTypes: docTypes, now: now}
}

// Next returns a new package name for org and docType.
func (n *Namer) Next(org string, docType DocType) (string, error) {
	t := n.now()
	counter := n.store.IncrementPacket(t.Year(), t.Month())
	if err := n.store.Save(); err != nil {
		return "", fmt.Errorf("failed to persist packet counter: %w", err)
	}
	return FormatName(org, n.setting(docType).Suffix, t, counter), nil
}

// AreaType returns the header AREA_TYPE of docType.
func (n *Namer) AreaType(docType DocType) string {
	return n.setting(docType).AreaType
}

// DocTypeOf recovers the package type from a generated file name.
func (n *Namer) DocTypeOf(fileName string) (DocType, bool) {
	m := packageName.FindStringSubmatch(fileName)
	if m == nil {
		return DocTer, false
	}
	head := strings.ToUpper(m[1])
	best, found := DocTer, false
	longest := 0
	for _, d := range []DocType{DocTer, DocFap, DocTerOutOfTown, DocFapOutOfTown} {
		suffix := strings.ToUpper(n.setting(d).Suffix)
		if suffix == "" || len(suffix) <= longest || len(head) <= len(suffix) {
			continue
		}
		if strings.HasSuffix(head, suffix) {
			best, found, longest = d, true, len(suffix)
		}
	}
	return best, found
}

// DocTypeOfArea recovers the package type from a header AREA_TYPE.
func (n *Namer) DocTypeOfArea(areaType string) (DocType, bool) {
	for _, d := range []DocType{DocTer, DocFap, DocTerOutOfTown, DocFapOutOfTown} {
		if n.setting(d).AreaType == areaType {
			return d, true
		}
	}
	return DocTer, false
}

func (n *Namer) setting(d DocType) config.DocTypeSetting {
	switch d {
	case DocFap:
		return n.docTypes.Fap
	case DocTerOutOfTown:
		return n.docTypes.TerOutOfTown
	case DocFapOutOfTown:
		return n.docTypes.FapOutOfTown
	default:
		return n.docTypes.Ter
	}
}

// FormatName builds ATM<org><suffix>_<YY><MM><NNN>.
func FormatName(org, suffix string, t time.Time, counter int) string {
	return fmt.Sprintf("ATM%s%s_%02d%02d%03d", org, suffix, t.Year()%100, int(t.Month()), counter)
}
