// =============================================================================
// Registry Converter - Policy Normalisation
// =============================================================================
//
// PRKS and OZPS files carry the single-field policy number ENP. The receiving
// system expects the three-field form instead:
//
//   <ENP>3912345678901234</ENP>      <VPOLIS>3</VPOLIS>
//                               ->   <SPOLIS/>
//                                    <NPOLIS>3912345678901234</NPOLIS>
//
// PRKS additionally drops fields the receiver no longer accepts. OZPS headers
// may carry FILENAME with an extension, which is cut off.
//
// Both rules edit the document in place; the output keeps the root tag and
// the input file name.
//
// =============================================================================

package converter

import (
	"strings"

	"github.com/ginjaninja78/registry-converter/internal/types"
)

const (
	policyTypeUnified = "3"
	policyVersion     = "1.0"
)

// prksDeprecated are removed from every PRKS record.
var prksDeprecated = []string{types.TagMdDepID, types.TagAreaType, types.TagDocID}

// NormalizePRKS rewrites the policy fields of a PRKS document.
func NormalizePRKS(root *types.Element) error {
	return normalizePolicies(root, prksDeprecated)
}

// NormalizeOZPS rewrites the policy fields of an OZPS document and strips the
// extension from the header FILENAME.
func NormalizeOZPS(root *types.Element) error {
	if err := normalizePolicies(root, nil); err != nil {
		return err
	}
	header, err := types.HeaderOf(root)
	if err != nil {
		return err
	}
	if name, ok := header.ChildText(types.TagFilename); ok {
		types.SetChildText(header.Element, types.TagFilename, trimEmbeddedExt(name))
	}
	return nil
}

// normalizePolicies checks every record before editing any of them so a
// missing ENP leaves the document untouched.
func normalizePolicies(root *types.Element, deprecated []string) error {
	header, err := types.HeaderOf(root)
	if err != nil {
		return err
	}

	records := types.RecordsOf(root, types.TagPerson)
	for _, rec := range records {
		if _, ok := rec.PolicyENP(); !ok {
			return &types.MissingFieldError{Element: types.TagPerson, Field: types.TagENP}
		}
	}

	for _, rec := range records {
		enp, _ := rec.PolicyENP()
		types.RemoveChildren(rec.Element, deprecated...)
		rec.Append(
			types.NewElement(types.TagVPolis, policyTypeUnified),
			types.NewElement(types.TagSPolis, ""),
			types.NewElement(types.TagNPolis, enp),
		)
		types.RemoveChild(rec.Element, types.TagENP)
	}

	types.SetChildText(header.Element, types.TagVersion, policyVersion)
	return nil
}

// trimEmbeddedExt cuts a FILENAME such as "OZPS39_2610.xml" at the first dot.
// Values without ".xml" are returned unchanged.
func trimEmbeddedExt(name string) string {
	if !strings.Contains(strings.ToLower(name), ".xml") {
		return name
	}
	if i := strings.Index(name, "."); i >= 0 {
		return name[:i]
	}
	return name
}
