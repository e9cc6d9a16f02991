package converter

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/registry-converter/internal/types"
)

// Kind identifies the document variant of an input file.
type Kind int

const (
	KindUnknown Kind = iota
	KindPRKS
	KindOZPS
	KindSZPM
	KindATM
)

var kindPrefixes = []struct {
	prefix string
	kind   Kind
}{
	{"prks", KindPRKS},
	{"ozps", KindOZPS},
	{"szpm", KindSZPM},
	{"atm", KindATM},
}

func (k Kind) String() string {
	switch k {
	case KindPRKS:
		return "PRKS"
	case KindOZPS:
		return "OZPS"
	case KindSZPM:
		return "SZPM"
	case KindATM:
		return "ATM"
	default:
		return "unknown"
	}
}

// NeedsReport reports whether the kind is processed against an FLK report.
func (k Kind) NeedsReport() bool {
	return k == KindATM
}

// ResolveKind maps a file name to its document kind by prefix, ignoring case.
func ResolveKind(fileName string) (Kind, error) {
	lower := strings.ToLower(fileName)
	for _, p := range kindPrefixes {
		if strings.HasPrefix(lower, p.prefix) {
			return p.kind, nil
		}
	}
	return KindUnknown, fmt.Errorf("%w: %s", types.ErrUnsupportedKind, fileName)
}
