package imap

import (
	"fmt"
	"strings"

	goimap "github.com/emersion/go-imap"

	"github.com/mailsift/mailsift/dto"
)

const searchDateLayout = "2-Jan-2006"

// BuildSearchAtoms turns a fetch query into the raw IMAP SEARCH atoms sent to
// the provider. The UNSEEN predicate is always present; it is the sole
// de-duplication mechanism, no persisted cursor is consulted. SINCE is
// inclusive and BEFORE exclusive, both at day granularity, matching the
// protocol's own date semantics. The Gmail category predicate is always
// appended last via the X-GM-RAW search extension. All predicates are
// conjunctive.
func BuildSearchAtoms(query dto.FetchQuery) []interface{} {
	atoms := []interface{}{goimap.RawString("UNSEEN")}

	if query.StartDate != nil {
		atoms = append(atoms,
			goimap.RawString("SINCE"),
			goimap.RawString(query.StartDate.Format(searchDateLayout)),
		)
	}

	if query.EndDate != nil {
		atoms = append(atoms,
			goimap.RawString("BEFORE"),
			goimap.RawString(query.EndDate.Format(searchDateLayout)),
		)
	}

	atoms = append(atoms,
		goimap.RawString("X-GM-RAW"),
		fmt.Sprintf("category:%s", strings.ToLower(query.Category)),
	)

	return atoms
}
