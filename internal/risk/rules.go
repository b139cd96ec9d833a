// Package risk scores extracted clauses with deterministic rules and
// rolls per-clause scores into a contract-level verdict. Everything in
// this package is a pure function over immutable lookup tables built
// at init; nothing depends on the model.
package risk

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/contractiq/contractiq/internal/cuad"
)

// defaultImportance is used for clause types absent from the table.
const defaultImportance = 0.5

// importanceWeights rank each clause type's legal significance in
// [0.2, 1.0]. Applied multiplicatively to base risk.
var importanceWeights = map[cuad.ClauseType]float64{
	cuad.Indemnity:                      1.0,
	cuad.CapOnLiability:                 1.0,
	cuad.UncappedLiability:              1.0,
	cuad.LiquidatedDamages:              0.9,
	cuad.TerminationForConvenience:      0.9,
	cuad.GoverningLaw:                   0.8,
	cuad.IPOwnershipAssignment:          0.9,
	cuad.JointIPOwnership:               0.9,
	cuad.NonCompete:                     0.8,
	cuad.Exclusivity:                    0.8,
	cuad.ChangeOfControl:                0.8,
	cuad.AntiAssignment:                 0.7,
	cuad.AuditRights:                    0.6,
	cuad.WarrantyDuration:               0.6,
	cuad.Insurance:                      0.6,
	cuad.NoticePeriodToTerminateRenewal: 0.7,
	cuad.PostTerminationServices:        0.6,
	cuad.RevenueProfitSharing:           0.7,
	cuad.PriceRestrictions:              0.6,
	cuad.MinimumCommitment:              0.6,
	cuad.VolumeRestriction:              0.5,
	cuad.NoSolicitOfCustomers:           0.7,
	cuad.NoSolicitOfEmployees:           0.7,
	cuad.NonDisparagement:               0.5,
	cuad.RofrRofoRofn:                   0.7,
	cuad.LicenseGrant:                   0.6,
	cuad.NonTransferableLicense:         0.5,
	cuad.IrrevocableOrPerpetualLicense:  0.6,
	cuad.SourceCodeEscrow:               0.5,
	cuad.CovenantNotToSue:               0.6,
	cuad.ThirdPartyBeneficiary:          0.5,
	cuad.DocumentName:                   0.2,
	cuad.Parties:                        0.3,
	cuad.AgreementDate:                  0.2,
	cuad.EffectiveDate:                  0.3,
	cuad.ExpirationDate:                 0.4,
	cuad.RenewalTerm:                    0.5,
	cuad.AffiliateLicenseLicensor:       0.4,
	cuad.AffiliateLicenseLicensee:       0.4,
	cuad.UnlimitedLicense:               0.5,
	cuad.MostFavoredNation:              0.6,
}

// criticalClauses must exist in any well-formed contract; their
// absence is itself a high risk.
var criticalClauses = map[cuad.ClauseType]bool{
	cuad.CapOnLiability:            true,
	cuad.TerminationForConvenience: true,
	cuad.GoverningLaw:              true,
}

// Importance returns the clause type's weight, defaulting to 0.5 for
// unlisted types.
func Importance(ct cuad.ClauseType) float64 {
	if w, ok := importanceWeights[ct]; ok {
		return w
	}
	return defaultImportance
}

// IsCritical reports whether the clause type belongs to the
// missing-critical set.
func IsCritical(ct cuad.ClauseType) bool {
	return criticalClauses[ct]
}

var (
	dayCountRe  = regexp.MustCompile(`(\d+)\s*days`)
	yearCountRe = regexp.MustCompile(`(\d+)\s*(year|years)`)
	dollarRe    = regexp.MustCompile(`\$\s*(\d{1,3}(,\d{3})*)`)
)

// baseRisk scores the clause content with type-specific keyword and
// threshold rules. Clause types with no rule score the neutral 40.
func baseRisk(ct cuad.ClauseType, text string) float64 {
	lower := strings.ToLower(text)

	switch ct {
	case cuad.Indemnity:
		if containsAny(lower, "unlimited", "uncapped", "all claims", "any and all") {
			return 90
		}
		if strings.Contains(lower, "one-sided") || strings.Contains(lower, "licensee shall indemnify") {
			return 75
		}
		if strings.Contains(lower, "mutual") && containsAny(lower, "reasonable", "limited") {
			return 30
		}
		return 60

	case cuad.CapOnLiability:
		if containsAny(lower, "no cap", "unlimited", "uncapped") {
			return 85
		}
		if amount, ok := dollarAmount(text); ok {
			switch {
			case amount < 100_000:
				return 60
			case amount < 1_000_000:
				return 40
			default:
				return 25
			}
		}
		return 50

	case cuad.UncappedLiability:
		// Presence alone is high risk.
		return 90

	case cuad.TerminationForConvenience:
		if strings.Contains(lower, "no termination") || strings.Contains(lower, "cannot terminate") {
			return 80
		}
		if days, ok := dayCount(lower); ok {
			switch {
			case days > 180:
				return 65
			case days > 90:
				return 50
			default:
				return 25
			}
		}
		return 55

	case cuad.NonCompete:
		if years, ok := yearCount(lower); ok {
			switch {
			case years >= 5:
				return 80
			case years >= 3:
				return 60
			case years >= 1:
				return 40
			}
		}
		return 50

	case cuad.AuditRights:
		if strings.Contains(lower, "unlimited") || strings.Contains(lower, "at any time") {
			return 65
		}
		if strings.Contains(lower, "no audit") {
			return 55
		}
		return 25

	case cuad.GoverningLaw:
		if containsAny(lower, "cayman", "bermuda", "offshore") {
			return 50
		}
		return 15
	}

	// Rules keyed on clause-name fragments rather than single types.
	if strings.Contains(string(ct), "Renewal") {
		if strings.Contains(lower, "auto") || strings.Contains(lower, "automatic") {
			if strings.Contains(lower, "notice") {
				if days, ok := dayCount(lower); ok {
					switch {
					case days < 30:
						return 70
					case days < 90:
						return 55
					default:
						return 40
					}
				}
			}
			return 70
		}
		return 20
	}

	if strings.Contains(string(ct), "IP Ownership") {
		if containsAny(lower, "customer loses", "vendor owns all", "exclusive ownership") {
			return 85
		}
		if strings.Contains(lower, "unclear") || strings.Contains(lower, "ambiguous") {
			return 60
		}
		if strings.Contains(lower, "customer retains") || strings.Contains(lower, "licensee owns") {
			return 20
		}
		return 50
	}

	return 40
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// dayCount parses the first "N days" occurrence.
func dayCount(lower string) (int, bool) {
	m := dayCountRe.FindStringSubmatch(lower)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// yearCount parses the first "N year(s)" occurrence.
func yearCount(lower string) (int, bool) {
	m := yearCountRe.FindStringSubmatch(lower)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// dollarAmount parses the first "$1,234,567" style amount. Matching is
// against the original text since dollar figures are case-insensitive
// anyway.
func dollarAmount(text string) (int, bool) {
	m := dollarRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}
