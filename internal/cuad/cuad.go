// Package cuad defines the closed set of 41 CUAD contract clause
// categories the extraction model was fine-tuned on, and the fixed
// question template used to query it.
package cuad

import (
	"fmt"
	"strings"
)

// ClauseType is one of the 41 fixed clause categories. Values outside
// the closed set are rejected everywhere so a typo can never silently
// fall through to default risk rules.
type ClauseType string

const (
	DocumentName                   ClauseType = "Document Name"
	Parties                        ClauseType = "Parties"
	AgreementDate                  ClauseType = "Agreement Date"
	EffectiveDate                  ClauseType = "Effective Date"
	ExpirationDate                 ClauseType = "Expiration Date"
	RenewalTerm                    ClauseType = "Renewal Term"
	NoticePeriodToTerminateRenewal ClauseType = "Notice Period To Terminate Renewal"
	GoverningLaw                   ClauseType = "Governing Law"
	MostFavoredNation              ClauseType = "Most Favored Nation"
	NonCompete                     ClauseType = "Non-Compete"
	Exclusivity                    ClauseType = "Exclusivity"
	NoSolicitOfCustomers           ClauseType = "No-Solicit Of Customers"
	NoSolicitOfEmployees           ClauseType = "No-Solicit Of Employees"
	NonDisparagement               ClauseType = "Non-Disparagement"
	TerminationForConvenience      ClauseType = "Termination For Convenience"
	RofrRofoRofn                   ClauseType = "Rofr/Rofo/Rofn"
	ChangeOfControl                ClauseType = "Change Of Control"
	AntiAssignment                 ClauseType = "Anti-Assignment"
	RevenueProfitSharing           ClauseType = "Revenue/Profit Sharing"
	PriceRestrictions              ClauseType = "Price Restrictions"
	MinimumCommitment              ClauseType = "Minimum Commitment"
	VolumeRestriction              ClauseType = "Volume Restriction"
	IPOwnershipAssignment          ClauseType = "IP Ownership Assignment"
	JointIPOwnership               ClauseType = "Joint IP Ownership"
	LicenseGrant                   ClauseType = "License Grant"
	NonTransferableLicense         ClauseType = "Non-Transferable License"
	AffiliateLicenseLicensor       ClauseType = "Affiliate License-Licensor"
	AffiliateLicenseLicensee       ClauseType = "Affiliate License-Licensee"
	UnlimitedLicense               ClauseType = "Unlimited/All-You-Can-Eat-License"
	IrrevocableOrPerpetualLicense  ClauseType = "Irrevocable Or Perpetual License"
	SourceCodeEscrow               ClauseType = "Source Code Escrow"
	PostTerminationServices        ClauseType = "Post-Termination Services"
	AuditRights                    ClauseType = "Audit Rights"
	UncappedLiability              ClauseType = "Uncapped Liability"
	CapOnLiability                 ClauseType = "Cap On Liability"
	LiquidatedDamages              ClauseType = "Liquidated Damages"
	WarrantyDuration               ClauseType = "Warranty Duration"
	Insurance                      ClauseType = "Insurance"
	CovenantNotToSue               ClauseType = "Covenant Not To Sue"
	ThirdPartyBeneficiary          ClauseType = "Third Party Beneficiary"
	Indemnity                      ClauseType = "Indemnity"
)

// All lists every clause type in the fixed question order the model
// expects. The order is part of the scorer contract; do not reorder.
var All = []ClauseType{
	DocumentName,
	Parties,
	AgreementDate,
	EffectiveDate,
	ExpirationDate,
	RenewalTerm,
	NoticePeriodToTerminateRenewal,
	GoverningLaw,
	MostFavoredNation,
	NonCompete,
	Exclusivity,
	NoSolicitOfCustomers,
	NoSolicitOfEmployees,
	NonDisparagement,
	TerminationForConvenience,
	RofrRofoRofn,
	ChangeOfControl,
	AntiAssignment,
	RevenueProfitSharing,
	PriceRestrictions,
	MinimumCommitment,
	VolumeRestriction,
	IPOwnershipAssignment,
	JointIPOwnership,
	LicenseGrant,
	NonTransferableLicense,
	AffiliateLicenseLicensor,
	AffiliateLicenseLicensee,
	UnlimitedLicense,
	IrrevocableOrPerpetualLicense,
	SourceCodeEscrow,
	PostTerminationServices,
	AuditRights,
	UncappedLiability,
	CapOnLiability,
	LiquidatedDamages,
	WarrantyDuration,
	Insurance,
	CovenantNotToSue,
	ThirdPartyBeneficiary,
	Indemnity,
}

// Count is the number of clause categories.
const Count = 41

var valid map[ClauseType]bool

func init() {
	valid = make(map[ClauseType]bool, len(All))
	for _, c := range All {
		valid[c] = true
	}
}

// Valid reports whether c is a member of the closed clause set.
func (c ClauseType) Valid() bool {
	return valid[c]
}

func (c ClauseType) String() string {
	return string(c)
}

// Question renders the fixed extraction question for a clause type.
func (c ClauseType) Question() string {
	return fmt.Sprintf("Highlight the parts (if any) of this contract related to %q.", string(c))
}

// Questions returns all 41 questions in fixed order.
func Questions() []string {
	qs := make([]string, len(All))
	for i, c := range All {
		qs[i] = c.Question()
	}
	return qs
}

// FromQuestion recovers the clause type from a question string by
// extracting its quoted substring. The result must be a member of the
// closed set.
func FromQuestion(question string) (ClauseType, error) {
	start := strings.IndexByte(question, '"')
	if start < 0 {
		return "", fmt.Errorf("no quoted clause name in question %q", question)
	}
	end := strings.IndexByte(question[start+1:], '"')
	if end < 0 {
		return "", fmt.Errorf("unterminated clause name in question %q", question)
	}
	c := ClauseType(question[start+1 : start+1+end])
	if !c.Valid() {
		return "", fmt.Errorf("unknown clause type %q", string(c))
	}
	return c, nil
}

// ByIndex returns the clause type at the given question index.
func ByIndex(i int) (ClauseType, error) {
	if i < 0 || i >= len(All) {
		return "", fmt.Errorf("question index %d out of range", i)
	}
	return All[i], nil
}
