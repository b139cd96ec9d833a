package risk

import (
	"testing"

	"github.com/contractiq/contractiq/internal/cuad"
)

func TestBaseRisk_Indemnity(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"uncapped", "Vendor shall indemnify against any and all claims", 90},
		{"one sided", "This one-sided obligation means Licensee shall indemnify Vendor", 75},
		{"mutual limited", "Mutual indemnification subject to reasonable limits", 30},
		{"plain", "Each party shall indemnify the other", 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := baseRisk(cuad.Indemnity, tt.text); got != tt.want {
				t.Errorf("baseRisk(Indemnity, %q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestBaseRisk_CapOnLiability(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"no cap", "There shall be no cap on liability", 85},
		{"small cap", "Liability is capped at $50,000 in aggregate", 60},
		{"mid cap", "Liability is capped at $500,000 in aggregate", 40},
		{"large cap", "Liability is capped at $5,000,000 in aggregate", 25},
		{"no amount", "Liability is limited to fees paid", 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := baseRisk(cuad.CapOnLiability, tt.text); got != tt.want {
				t.Errorf("baseRisk(CapOnLiability, %q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestBaseRisk_UncappedLiability(t *testing.T) {
	if got := baseRisk(cuad.UncappedLiability, "any text at all"); got != 90 {
		t.Errorf("expected presence of uncapped liability to score 90, got %v", got)
	}
}

func TestBaseRisk_TerminationForConvenience(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"locked in", "There is no termination for convenience under this agreement", 80},
		{"long notice", "Either party may terminate upon 365 days written notice", 65},
		{"medium notice", "Either party may terminate upon 120 days written notice", 50},
		{"short notice", "Either party may terminate upon 30 days written notice", 25},
		{"no number", "Either party may terminate for convenience", 55},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := baseRisk(cuad.TerminationForConvenience, tt.text); got != tt.want {
				t.Errorf("baseRisk(TerminationForConvenience, %q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestBaseRisk_RenewalTerm(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"auto short notice", "This agreement automatically renews unless notice is given 15 days prior", 70},
		{"auto medium notice", "This agreement automatically renews unless notice is given 60 days prior", 55},
		{"auto long notice", "This agreement automatically renews unless notice is given 120 days prior", 40},
		{"auto no notice term", "This agreement renews automatically each year", 70},
		{"manual", "The agreement may be renewed by mutual written consent", 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := baseRisk(cuad.RenewalTerm, tt.text); got != tt.want {
				t.Errorf("baseRisk(RenewalTerm, %q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestBaseRisk_IPOwnership(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"vendor grabs all", "Vendor owns all work product and derivatives", 85},
		{"ambiguous", "Ownership of improvements is unclear", 60},
		{"customer keeps", "Customer retains all rights to its pre-existing IP", 20},
		{"plain", "Work product vests upon payment", 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := baseRisk(cuad.IPOwnershipAssignment, tt.text); got != tt.want {
				t.Errorf("baseRisk(IPOwnershipAssignment, %q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestBaseRisk_NonCompete(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"non-compete for 5 years after termination", 80},
		{"non-compete for 3 years after termination", 60},
		{"non-compete for 1 year after termination", 40},
		{"non-compete within the territory", 50},
	}
	for _, tt := range tests {
		if got := baseRisk(cuad.NonCompete, tt.text); got != tt.want {
			t.Errorf("baseRisk(NonCompete, %q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestBaseRisk_AuditRights(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"audits may be conducted at any time", 65},
		{"there shall be no audit rights", 55},
		{"annual audit upon 30 days notice", 25},
	}
	for _, tt := range tests {
		if got := baseRisk(cuad.AuditRights, tt.text); got != tt.want {
			t.Errorf("baseRisk(AuditRights, %q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestBaseRisk_GoverningLaw(t *testing.T) {
	if got := baseRisk(cuad.GoverningLaw, "governed by the laws of the Cayman Islands"); got != 50 {
		t.Errorf("expected offshore jurisdiction to score 50, got %v", got)
	}
	if got := baseRisk(cuad.GoverningLaw, "governed by the laws of Delaware"); got != 15 {
		t.Errorf("expected ordinary jurisdiction to score 15, got %v", got)
	}
}

func TestBaseRisk_Default(t *testing.T) {
	if got := baseRisk(cuad.Insurance, "carrier shall maintain coverage"); got != 40 {
		t.Errorf("expected unruled clause type to score 40, got %v", got)
	}
}

func TestImportance(t *testing.T) {
	if got := Importance(cuad.Indemnity); got != 1.0 {
		t.Errorf("Importance(Indemnity) = %v, want 1.0", got)
	}
	if got := Importance(cuad.DocumentName); got != 0.2 {
		t.Errorf("Importance(DocumentName) = %v, want 0.2", got)
	}
	if got := Importance(cuad.ClauseType("Unknown")); got != defaultImportance {
		t.Errorf("Importance(unknown) = %v, want %v", got, defaultImportance)
	}
}

func TestImportance_AllTypesCovered(t *testing.T) {
	for _, ct := range cuad.All {
		if _, ok := importanceWeights[ct]; !ok {
			t.Errorf("clause type %s has no importance weight", ct)
		}
	}
}

func TestIsCritical(t *testing.T) {
	for _, ct := range []cuad.ClauseType{cuad.CapOnLiability, cuad.TerminationForConvenience, cuad.GoverningLaw} {
		if !IsCritical(ct) {
			t.Errorf("expected %s to be critical", ct)
		}
	}
	if IsCritical(cuad.AuditRights) {
		t.Error("expected Audit Rights to be non-critical")
	}
}
