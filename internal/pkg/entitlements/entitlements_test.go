package entitlements

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want Plan
	}{
		{in: "free", want: PlanFree},
		{in: "pro", want: PlanPro},
		{in: "enterprise", want: PlanEnterprise},
		{in: " PRO ", want: PlanPro},
		{in: "invalid", want: PlanFree},
		{in: "", want: PlanFree},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRank(t *testing.T) {
	if Rank(PlanFree) >= Rank(PlanPro) {
		t.Fatalf("expected pro to outrank free")
	}
	if Rank(PlanPro) >= Rank(PlanEnterprise) {
		t.Fatalf("expected enterprise to outrank pro")
	}
}

func TestFeatures(t *testing.T) {
	api, support := Features(PlanFree)
	if api || support {
		t.Fatalf("free plan should have no paid features")
	}
	api, support = Features(PlanPro)
	if !api || support {
		t.Fatalf("pro plan should have api access only")
	}
	api, support = Features(PlanEnterprise)
	if !api || !support {
		t.Fatalf("enterprise plan should have everything")
	}
}
