package domain

import "testing"

func TestNormalizeCouponCode(t *testing.T) {
	if got := NormalizeCouponCode("  spring_25 "); got != "SPRING_25" {
		t.Errorf("Expected SPRING_25, got %q", got)
	}
}

func TestValidCouponCode(t *testing.T) {
	valid := []string{"SPRING_25", "WELCOME-10", "A1B2"}
	for _, code := range valid {
		if !ValidCouponCode(code) {
			t.Errorf("Expected %q to be valid", code)
		}
	}

	invalid := []string{"", "spring", "HAS SPACE", "PCT%OFF"}
	for _, code := range invalid {
		if ValidCouponCode(code) {
			t.Errorf("Expected %q to be invalid", code)
		}
	}
}
