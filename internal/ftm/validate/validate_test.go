package validate

import "testing"

func TestOGRN(t *testing.T) {
	// 102770013219 / 10 = 10277001321; mod 11 = 4; mod 10 = 4.
	if !OGRN("1027700132194") {
		t.Error("OGRN(1027700132194) = false, want true")
	}
	if OGRN("1027700132196") {
		t.Error("OGRN(1027700132196) = true, want false (bad check digit)")
	}
	if OGRN("123") {
		t.Error("OGRN(123) = true, want false (wrong length)")
	}
}

func TestINN(t *testing.T) {
	if !INN("7707083893") {
		t.Error("INN(7707083893) = false, want true")
	}
	if INN("7707083894") {
		t.Error("INN(7707083894) = true, want false (bad check digit)")
	}
	if INN("12345678901234") {
		t.Error("INN(14 digits) = true, want false")
	}
}

func TestMMSIAndIMO(t *testing.T) {
	if !MMSI("123456789") {
		t.Error("MMSI(9 digits) = false, want true")
	}
	if MMSI("12345678") {
		t.Error("MMSI(8 digits) = true, want false")
	}
	if !IMO("931946600") {
		t.Error("IMO(9 digits) = false, want true")
	}
}

func TestBIC(t *testing.T) {
	if !BIC("DEUTDEFF") {
		t.Error("BIC(DEUTDEFF) = false, want true")
	}
	if !BIC("DEUTDEFF500") {
		t.Error("BIC(DEUTDEFF500) = false, want true")
	}
	if BIC("DEUTDEFF50") {
		t.Error("BIC(10-char) = true, want false")
	}
}

func TestISIN(t *testing.T) {
	if !ISIN("US0378331005") {
		t.Error("ISIN(US0378331005) = false, want true (Apple Inc. ISIN)")
	}
	if ISIN("US0378331006") {
		t.Error("ISIN with corrupted check digit = true, want false")
	}
}

func TestLEI(t *testing.T) {
	if !LEI("529900T8BM49AURSDO55") {
		t.Error("LEI(529900T8BM49AURSDO55) = false, want true")
	}
	if LEI("529900T8BM49AURSDO56") {
		t.Error("LEI with corrupted check digit = true, want false")
	}
}
