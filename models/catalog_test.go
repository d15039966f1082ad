package models

import "testing"

func TestAccountTagBody(t *testing.T) {
	cases := []struct {
		tag      string
		wantTag  string
		wantSign int
	}{
		{"NET_SALES", "NET_SALES", 1},
		{"-NET_SALES", "NET_SALES", -1},
		{" CASH ", "CASH", 1},
		{"", "", 1},
		{"   ", "", 1},
	}
	for _, c := range cases {
		account := Account{RatioTag: c.tag}
		tag, sign := account.TagBody()
		if tag != c.wantTag || sign != c.wantSign {
			t.Fatalf("tag %q: got (%q, %d), want (%q, %d)", c.tag, tag, sign, c.wantTag, c.wantSign)
		}
	}
}

func TestAccountNature(t *testing.T) {
	if !AccountNatureAsset.IsDebitNature() || !AccountNatureExpense.IsDebitNature() {
		t.Fatal("asset and expense must be debit-natured")
	}
	for _, n := range []AccountNature{AccountNatureLiability, AccountNatureEquity, AccountNatureRevenue} {
		if n.IsDebitNature() {
			t.Fatalf("%s must be credit-natured", n)
		}
	}
	if _, err := ParseAccountNature("Stock"); err == nil {
		t.Fatal("expected error for unknown nature")
	}
	if n, err := ParseAccountNature("Revenue"); err != nil || n != AccountNatureRevenue {
		t.Fatalf("got (%s, %v)", n, err)
	}
}
