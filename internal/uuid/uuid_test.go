package uuid

import "testing"

func TestScanValueRoundTrip(t *testing.T) {
	id := MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	v, err := id.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	var got UUID
	if err := got.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if got != id {
		t.Errorf("got %s; want %s", got, id)
	}
}

func TestScan_WrongType(t *testing.T) {
	var u UUID
	if err := u.Scan("not-bytes"); err == nil {
		t.Fatal("expected error for string source, got nil")
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse("nope"); err == nil {
		t.Fatal("expected error, got nil")
	}
}
