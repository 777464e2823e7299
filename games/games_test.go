package games

import "testing"

func TestValidPlayers(t *testing.T) {
	tests := []struct {
		variant Variant
		players int
		wantErr bool
	}{
		{TheMind, 1, true},
		{TheMind, 2, false},
		{TheMind, 4, false},
		{TheMind, 5, true},
		{AzroksRepublic, 3, true},
		{AzroksRepublic, 4, false},
		{AzroksRepublic, 5, true},
		{Scribbles, 0, true},
		{Scribbles, 1, false},
		{Scribbles, 40, false},
		{Variant("poker"), 4, true},
	}

	for _, tt := range tests {
		err := ValidPlayers(tt.variant, tt.players)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidPlayers(%s, %d) = %v, wantErr %v", tt.variant, tt.players, err, tt.wantErr)
		}
	}
}

func TestResult(t *testing.T) {
	ok := Succeed("done", 42)
	if !ok.OK() || ok.Message() != "done" || ok.Details() != 42 {
		t.Errorf("unexpected success result %+v", ok)
	}

	failed := Fail("card %d is missing", 7)
	if failed.OK() {
		t.Error("expected failure")
	}
	if failed.Message() != "card 7 is missing" {
		t.Errorf("unexpected message %q", failed.Message())
	}
	if failed.Details() != nil {
		t.Error("failed result exposed details")
	}
}

func TestNewRand(t *testing.T) {
	a, b := NewRand(), NewRand()

	same := true
	for range 8 {
		if a.Uint64() != b.Uint64() {
			same = false
		}
	}
	if same {
		t.Error("two generators produced the same sequence")
	}
}
