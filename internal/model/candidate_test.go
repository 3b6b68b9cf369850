package model

import "testing"

func TestCandidateFingerprint_StableForSameDialog(t *testing.T) {
	a := Candidate{DialogBounds: [4]int{10, 20, 300, 200}, Text: "codemcp wants to run: ls"}
	b := Candidate{DialogBounds: [4]int{10, 20, 300, 200}, Text: "codemcp wants to run: ls"}
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identical dialogs should share a fingerprint")
	}
}

func TestCandidateFingerprint_ChangesWithContent(t *testing.T) {
	base := Candidate{DialogBounds: [4]int{10, 20, 300, 200}, Text: "run ls"}

	moved := base
	moved.DialogBounds = [4]int{10, 25, 300, 200}
	if base.Fingerprint() == moved.Fingerprint() {
		t.Error("moved dialog should have a different fingerprint")
	}

	retexted := base
	retexted.Text = "run cat"
	if base.Fingerprint() == retexted.Fingerprint() {
		t.Error("different request text should have a different fingerprint")
	}
}
