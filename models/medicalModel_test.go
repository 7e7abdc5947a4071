package models

import (
	"encoding/json"
	"testing"
)

func TestNormalizeTypeFromDiscriminator(t *testing.T) {
	public := MedicalSchool{SchoolType: SchoolTypePublic}
	public.NormalizeType()
	if !public.Public {
		t.Error("public discriminator must set the public flag")
	}

	private := MedicalSchool{SchoolType: SchoolTypePrivate, Public: true}
	private.NormalizeType()
	if private.Public {
		t.Error("private discriminator must clear the public flag")
	}
}

func TestNormalizeTypeFromFlag(t *testing.T) {
	school := MedicalSchool{Public: true}
	school.NormalizeType()
	if school.SchoolType != SchoolTypePublic {
		t.Errorf("school type = %q, want %q", school.SchoolType, SchoolTypePublic)
	}

	school = MedicalSchool{}
	school.NormalizeType()
	if school.SchoolType != SchoolTypePrivate {
		t.Errorf("school type = %q, want %q", school.SchoolType, SchoolTypePrivate)
	}
}

func TestPrescriptionKeyIsComparable(t *testing.T) {
	seen := map[PrescriptionKey]int{}
	a := Prescription{PhysicianID: 1, PatientID: 2}
	b := Prescription{PhysicianID: 1, PatientID: 3}
	seen[a.Key()]++
	seen[b.Key()]++
	seen[a.Key()]++

	if seen[PrescriptionKey{PhysicianID: 1, PatientID: 2}] != 2 {
		t.Error("identical pairs must map to the same key")
	}
	if len(seen) != 2 {
		t.Errorf("distinct pairs collapsed: %v", seen)
	}
}

func TestSecurityUserHidesPasswordHash(t *testing.T) {
	user := SecurityUser{Username: "admin", PwHash: "PBKDF2WithHmacSHA256:2048:c2FsdA:a2V5"}
	raw, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for key := range decoded {
		if key == "pwHash" || key == "PwHash" {
			t.Fatal("password hash serialized to JSON")
		}
	}
}
