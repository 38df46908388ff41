package roles

import "testing"

func TestRankOrder(t *testing.T) {
	if Rank(GlobalAdministrator) <= Rank(SchoolAdministrator) {
		t.Fatalf("global administrator must outrank school administrator")
	}
	if Rank(SchoolAdministrator) <= Rank(Teacher) {
		t.Fatalf("school administrator must outrank teacher")
	}
	if Rank(Teacher) <= Rank(Student) {
		t.Fatalf("teacher must outrank student")
	}
}

func TestRankStudentExamUserTie(t *testing.T) {
	if Rank(Student) != Rank(ExamUser) {
		t.Fatalf("student and examuser must share a rank, got %d and %d", Rank(Student), Rank(ExamUser))
	}
}

func TestRankUnknownFailsClosed(t *testing.T) {
	unknown := Rank(Role("printer"))
	if unknown <= Rank(GlobalAdministrator) {
		t.Fatalf("unknown role must rank above every real role, got %d", unknown)
	}
	if Rank(Role("")) != unknown {
		t.Fatalf("empty role must use the same sentinel rank")
	}
}

func TestExpandAliases(t *testing.T) {
	got := ExpandAliases("GST")
	want := []Role{GlobalAdministrator, SchoolAdministrator, Teacher}
	if len(got) != len(want) {
		t.Fatalf("expected %d roles, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %s at position %d, got %s", want[i], i, got[i])
		}
	}
}

func TestExpandAliasesDropsUnknownCharacters(t *testing.T) {
	got := ExpandAliases("GxTz9")
	want := []Role{GlobalAdministrator, Teacher}
	if len(got) != len(want) {
		t.Fatalf("expected %d roles, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %s at position %d, got %s", want[i], i, got[i])
		}
	}
}

func TestExpandAliasesEmpty(t *testing.T) {
	if got := ExpandAliases(""); len(got) != 0 {
		t.Fatalf("expected empty expansion, got %v", got)
	}
}
