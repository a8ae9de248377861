package contacts

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeTempJSON(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contacts.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func seededDirectory(t *testing.T) *Directory {
	t.Helper()
	path := writeTempJSON(t, `[
		{"first_name":"Amogh","last_name":"Padakanti","email":"amogh@ufl.edu","phone":"+1 352-555-1234"},
		{"first_name":"Amogha","last_name":"Reddy","email":"amogha.reddy@ufl.edu"},
		{"first_name":"Raj","last_name":"Kumar","email":"raj.kumar@ufl.edu"},
		{"first_name":"Raj","last_name":"Patel","email":"raj.patel@ufl.edu"}
	]`)
	d, err := Open(path, 0)
	if err != nil {
		t.Fatalf("Open error = %v", err)
	}
	return d
}

func TestFindResolvedByFuzzyMatch(t *testing.T) {
	d := seededDirectory(t)
	res := d.Find("Amgoh Padakanti")
	if res.Kind != MatchResolved {
		t.Fatalf("Find kind = %v, want resolved", res.Kind)
	}
	if res.Contact.Email != "amogh@ufl.edu" {
		t.Fatalf("resolved email = %q", res.Contact.Email)
	}
}

func TestFindExactBeatsNearDuplicates(t *testing.T) {
	d := seededDirectory(t)
	// "Amogha" is a close fuzzy neighbor of "Amogh", but exact
	// case-insensitive equality on the first name must win outright.
	res := d.Find("amogh")
	if res.Kind != MatchResolved {
		t.Fatalf("Find kind = %v, want resolved (exact override)", res.Kind)
	}
	if res.Contact.Email != "amogh@ufl.edu" {
		t.Fatalf("resolved email = %q", res.Contact.Email)
	}
}

func TestFindAmbiguous(t *testing.T) {
	d := seededDirectory(t)
	res := d.Find("Raj")
	if res.Kind != MatchAmbiguous {
		t.Fatalf("Find kind = %v, want ambiguous", res.Kind)
	}
	if len(res.Candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(res.Candidates))
	}
}

func TestFindNotFound(t *testing.T) {
	d := seededDirectory(t)
	res := d.Find("Pranay")
	if res.Kind != MatchNotFound {
		t.Fatalf("Find kind = %v, want not_found", res.Kind)
	}
}

func TestFindIdempotent(t *testing.T) {
	d := seededDirectory(t)
	first := d.Find("Raj")
	second := d.Find("Raj")
	if first.Kind != second.Kind {
		t.Fatalf("Find classification changed across calls: %v then %v", first.Kind, second.Kind)
	}
	if len(first.Candidates) != len(second.Candidates) {
		t.Fatalf("candidate count changed across calls")
	}
}

func TestFindByEmailLocalPart(t *testing.T) {
	d := seededDirectory(t)
	res := d.Find("amogha.reddy")
	if res.Kind != MatchResolved {
		t.Fatalf("Find kind = %v, want resolved via local part", res.Kind)
	}
	if res.Contact.LastName != "Reddy" {
		t.Fatalf("resolved last name = %q", res.Contact.LastName)
	}
}

func TestCreatePersistsBeforeReturn(t *testing.T) {
	path := writeTempJSON(t, `[]`)
	d, err := Open(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	saved, err := d.Create(context.Background(), Contact{
		FirstName: "Pranay",
		LastName:  "P",
		Email:     "pranayp@x.com",
		Phone:     "3525550000",
	})
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}
	if saved.Name != "Pranay P" {
		t.Fatalf("saved name = %q", saved.Name)
	}

	// A fresh open must see the contact: the write happened before
	// Create returned.
	reopened, err := Open(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := reopened.FindByEmail("pranayp@x.com"); !ok {
		t.Fatalf("contact not durable across reopen")
	}
}

func TestCreateValidation(t *testing.T) {
	path := writeTempJSON(t, `[]`)
	d, err := Open(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Create(context.Background(), Contact{Email: "a@b.com"}); err == nil {
		t.Fatalf("expected validation error for missing name")
	}
	if _, err := d.Create(context.Background(), Contact{FirstName: "A", LastName: "B", Email: "nope"}); err == nil {
		t.Fatalf("expected validation error for invalid email")
	}
}

func TestDuplicateEmailLatestWins(t *testing.T) {
	path := writeTempJSON(t, `[]`)
	d, err := Open(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if _, err := d.Create(ctx, Contact{FirstName: "Sam", LastName: "Lee", Email: "sam@x.com", Phone: "111"}); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Create(ctx, Contact{FirstName: "Sam", LastName: "Lee", Email: "sam@x.com", Phone: "222"}); err != nil {
		t.Fatal(err)
	}
	// Both rows stay stored; lookups surface the newer capture.
	if got := len(d.All()); got != 2 {
		t.Fatalf("stored rows = %d, want 2", got)
	}
	c, ok := d.FindByEmail("sam@x.com")
	if !ok || c.Phone != "222" {
		t.Fatalf("FindByEmail = %+v, ok=%v, want latest phone 222", c, ok)
	}
	res := d.Find("Sam")
	if res.Kind != MatchResolved {
		t.Fatalf("Find kind = %v, want resolved after dedupe", res.Kind)
	}
	if res.Contact.Phone != "222" {
		t.Fatalf("resolved phone = %q, want 222", res.Contact.Phone)
	}
}

func TestLegacyNameFieldSplit(t *testing.T) {
	path := writeTempJSON(t, `[{"name":"Ankith Reddy Sama","email":"ankith@x.com"}]`)
	d, err := Open(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	res := d.Find("Ankith")
	if res.Kind != MatchResolved {
		t.Fatalf("Find kind = %v, want resolved", res.Kind)
	}
	if res.Contact.FirstName != "Ankith" || res.Contact.LastName != "Reddy Sama" {
		t.Fatalf("legacy split = %q / %q", res.Contact.FirstName, res.Contact.LastName)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.csv")
	body := "first_name,last_name,name,email,phone\nAmogh,Padakanti,Amogh Padakanti,amogh@ufl.edu,123\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	d, err := Open(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Create(context.Background(), Contact{FirstName: "Raj", LastName: "Kumar", Email: "raj@x.com"}); err != nil {
		t.Fatalf("Create error = %v", err)
	}
	reopened, err := Open(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(reopened.All()); got != 2 {
		t.Fatalf("csv rows after reopen = %d, want 2", got)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.yaml")
	body := "- first_name: Amogh\n  last_name: Padakanti\n  email: amogh@ufl.edu\n  phone: \"123\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	d, err := Open(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Create(context.Background(), Contact{FirstName: "Raj", LastName: "Kumar", Email: "raj@x.com"}); err != nil {
		t.Fatalf("Create error = %v", err)
	}
	reopened, err := Open(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(reopened.All()); got != 2 {
		t.Fatalf("yaml rows after reopen = %d, want 2", got)
	}
	if _, ok := reopened.FindByEmail("amogh@ufl.edu"); !ok {
		t.Fatalf("seeded yaml row lost on rewrite")
	}
}

func TestOpenMissingFile(t *testing.T) {
	d, err := Open(filepath.Join(t.TempDir(), "absent.json"), 0)
	if err != nil {
		t.Fatalf("Open missing = %v", err)
	}
	if got := len(d.All()); got != 0 {
		t.Fatalf("missing file directory size = %d", got)
	}
}
