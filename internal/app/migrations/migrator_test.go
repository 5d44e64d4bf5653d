package migrations

import "testing"

func TestVersion(t *testing.T) {
	cases := map[string]string{
		"001_signup_documents.sql": "001",
		"sql/002_more.sql":         "002",
		"plain.sql":                "plain.sql",
	}
	for in, want := range cases {
		if got := Version(in); got != want {
			t.Errorf("Version(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFilesAreEmbeddedInOrder(t *testing.T) {
	m := NewMigrator(nil)

	files, err := m.Files()
	if err != nil {
		t.Fatalf("Files error: %v", err)
	}
	if len(files) == 0 || files[0] != "001_signup_documents.sql" {
		t.Fatalf("Unexpected migration files: %v", files)
	}
	for i := 1; i < len(files); i++ {
		if files[i-1] >= files[i] {
			t.Errorf("Files not sorted: %v", files)
		}
	}
}
