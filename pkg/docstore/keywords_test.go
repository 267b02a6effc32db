package docstore_test

import (
	"errors"
	"testing"

	"github.com/dirdoc/dirdoc/pkg/docstore"
)

func Test_NewKeywords_Rejects_Unknown_Mode(t *testing.T) {
	t.Parallel()

	_, err := docstore.NewKeywords(docstore.KeywordConfig{Qualify: "sideways"})
	if !errors.Is(err, docstore.ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func Test_Keywords_None_Returns_Base_Names(t *testing.T) {
	t.Parallel()

	keys, err := docstore.NewKeywords(docstore.KeywordConfig{})
	if err != nil {
		t.Fatalf("NewKeywords: %v", err)
	}

	p := docstore.Col("users").Under("u1", "posts")

	if got := keys.IDField(p); got != "id" {
		t.Errorf("IDField = %q, want %q", got, "id")
	}

	if got := keys.CreatedField(p); got != "created_at" {
		t.Errorf("CreatedField = %q, want %q", got, "created_at")
	}

	if got := keys.UpdatedField(p); got != "updated_at" {
		t.Errorf("UpdatedField = %q, want %q", got, "updated_at")
	}
}

func Test_Keywords_Partial_Qualifies_Under_Leaf_Collection(t *testing.T) {
	t.Parallel()

	keys, err := docstore.NewKeywords(docstore.KeywordConfig{Qualify: docstore.QualifyPartial})
	if err != nil {
		t.Fatalf("NewKeywords: %v", err)
	}

	p := docstore.Col("users").Under("u1", "posts")

	if got := keys.IDField(p); got != "posts.id" {
		t.Errorf("IDField = %q, want %q", got, "posts.id")
	}

	if got := keys.UpdatedField(p); got != "posts.updated_at" {
		t.Errorf("UpdatedField = %q, want %q", got, "posts.updated_at")
	}
}

func Test_Keywords_Full_Qualifies_With_All_Name_Segments(t *testing.T) {
	t.Parallel()

	keys, err := docstore.NewKeywords(docstore.KeywordConfig{Qualify: docstore.QualifyFull})
	if err != nil {
		t.Fatalf("NewKeywords: %v", err)
	}

	p := docstore.Col("users").Under("u1", "posts")

	if got := keys.IDField(p); got != "users.posts.id" {
		t.Errorf("IDField = %q, want %q", got, "users.posts.id")
	}

	if got := keys.CreatedField(p); got != "users.posts.created_at" {
		t.Errorf("CreatedField = %q, want %q", got, "users.posts.created_at")
	}
}

func Test_Keywords_Custom_Base_Names_Apply_Per_Field(t *testing.T) {
	t.Parallel()

	keys, err := docstore.NewKeywords(docstore.KeywordConfig{
		IDName:      "ident",
		CreatedName: "born",
		UpdatedName: "touched",
		Qualify:     docstore.QualifyPartial,
	})
	if err != nil {
		t.Fatalf("NewKeywords: %v", err)
	}

	p := docstore.Col("things")

	if got := keys.IDField(p); got != "things.ident" {
		t.Errorf("IDField = %q, want %q", got, "things.ident")
	}

	if got := keys.CreatedField(p); got != "things.born" {
		t.Errorf("CreatedField = %q, want %q", got, "things.born")
	}

	if got := keys.UpdatedField(p); got != "things.touched" {
		t.Errorf("UpdatedField = %q, want %q", got, "things.touched")
	}
}
