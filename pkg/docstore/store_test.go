package docstore_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dirdoc/dirdoc/pkg/docstore"
)

func docTime(t *testing.T, doc docstore.Document, field string) time.Time {
	t.Helper()

	v, ok := doc[field]
	if !ok {
		t.Fatalf("document has no %q field: %v", field, doc)
	}

	ts, ok := v.(time.Time)
	if !ok {
		t.Fatalf("%q is %T, want time.Time", field, v)
	}

	return ts
}

func Test_Insert_Then_Get_Round_Trips_Fields(t *testing.T) {
	t.Parallel()

	db := openSequential(t)
	books := docstore.Col("books")

	inserted, err := db.Insert(books, docstore.Document{
		"title":  "Leviathan Wakes",
		"pages":  561,
		"read":   true,
		"rating": 4.5,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := db.Get(books, docID(t, inserted))
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got == nil {
		t.Fatal("get returned nil for an inserted document")
	}

	if got["title"] != "Leviathan Wakes" {
		t.Errorf("title = %v", got["title"])
	}

	if asInt64(t, got["pages"]) != 561 {
		t.Errorf("pages = %v", got["pages"])
	}

	if got["read"] != true {
		t.Errorf("read = %v", got["read"])
	}

	if got["rating"] != 4.5 {
		t.Errorf("rating = %v", got["rating"])
	}
}

func Test_Insert_Timestamps_Round_Trip_As_Time(t *testing.T) {
	t.Parallel()

	db := openSequential(t)

	now := time.Date(2026, 8, 27, 10, 30, 0, 123456789, time.UTC)
	docstore.SetNow(db, func() time.Time { return now })

	inserted, err := db.Insert(docstore.Col("t"), docstore.Document{})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := db.Get(docstore.Col("t"), docID(t, inserted))
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	created := docTime(t, got, "created_at")
	if !created.Equal(now) {
		t.Errorf("created_at = %v, want %v (no precision loss)", created, now)
	}

	updated := docTime(t, got, "updated_at")
	if !updated.Equal(now) {
		t.Errorf("updated_at = %v, want %v", updated, now)
	}
}

func Test_Insert_Does_Not_Mutate_Caller_Map(t *testing.T) {
	t.Parallel()

	db := openSequential(t)

	in := docstore.Document{"a": 1}

	_, err := db.Insert(docstore.Col("t"), in)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if len(in) != 1 {
		t.Fatalf("caller map gained fields: %v", in)
	}
}

func Test_Insert_Keeps_Caller_Supplied_ID_And_Overwrites(t *testing.T) {
	t.Parallel()

	db := openSequential(t)
	users := docstore.Col("users")

	first, err := db.Insert(users, docstore.Document{"id": "u1", "name": "old"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if docID(t, first) != "u1" {
		t.Fatalf("id = %v, want u1", docID(t, first))
	}

	// Same id again: no existence check, silent overwrite.
	_, err = db.Insert(users, docstore.Document{"id": "u1", "name": "new"})
	if err != nil {
		t.Fatalf("overwrite insert: %v", err)
	}

	got, err := db.Get(users, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got["name"] != "new" {
		t.Fatalf("name = %v, want new", got["name"])
	}
}

func Test_Insert_Preserves_Supplied_Created_Timestamp(t *testing.T) {
	t.Parallel()

	db := openSequential(t)

	supplied := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	doc, err := db.Insert(docstore.Col("t"), docstore.Document{"created_at": supplied})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if !docTime(t, doc, "created_at").Equal(supplied) {
		t.Fatalf("created_at = %v, want supplied %v", doc["created_at"], supplied)
	}
}

func Test_Get_Returns_Nil_For_Empty_Or_Missing_ID(t *testing.T) {
	t.Parallel()

	db := openSequential(t)

	for _, id := range []any{nil, "", "ghost"} {
		doc, err := db.Get(docstore.Col("t"), id)
		if err != nil {
			t.Fatalf("get %v: %v", id, err)
		}

		if doc != nil {
			t.Fatalf("get %v = %v, want nil", id, doc)
		}
	}
}

func Test_GetMany_Follows_Input_Order_And_Skips_Missing(t *testing.T) {
	t.Parallel()

	db, err := docstore.Open(docstore.Config{Root: t.TempDir(), IDMode: docstore.IDRandom})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	col := docstore.Col("t")

	var ids []any

	for _, n := range []string{"one", "two", "three"} {
		doc, insertErr := db.Insert(col, docstore.Document{"name": n})
		if insertErr != nil {
			t.Fatalf("insert %s: %v", n, insertErr)
		}

		ids = append(ids, docID(t, doc))
	}

	got, err := db.GetMany(col, []any{ids[0], "no-such-id", ids[2]})
	if err != nil {
		t.Fatalf("get many: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d documents, want 2", len(got))
	}

	if got[0]["name"] != "one" || got[1]["name"] != "three" {
		t.Fatalf("order/content wrong: %v", got)
	}
}

func Test_GetAll_Is_Empty_For_Absent_Collection(t *testing.T) {
	t.Parallel()

	db := openSequential(t)

	docs, err := db.GetAll(docstore.Col("nothing"))
	if err != nil {
		t.Fatalf("get all: %v", err)
	}

	if len(docs) != 0 {
		t.Fatalf("got %d documents, want 0", len(docs))
	}
}

func Test_GetAll_Never_Surfaces_Config_State(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	db, err := docstore.Open(docstore.Config{Root: root})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	col := docstore.Col("t")

	for i := 0; i < 3; i++ {
		if _, insertErr := db.Insert(col, docstore.Document{}); insertErr != nil {
			t.Fatalf("insert: %v", insertErr)
		}
	}

	// The counter must exist, but in the parallel config tree.
	_, err = os.Stat(filepath.Join(root, "__config__", "t", "__counter__"))
	if err != nil {
		t.Fatalf("counter file: %v", err)
	}

	docs, err := db.GetAll(col)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}

	if len(docs) != 3 {
		t.Fatalf("got %d documents, want 3", len(docs))
	}
}

func Test_GetAll_Skips_Nested_Collection_Parents_Without_Data(t *testing.T) {
	t.Parallel()

	db := openSequential(t)

	// Writing into users/7/posts creates users/7 without a data file.
	_, err := db.Insert(docstore.Col("users").Under(7, "posts"), docstore.Document{})
	if err != nil {
		t.Fatalf("insert nested: %v", err)
	}

	docs, err := db.GetAll(docstore.Col("users"))
	if err != nil {
		t.Fatalf("get all: %v", err)
	}

	if len(docs) != 0 {
		t.Fatalf("got %d documents, want 0", len(docs))
	}
}

func Test_Update_Returns_Nil_For_Missing_Document(t *testing.T) {
	t.Parallel()

	db := openSequential(t)

	doc, err := db.Update(docstore.Col("t"), "ghost", docstore.Merge(docstore.Document{"x": 1}))
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if doc != nil {
		t.Fatalf("update missing = %v, want nil", doc)
	}
}

func Test_Update_Merge_Overlays_Fields_And_Refreshes_Updated(t *testing.T) {
	t.Parallel()

	db := openSequential(t)
	col := docstore.Col("t")

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	docstore.SetNow(db, func() time.Time { return t0 })

	inserted, err := db.Insert(col, docstore.Document{"status": "open", "owner": "ada"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	t1 := t0.Add(time.Hour)
	docstore.SetNow(db, func() time.Time { return t1 })

	updated, err := db.Update(col, docID(t, inserted), docstore.Merge(docstore.Document{"status": "x"}))
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated["status"] != "x" {
		t.Errorf("status = %v, want x", updated["status"])
	}

	if updated["owner"] != "ada" {
		t.Errorf("owner = %v, want preserved", updated["owner"])
	}

	if !docTime(t, updated, "created_at").Equal(t0) {
		t.Errorf("created_at = %v, want unchanged %v", updated["created_at"], t0)
	}

	if !docTime(t, updated, "updated_at").Equal(t1) {
		t.Errorf("updated_at = %v, want refreshed %v", updated["updated_at"], t1)
	}

	// The replacement is persisted in place.
	got, err := db.Get(col, docID(t, inserted))
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got["status"] != "x" {
		t.Fatalf("persisted status = %v, want x", got["status"])
	}
}

func Test_Update_Transform_Replaces_Whole_Document(t *testing.T) {
	t.Parallel()

	db := openSequential(t)
	col := docstore.Col("t")

	inserted, err := db.Insert(col, docstore.Document{"count": 1, "junk": "drop me"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	updated, err := db.Update(col, docID(t, inserted), docstore.Transform(func(doc docstore.Document) docstore.Document {
		return docstore.Document{"count": asAnyInt(doc["count"]) + 1}
	}))
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if asInt64(t, updated["count"]) != 2 {
		t.Errorf("count = %v, want 2", updated["count"])
	}

	if _, present := updated["junk"]; present {
		t.Error("junk survived a full-replacement transform")
	}

	// Reserved fields are re-asserted even after a transform.
	if _, present := updated["id"]; !present {
		t.Error("id missing after transform")
	}

	if _, present := updated["created_at"]; !present {
		t.Error("created_at missing after transform")
	}
}

func asAnyInt(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	default:
		return 0
	}
}

func Test_Delete_Is_True_Exactly_Once(t *testing.T) {
	t.Parallel()

	db := openSequential(t)
	col := docstore.Col("t")

	inserted, err := db.Insert(col, docstore.Document{})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	id := docID(t, inserted)

	ok, err := db.Delete(col, id)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	if !ok {
		t.Fatal("first delete = false, want true")
	}

	for i := 0; i < 2; i++ {
		ok, err = db.Delete(col, id)
		if err != nil {
			t.Fatalf("repeat delete: %v", err)
		}

		if ok {
			t.Fatal("repeat delete = true, want false")
		}
	}

	doc, err := db.Get(col, id)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}

	if doc != nil {
		t.Fatalf("document still readable after delete: %v", doc)
	}
}

func Test_Delete_With_Empty_ID_Is_False(t *testing.T) {
	t.Parallel()

	db := openSequential(t)

	ok, err := db.Delete(docstore.Col("t"), "")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	if ok {
		t.Fatal("delete with empty id = true, want false")
	}
}

func Test_Insert_Rejects_Identifiers_With_Path_Separators(t *testing.T) {
	t.Parallel()

	db := openSequential(t)

	for _, id := range []any{"../escaped", "a/b", "..", "."} {
		_, err := db.Insert(docstore.Col("users"), docstore.Document{"id": id})
		if !errors.Is(err, docstore.ErrInvalidPath) {
			t.Fatalf("insert id %v: err = %v, want %v", id, err, docstore.ErrInvalidPath)
		}
	}

	// Nothing may have landed outside the collection.
	if _, err := os.Stat(filepath.Join(db.Root(), "escaped")); !os.IsNotExist(err) {
		t.Fatalf("document written outside the collection (err=%v)", err)
	}
}

func Test_Get_Treats_Traversal_Identifiers_As_Absent(t *testing.T) {
	t.Parallel()

	db := openSequential(t)
	posts := docstore.Col("posts")

	if _, err := db.Insert(posts, docstore.Document{"title": "hi"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	doc, err := db.Get(docstore.Col("users"), "../posts/1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if doc != nil {
		t.Fatalf("traversal id resolved a document: %v", doc)
	}
}

func Test_Delete_Treats_Traversal_Identifiers_As_Absent(t *testing.T) {
	t.Parallel()

	db := openSequential(t)
	posts := docstore.Col("posts")

	if _, err := db.Insert(posts, docstore.Document{"title": "hi"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	ok, err := db.Delete(docstore.Col("users"), "../posts/1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	if ok {
		t.Fatal("delete with a traversal id reported success")
	}

	doc, err := db.Get(posts, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if doc == nil {
		t.Fatal("document in another collection was deleted")
	}
}

func Test_Delete_Removes_Nested_Collection_Counters(t *testing.T) {
	t.Parallel()

	db := openSequential(t)
	users := docstore.Col("users")
	posts := users.Under(1, "posts")

	if _, err := db.Insert(users, docstore.Document{}); err != nil {
		t.Fatalf("insert user: %v", err)
	}

	if _, err := db.Insert(posts, docstore.Document{}); err != nil {
		t.Fatalf("insert post: %v", err)
	}

	ok, err := db.Delete(users, 1)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	if !ok {
		t.Fatal("delete = false, want true")
	}

	docs, err := db.GetAll(posts)
	if err != nil {
		t.Fatalf("get all after delete: %v", err)
	}

	if len(docs) != 0 {
		t.Fatalf("nested collection still has %d documents", len(docs))
	}

	// Re-creating the document starts the nested sequence over instead of
	// resuming the old counter.
	if _, err := db.Insert(users, docstore.Document{"id": 1}); err != nil {
		t.Fatalf("re-insert user: %v", err)
	}

	post, err := db.Insert(posts, docstore.Document{})
	if err != nil {
		t.Fatalf("insert post after re-create: %v", err)
	}

	if got := asInt64(t, docID(t, post)); got != 1 {
		t.Fatalf("post id after re-create = %d, want 1", got)
	}
}

func Test_Qualified_Keywords_Apply_To_Stored_Documents(t *testing.T) {
	t.Parallel()

	db, err := docstore.Open(docstore.Config{
		Root:     t.TempDir(),
		Keywords: docstore.KeywordConfig{Qualify: docstore.QualifyFull},
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	posts := docstore.Col("users").Under("u1", "posts")

	doc, err := db.Insert(posts, docstore.Document{"title": "hi"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if _, present := doc["users.posts.id"]; !present {
		t.Fatalf("identifier not stored under qualified name: %v", doc)
	}

	got, err := db.Get(posts, doc["users.posts.id"])
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got == nil {
		t.Fatal("qualified-id document not found")
	}
}
