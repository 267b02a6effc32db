package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/dirdoc/dirdoc/pkg/docstore"
)

var (
	errCollectionRequired = errors.New("collection path is required")
	errIDRequired         = errors.New("document id is required")
	errNotFound           = errors.New("not found")
)

// cmdInsert stores one document. The document is the JSON argument, or
// read from stdin when no argument is given.
func cmdInsert(in io.Reader, out io.Writer, cfg Config, workDir string, args []string) error {
	if len(args) < 1 {
		return errCollectionRequired
	}

	path, err := docstore.ParsePath(args[0])
	if err != nil {
		return err
	}

	doc, err := readDocument(in, args[1:])
	if err != nil {
		return err
	}

	db, err := openStore(cfg, workDir)
	if err != nil {
		return err
	}

	stored, err := db.Insert(path, doc)
	if err != nil {
		return err
	}

	return printJSON(out, stored)
}

// cmdGet prints one document per id, in the order given. A single
// missing id is an error; with multiple ids missing ones are skipped,
// mirroring get-many semantics.
func cmdGet(out io.Writer, cfg Config, workDir string, args []string) error {
	if len(args) < 1 {
		return errCollectionRequired
	}

	if len(args) < 2 {
		return errIDRequired
	}

	path, err := docstore.ParsePath(args[0])
	if err != nil {
		return err
	}

	db, err := openStore(cfg, workDir)
	if err != nil {
		return err
	}

	if len(args) == 2 {
		doc, getErr := db.Get(path, args[1])
		if getErr != nil {
			return getErr
		}

		if doc == nil {
			return fmt.Errorf("%w: %s/%s", errNotFound, path, args[1])
		}

		return printJSON(out, doc)
	}

	ids := make([]any, 0, len(args)-1)
	for _, id := range args[1:] {
		ids = append(ids, id)
	}

	docs, err := db.GetMany(path, ids)
	if err != nil {
		return err
	}

	return printJSON(out, docs)
}

// cmdLs queries a collection: equality filters, ordering, pagination.
func cmdLs(out io.Writer, cfg Config, workDir string, args []string) error {
	if len(args) < 1 {
		return errCollectionRequired
	}

	path, err := docstore.ParsePath(args[0])
	if err != nil {
		return err
	}

	flagSet := flag.NewFlagSet("ls", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	orderBy := flagSet.String("order-by", "", "Sort by field")
	desc := flagSet.Bool("desc", false, "Sort descending")
	offset := flagSet.Int("offset", 0, "Skip first N documents")
	limit := flagSet.Int("limit", 0, "Maximum documents to return (0 = all)")
	count := flagSet.Bool("count", false, "Print the document count only")
	where := flagSet.StringArray("where", nil, "Equality filter field=value (repeatable)")

	err = flagSet.Parse(args[1:])
	if err != nil {
		return err
	}

	db, err := openStore(cfg, workDir)
	if err != nil {
		return err
	}

	if *count {
		n, countErr := db.Count(path)
		if countErr != nil {
			return countErr
		}

		fprintln(out, n)

		return nil
	}

	match, err := parseWhere(*where)
	if err != nil {
		return err
	}

	docs, err := db.FindBy(path, match, docstore.Query{
		OrderBy: *orderBy,
		Desc:    *desc,
		Offset:  *offset,
		Limit:   *limit,
	})
	if err != nil {
		return err
	}

	return printJSON(out, docs)
}

// cmdSet merges JSON fields into an existing document.
func cmdSet(in io.Reader, out io.Writer, cfg Config, workDir string, args []string) error {
	if len(args) < 1 {
		return errCollectionRequired
	}

	if len(args) < 2 {
		return errIDRequired
	}

	path, err := docstore.ParsePath(args[0])
	if err != nil {
		return err
	}

	fields, err := readDocument(in, args[2:])
	if err != nil {
		return err
	}

	db, err := openStore(cfg, workDir)
	if err != nil {
		return err
	}

	updated, err := db.Update(path, args[1], docstore.Merge(fields))
	if err != nil {
		return err
	}

	if updated == nil {
		return fmt.Errorf("%w: %s/%s", errNotFound, path, args[1])
	}

	return printJSON(out, updated)
}

func cmdRm(out io.Writer, cfg Config, workDir string, args []string) error {
	if len(args) < 1 {
		return errCollectionRequired
	}

	if len(args) < 2 {
		return errIDRequired
	}

	path, err := docstore.ParsePath(args[0])
	if err != nil {
		return err
	}

	db, err := openStore(cfg, workDir)
	if err != nil {
		return err
	}

	ok, err := db.Delete(path, args[1])
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("%w: %s/%s", errNotFound, path, args[1])
	}

	fprintln(out, "deleted", path.String()+"/"+args[1])

	return nil
}

func cmdDrop(out io.Writer, cfg Config, workDir string, args []string) error {
	if len(args) < 1 {
		return errCollectionRequired
	}

	path, err := docstore.ParsePath(args[0])
	if err != nil {
		return err
	}

	db, err := openStore(cfg, workDir)
	if err != nil {
		return err
	}

	err = db.DeleteCollection(path)
	if err != nil {
		return err
	}

	fprintln(out, "dropped", path.String())

	return nil
}

func cmdReset(out io.Writer, cfg Config, workDir string) error {
	db, err := openStore(cfg, workDir)
	if err != nil {
		return err
	}

	err = db.Reset()
	if err != nil {
		return err
	}

	fprintln(out, "reset", db.Root())

	return nil
}

// readDocument decodes the document from the first positional argument,
// or from stdin when none is given.
func readDocument(in io.Reader, args []string) (docstore.Document, error) {
	var data []byte

	if len(args) > 0 {
		data = []byte(args[0])
	} else {
		var err error

		data, err = io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
	}

	var doc docstore.Document

	err := json.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("parse document json: %w", err)
	}

	return doc, nil
}

// parseWhere turns repeated field=value flags into an equality match map.
// Values parse as JSON scalars where possible, falling back to strings.
func parseWhere(pairs []string) (docstore.Document, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	match := docstore.Document{}

	for _, pair := range pairs {
		field, value, ok := strings.Cut(pair, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid --where %q, want field=value", pair)
		}

		var parsed any

		err := json.Unmarshal([]byte(value), &parsed)
		if err != nil {
			parsed = value
		}

		match[field] = parsed
	}

	return match, nil
}

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	fprintln(out, string(data))

	return nil
}
