package drafter

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oddrafter/internal/clauses"
	"oddrafter/internal/logging"
	"oddrafter/internal/storage"
	"oddrafter/internal/versions"
)

func TestAppendClause_CreatesNextVersion(t *testing.T) {
	store := storage.NewMemoryStore("https://files.example.com")
	seed(t, store, "100.docx", quoteDoc(t, false, "Scope of work."))
	seed(t, store, "100_v1.docx", quoteDoc(t, false, "Scope of work, revised."))

	svc := newService(t, store)
	progress := &progressLog{}

	res, err := svc.AppendClause(context.Background(), "100", "please add confidentiality", progress.report)
	require.NoError(t, err)

	assert.Equal(t, StatusCreated, res.Status)
	assert.Equal(t, "Confidentiality", res.Clause.Title)
	assert.Equal(t, "100_v1.docx", res.Source.Name)
	assert.Equal(t, "100_v2.docx", res.Created.Name)
	assert.Equal(t, 2, res.Created.Number)
	assert.Equal(t, "https://files.example.com/100_v2.docx", res.URL)
	assert.Equal(t, []string{"Editing latest file: 100_v1.docx"}, progress.messages)

	doc := openVersion(t, store, "100_v2.docx")
	paras := doc.Paragraphs()
	require.GreaterOrEqual(t, len(paras), 2)
	heading, body := paras[len(paras)-2], paras[len(paras)-1]
	assert.Equal(t, "Confidentiality", heading.Text())
	assert.Equal(t, "Heading2", heading.Style())
	assert.Equal(t, "Both parties keep the terms confidential.", body.Text())
	assert.True(t, doc.ContainsParagraph("Scope of work, revised."))

	// earlier versions are untouched
	assert.False(t, openVersion(t, store, "100_v1.docx").ContainsParagraph("Confidentiality"))
}

func TestAppendClause_AlreadyPresent(t *testing.T) {
	store := storage.NewMemoryStore("")
	seed(t, store, "100.docx", quoteDoc(t, false, "CONFIDENTIALITY applies to this order."))

	res, err := newService(t, store).AppendClause(context.Background(), "100", "Confidentiality", nil)
	require.NoError(t, err)

	assert.Equal(t, StatusAlreadyPresent, res.Status)
	assert.Equal(t, "100.docx", res.Source.Name)

	objects, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, objects, 1, "no new version should be uploaded")
}

func TestAppendClause_Idempotent(t *testing.T) {
	store := storage.NewMemoryStore("")
	seed(t, store, "100.docx", quoteDoc(t, false))
	svc := newService(t, store)

	first, err := svc.AppendClause(context.Background(), "100", "Termination", nil)
	require.NoError(t, err)
	require.Equal(t, StatusCreated, first.Status)

	second, err := svc.AppendClause(context.Background(), "100", "Termination", nil)
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyPresent, second.Status)
	assert.Equal(t, "100_v1.docx", second.Source.Name)
}

func TestAppendClause_ClauseNotFound(t *testing.T) {
	store := storage.NewMemoryStore("")
	seed(t, store, "100.docx", quoteDoc(t, false))
	progress := &progressLog{}

	res, err := newService(t, store).AppendClause(context.Background(), "100", "Force Majeure", progress.report)
	require.NoError(t, err)

	assert.Equal(t, StatusClauseNotFound, res.Status)
	assert.Equal(t, []string{"Confidentiality", "Termination"}, res.Options)
	assert.Equal(t, "Force Majeure", res.Requested)
	assert.Empty(t, progress.messages)
}

func TestAppendClause_EmptyLibrary(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	svc := New(storage.NewMemoryStore(""), clauses.Static(clauses.NewLibrary()), logger)

	res, err := svc.AppendClause(context.Background(), "100", "Confidentiality", nil)
	require.NoError(t, err)
	assert.Equal(t, StatusClauseNotFound, res.Status)
	assert.Empty(t, res.Options)
}

func TestAppendClause_QuoteNotFound(t *testing.T) {
	store := storage.NewMemoryStore("")
	seed(t, store, "1000.docx", quoteDoc(t, false))
	seed(t, store, "100-draft.docx", quoteDoc(t, false))

	res, err := newService(t, store).AppendClause(context.Background(), "100", "Confidentiality", nil)
	require.NoError(t, err)
	assert.Equal(t, StatusQuoteNotFound, res.Status)
}

func TestAppendClause_CorruptDocument(t *testing.T) {
	store := storage.NewMemoryStore("")
	seed(t, store, "100.docx", []byte("not a zip"))

	_, err := newService(t, store).AppendClause(context.Background(), "100", "Confidentiality", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "100.docx")
}

func TestAppendClause_NoVersionNumberLeft(t *testing.T) {
	store := storage.NewMemoryStore("")
	top := fmt.Sprintf("100_v%d.docx", math.MaxInt)
	seed(t, store, top, quoteDoc(t, false))

	_, err := newService(t, store).AppendClause(context.Background(), "100", "Confidentiality", nil)
	require.ErrorIs(t, err, versions.ErrVersionOverflow)

	objects, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{top}, storage.Names(objects), "nothing may be uploaded")
}

func TestAppendClause_InvalidQuote(t *testing.T) {
	_, err := newService(t, storage.NewMemoryStore("")).AppendClause(context.Background(), "a/b", "Confidentiality", nil)
	assert.Error(t, err)
}

func TestAppendClause_ListError(t *testing.T) {
	store := failingStore{storage.NewMemoryStore("")}

	_, err := newService(t, store).AppendClause(context.Background(), "100", "Confidentiality", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket unavailable")
}

func TestAppendClause_RetriesWhenVersionTaken(t *testing.T) {
	mem := storage.NewMemoryStore("")
	store := &racingStore{MemoryStore: mem, races: 1, rival: quoteDoc(t, false, "Rival edit.")}
	seed(t, mem, "100.docx", quoteDoc(t, false))
	progress := &progressLog{}

	res, err := newService(t, store).AppendClause(context.Background(), "100", "Confidentiality", progress.report)
	require.NoError(t, err)

	assert.Equal(t, StatusCreated, res.Status)
	assert.Equal(t, "100_v1.docx", res.Source.Name)
	assert.Equal(t, "100_v2.docx", res.Created.Name)
	assert.Equal(t, []string{"Editing latest file: 100.docx", "Editing latest file: 100_v1.docx"}, progress.messages)

	doc := openVersion(t, mem, "100_v2.docx")
	assert.True(t, doc.ContainsParagraph("Rival edit."), "retry must build on the rival version")
	assert.True(t, doc.ContainsParagraph("Confidentiality"))
}

func TestAppendClause_GivesUpAfterRepeatedConflicts(t *testing.T) {
	mem := storage.NewMemoryStore("")
	store := &racingStore{MemoryStore: mem, races: maxAttempts, rival: quoteDoc(t, false)}
	seed(t, mem, "100.docx", quoteDoc(t, false))

	_, err := newService(t, store).AppendClause(context.Background(), "100", "Confidentiality", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrExists)
}

func TestAppendClause_CanceledContext(t *testing.T) {
	store := storage.NewMemoryStore("")
	seed(t, store, "100.docx", quoteDoc(t, false))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newService(t, store).AppendClause(ctx, "100", "Confidentiality", nil)
	assert.ErrorIs(t, err, context.Canceled)
}
