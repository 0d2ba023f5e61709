package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doorstep-crm/doorstep/internal/mirror"
	"github.com/doorstep-crm/doorstep/internal/record"
	"github.com/doorstep-crm/doorstep/internal/sync"
)

const validDoc = `
prospects:
  - full_name: Jane Doe
    address: 123 Main St
    list: Customers
  - full_name: John Roe
    address: 9 Oak Ave
`

func newTestImporter(t *testing.T) (*Importer, *record.Store) {
	t.Helper()
	records, err := record.Open("")
	require.NoError(t, err)
	m, err := mirror.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	coord := sync.New(records, m)
	t.Cleanup(coord.Close)
	return New(records, coord), records
}

func TestParse_ValidDocument(t *testing.T) {
	doc, err := Parse([]byte(validDoc))
	require.NoError(t, err)

	require.Len(t, doc.Prospects, 2)
	assert.Equal(t, "Jane Doe", doc.Prospects[0].FullName)
	assert.Equal(t, "Customers", doc.Prospects[0].List)
	assert.Empty(t, doc.Prospects[1].List)
}

func TestParse_MissingAddress(t *testing.T) {
	bad := `
prospects:
  - full_name: Jane Doe
`
	_, err := Parse([]byte(bad))
	assert.ErrorContains(t, err, "invalid import document")
}

func TestParse_EmptyAddress(t *testing.T) {
	bad := `
prospects:
  - full_name: Jane Doe
    address: ""
`
	_, err := Parse([]byte(bad))
	assert.ErrorContains(t, err, "invalid import document")
}

func TestParse_UnknownField(t *testing.T) {
	bad := `
prospects:
  - full_name: Jane Doe
    address: 123 Main St
    phone: 555-0100
`
	_, err := Parse([]byte(bad))
	assert.ErrorContains(t, err, "invalid import document")
}

func TestParse_NotYAML(t *testing.T) {
	_, err := Parse([]byte("{unbalanced"))
	assert.Error(t, err)
}

func TestApply_ImportsProspects(t *testing.T) {
	imp, records := newTestImporter(t)

	doc, err := Parse([]byte(validDoc))
	require.NoError(t, err)

	res, err := imp.Apply(context.Background(), doc, "rep@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 0, res.Skipped)

	prospects := records.ProspectsFor("rep@example.com")
	require.Len(t, prospects, 2)
}

func TestApply_SkipsExistingAddresses(t *testing.T) {
	imp, records := newTestImporter(t)

	_, err := records.InsertProspect("Existing", " 123 MAIN ST ", "Prospects", "rep@example.com")
	require.NoError(t, err)

	doc, err := Parse([]byte(validDoc))
	require.NoError(t, err)

	res, err := imp.Apply(context.Background(), doc, "rep@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 1, res.Skipped)
}
