package livelist

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storehub-backend/internal/domain"
)

type row struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func rowID(r row) string { return r.ID }

func decodeRow(raw []byte) (row, error) {
	var r row
	err := json.Unmarshal(raw, &r)
	return r, err
}

func change(typ domain.ChangeType, data string) domain.ChangeEvent {
	evt := domain.ChangeEvent{Table: "categories", Type: typ, StoreID: "s1"}
	if typ == domain.ChangeDelete {
		evt.Old = json.RawMessage(data)
	} else {
		evt.New = json.RawMessage(data)
	}
	return evt
}

func TestInsertIsIdempotent(t *testing.T) {
	l := New([]row{{ID: "a", Name: "A"}}, rowID, decodeRow)
	evt := change(domain.ChangeInsert, `{"id":"b","name":"B"}`)

	changed, err := l.Apply(evt)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = l.Apply(evt)
	require.NoError(t, err)
	assert.False(t, changed)

	assert.Equal(t, []row{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}, l.Snapshot())
}

func TestUpdateKeepsPosition(t *testing.T) {
	l := New([]row{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}}, rowID, decodeRow)

	_, err := l.Apply(change(domain.ChangeUpdate, `{"id":"b","name":"Bee"}`))
	require.NoError(t, err)
	assert.Equal(t, []row{{ID: "a", Name: "A"}, {ID: "b", Name: "Bee"}, {ID: "c", Name: "C"}}, l.Snapshot())

	// an update for an unseen row behaves like an insert
	_, err = l.Apply(change(domain.ChangeUpdate, `{"id":"d","name":"D"}`))
	require.NoError(t, err)
	assert.Equal(t, 4, l.Len())
}

func TestDelete(t *testing.T) {
	l := New([]row{{ID: "a"}, {ID: "b"}}, rowID, decodeRow)
	evt := change(domain.ChangeDelete, `{"id":"a"}`)

	changed, err := l.Apply(evt)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = l.Apply(evt)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, []row{{ID: "b"}}, l.Snapshot())
}

func TestRejectsMalformedRows(t *testing.T) {
	l := New(nil, rowID, decodeRow)

	_, err := l.Apply(change(domain.ChangeInsert, `{"name":"nameless"}`))
	assert.ErrorIs(t, err, ErrNoID)

	_, err = l.Apply(change(domain.ChangeInsert, `not json`))
	assert.Error(t, err)

	_, err = l.Apply(domain.ChangeEvent{Type: "TRUNCATE"})
	assert.ErrorIs(t, err, ErrUnknownType)

	assert.Equal(t, 0, l.Len())
}

func TestSnapshotIsACopy(t *testing.T) {
	l := New([]row{{ID: "a", Name: "A"}}, rowID, decodeRow)
	snap := l.Snapshot()
	snap[0].Name = "changed"
	assert.Equal(t, "A", l.Snapshot()[0].Name)
}
