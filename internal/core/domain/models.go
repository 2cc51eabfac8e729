package domain

// Base carries the surrogate key shared by every persisted entity.
// The store assigns ID on first insert.
type Base struct {
	ID int64 `json:"id"`
}

func (b *Base) RecordID() int64      { return b.ID }
func (b *Base) SetRecordID(id int64) { b.ID = id }
